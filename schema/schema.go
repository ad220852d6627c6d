// Package schema describes the searchable business collections: which
// columns each collection exposes and the declared type of every column.
// The engine validates filters and sorts against this registry before any
// store call is issued.
package schema

import "github.com/iancoleman/strcase"

type FieldType string

const (
	TypeString   FieldType = "string"
	TypeNumber   FieldType = "number"
	TypeDate     FieldType = "date"
	TypeBoolean  FieldType = "boolean"
	TypeCurrency FieldType = "currency"
)

// Column describes a single stored column of a collection.
type Column struct {
	Name string
	Type FieldType
	// FullText marks columns that participate in free text search by default.
	FullText bool
}

type Collection struct {
	Name    string
	columns map[string]Column
	order   []string
}

// Resolve maps a caller-supplied dotted field path to a column. Callers may
// address columns in lowerCamel form; stored names are snake_case.
func (c *Collection) Resolve(field string) (Column, bool) {
	if col, ok := c.columns[field]; ok {
		return col, true
	}
	col, ok := c.columns[strcase.ToSnake(field)]
	return col, ok
}

// Columns returns the column definitions in declaration order.
func (c *Collection) Columns() []Column {
	columns := make([]Column, 0, len(c.order))
	for _, name := range c.order {
		columns = append(columns, c.columns[name])
	}
	return columns
}

func newCollection(name string, columns ...Column) *Collection {
	byName := make(map[string]Column, len(columns))
	order := make([]string, 0, len(columns))
	for _, col := range columns {
		byName[col.Name] = col
		order = append(order, col.Name)
	}
	return &Collection{Name: name, columns: byName, order: order}
}

type Registry struct {
	collections map[string]*Collection
	order       []string
}

func (r *Registry) Collection(name string) (*Collection, bool) {
	c, ok := r.collections[name]
	return c, ok
}

func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// NewRegistry builds the registry of the nine searchable collections.
func NewRegistry() *Registry {
	collections := []*Collection{
		newCollection("customers",
			Column{"name", TypeString, true},
			Column{"phone", TypeString, true},
			Column{"email", TypeString, true},
			Column{"national_id", TypeString, false},
			Column{"status", TypeString, false},
			Column{"balance", TypeCurrency, false},
			Column{"is_active", TypeBoolean, false},
			Column{"created_at", TypeDate, false},
		),
		newCollection("units",
			Column{"code", TypeString, true},
			Column{"name", TypeString, true},
			Column{"unit_type", TypeString, false},
			Column{"area", TypeNumber, false},
			Column{"price", TypeCurrency, false},
			Column{"status", TypeString, false},
			Column{"created_at", TypeDate, false},
		),
		newCollection("contracts",
			Column{"contract_number", TypeString, true},
			Column{"customer_name", TypeString, true},
			Column{"unit_code", TypeString, false},
			Column{"total_amount", TypeCurrency, false},
			Column{"paid_amount", TypeCurrency, false},
			Column{"status", TypeString, false},
			Column{"start_date", TypeDate, false},
			Column{"end_date", TypeDate, false},
			Column{"created_at", TypeDate, false},
		),
		newCollection("transactions",
			Column{"reference", TypeString, true},
			Column{"safe", TypeString, false},
			Column{"transaction_type", TypeString, false},
			Column{"amount", TypeCurrency, false},
			Column{"description", TypeString, true},
			Column{"created_at", TypeDate, false},
		),
		newCollection("invoices",
			Column{"invoice_number", TypeString, true},
			Column{"customer_name", TypeString, true},
			Column{"amount", TypeCurrency, false},
			Column{"is_paid", TypeBoolean, false},
			Column{"due_date", TypeDate, false},
			Column{"created_at", TypeDate, false},
		),
		newCollection("partners",
			Column{"name", TypeString, true},
			Column{"phone", TypeString, true},
			Column{"share_percent", TypeNumber, false},
			Column{"balance", TypeCurrency, false},
			Column{"created_at", TypeDate, false},
		),
		newCollection("brokers",
			Column{"name", TypeString, true},
			Column{"phone", TypeString, true},
			Column{"commission_rate", TypeNumber, false},
			Column{"is_active", TypeBoolean, false},
			Column{"created_at", TypeDate, false},
		),
		newCollection("safes",
			Column{"name", TypeString, true},
			Column{"currency", TypeString, false},
			Column{"balance", TypeCurrency, false},
			Column{"is_active", TypeBoolean, false},
			Column{"created_at", TypeDate, false},
		),
		newCollection("vouchers",
			Column{"voucher_number", TypeString, true},
			Column{"voucher_type", TypeString, false},
			Column{"safe", TypeString, false},
			Column{"amount", TypeCurrency, false},
			Column{"beneficiary", TypeString, true},
			Column{"created_at", TypeDate, false},
		),
	}

	byName := make(map[string]*Collection, len(collections))
	order := make([]string, 0, len(collections))
	for _, c := range collections {
		byName[c.Name] = c
		order = append(order, c.Name)
	}
	return &Registry{collections: byName, order: order}
}
