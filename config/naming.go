package config

import "github.com/iancoleman/strcase"

// NamingConvention maps between API field names and stored column names.
type NamingConvention interface {
	ToColumn(name string) string
	ToAPIField(name string) string
}

type defaultNaming struct {
}

func NewDefaultNaming() *defaultNaming {
	return &defaultNaming{}
}

func (n *defaultNaming) ToColumn(name string) string {
	return strcase.ToSnake(name)
}

func (n *defaultNaming) ToAPIField(name string) string {
	return strcase.ToLowerCamel(name)
}
