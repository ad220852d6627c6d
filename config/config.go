package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config carries the runtime settings of the API process. Values come from
// flags, the optional config file and environment variables, in the usual
// viper precedence order.
type Config struct {
	Port int

	// Store selects the row store backend: "memory" or "cassandra".
	Store             string
	CassandraHosts    []string
	CassandraKeyspace string

	// TemplatePath is the SQLite file persisting report templates; empty
	// keeps templates in memory.
	TemplatePath string

	Locale     string
	Currency   string
	DateLayout string
}

// Environment variables prefixed with "REPORTING_API_" can override settings e.g. "REPORTING_API_PORT"
const envVarPrefix = "reporting_api"

func BindEnv() {
	viper.SetEnvPrefix(envVarPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func FromViper() *Config {
	return &Config{
		Port:              viper.GetInt("port"),
		Store:             viper.GetString("store"),
		CassandraHosts:    viper.GetStringSlice("hosts"),
		CassandraKeyspace: viper.GetString("keyspace"),
		TemplatePath:      viper.GetString("template-path"),
		Locale:            viper.GetString("locale"),
		Currency:          viper.GetString("currency"),
		DateLayout:        viper.GetString("date-layout"),
	}
}
