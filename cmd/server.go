package cmd

import (
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/raseelhq/reporting-apis/config"
	"github.com/raseelhq/reporting-apis/db"
	"github.com/raseelhq/reporting-apis/graphql"
	"github.com/raseelhq/reporting-apis/log"
	"github.com/raseelhq/reporting-apis/reports"
	"github.com/raseelhq/reporting-apis/rest"
	"github.com/raseelhq/reporting-apis/schema"
	"github.com/raseelhq/reporting-apis/search"
)

const defaultGraphQLPath = "/graphql"

var logger log.Logger

var serverCmd = &cobra.Command{
	Use:   os.Args[0] + " [--store memory|cassandra] [OPTIONS]",
	Short: "Search and reporting endpoints for the business collections",
	Args: func(cmd *cobra.Command, args []string) error {
		store := viper.GetString("store")
		if store != "memory" && store != "cassandra" {
			return fmt.Errorf("unknown store '%s'", store)
		}
		if store == "cassandra" && len(viper.GetStringSlice("hosts")) == 0 {
			return errors.New("hosts are required for the cassandra store")
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.FromViper()

		router, err := buildRouter(cfg)
		if err != nil {
			logger.Fatal("unable to initialize server", "error", err)
		}

		endpoint := fmt.Sprintf(":%d", cfg.Port)
		logger.Info("server listening", "endpoint", endpoint)
		if err := http.ListenAndServe(endpoint, router); err != nil {
			logger.Fatal("server stopped", "error", err)
		}
	},
}

func buildRouter(cfg *config.Config) (http.Handler, error) {
	registry := schema.NewRegistry()

	var store db.Store
	switch cfg.Store {
	case "cassandra":
		session, err := db.NewGoCqlSession(cfg.CassandraHosts, cfg.CassandraKeyspace)
		if err != nil {
			return nil, err
		}
		store = db.NewCassandraStore(session, cfg.CassandraKeyspace)
	default:
		store = db.NewMemStore()
	}

	var templates reports.TemplateStore
	if cfg.TemplatePath != "" {
		gormStore, err := reports.NewGormTemplateStore(cfg.TemplatePath)
		if err != nil {
			return nil, err
		}
		templates = gormStore
	} else {
		templates = reports.NewMemTemplateStore()
	}

	formatter := reports.NewFormatter(reports.FormatterOptions{
		Locale:     cfg.Locale,
		Currency:   cfg.Currency,
		DateLayout: cfg.DateLayout,
	})

	searchSvc := search.NewService(store, registry, logger)
	reportSvc := reports.NewService(store, templates, registry, formatter, logger)

	router := rest.NewRouter(searchSvc, reportSvc, logger)

	schemaGen := graphql.NewSchemaGenerator(searchSvc, registry, config.NewDefaultNaming(), logger)
	routes, err := schemaGen.Routes(defaultGraphQLPath)
	if err != nil {
		return nil, err
	}
	for _, route := range routes {
		router.Handler(route.Method, route.Pattern, route.Handler)
	}

	return router, nil
}

func init() {
	flags := serverCmd.PersistentFlags()
	flags.Int("port", 8080, "HTTP port to listen on")
	flags.String("store", "memory", "row store backend: memory or cassandra")
	flags.StringSlice("hosts", nil, "cassandra contact points")
	flags.String("keyspace", "reporting", "cassandra keyspace holding the collections")
	flags.String("template-path", "", "sqlite file persisting report templates (empty keeps them in memory)")
	flags.String("locale", "en", "locale used for report value formatting")
	flags.String("currency", "USD", "ISO currency code for currency fields")
	flags.String("date-layout", "2006-01-02", "layout for date fields")

	flags.VisitAll(func(flag *pflag.Flag) {
		if err := viper.BindPFlag(flag.Name, flag); err != nil {
			panic(err)
		}
	})
	config.BindEnv()
}

func Execute() {
	var err error
	logger, err = log.NewProductionLogger()
	if err != nil {
		fmt.Fprintln(os.Stderr, "unable to initialize logger:", err)
		os.Exit(1)
	}

	if err := serverCmd.Execute(); err != nil {
		logger.Fatal("command failed", "error", err)
	}
}
