// Command senstore is a small operations tool for the heritage store: it can
// create the schema, load the seed dataset and run descriptor queries against
// any configured backend.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sen-heritage/store"
	"github.com/sen-heritage/store/jsonstore"
	"github.com/sen-heritage/store/mongostore"
	"github.com/sen-heritage/store/schema"
	"github.com/sen-heritage/store/seed"
	"github.com/sen-heritage/store/sqlstore"
)

var (
	cfgPath string
	log     *zap.SugaredLogger
)

func main() {
	root := &cobra.Command{
		Use:           "senstore",
		Short:         "Operations tool for the heritage store",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			base, _ := zap.NewDevelopment()
			log = base.Sugar()
		},
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "senstore.yaml", "path to the backend config file")

	root.AddCommand(seedCmd(), queryCmd(), tablesCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "senstore:", err)
		os.Exit(1)
	}
}

// openStore builds the backend named by the config file.
func openStore(ctx context.Context) (store.Store, store.Config, error) {
	cfg, err := store.LoadConfig(cfgPath)
	if err != nil {
		return nil, cfg, err
	}

	switch cfg.Type {
	case store.BackendJSON:
		s, err := jsonstore.Open(cfg.FilePath, jsonstore.WithLogger(log))
		return s, cfg, err
	case store.BackendMongo:
		s, err := mongostore.Open(ctx, cfg, mongostore.WithLogger(log))
		return s, cfg, err
	case store.BackendMySQL, store.BackendPostgres, store.BackendSQLite:
		s, err := sqlstore.Open(ctx, cfg, sqlstore.WithLogger(log))
		return s, cfg, err
	default:
		return nil, cfg, store.NewValidationError("type", fmt.Sprintf("unknown backend %q", cfg.Type))
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the schema where needed and load the starter dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, cfg, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			if sqlStore, ok := s.(*sqlstore.Store); ok {
				if err := sqlStore.EnsureSchema(ctx); err != nil {
					return err
				}
				log.Infow("schema ensured", "backend", cfg.Type)
			}
			if err := seed.Load(ctx, s); err != nil {
				return err
			}
			log.Infow("seed loaded", "backend", cfg.Type)
			return nil
		},
	}
}

func queryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "query <collection> [param=value ...]",
		Short: "Run a descriptor query and print the result envelope",
		Long: `Run a descriptor query against the configured backend. Parameters use
the HTTP wire convention, for example:

  senstore query heritage_sites q=citadel sort=rating order=desc page=1 limit=5
  senstore query artifacts rarity_in=rare,legendary expand=heritageSite`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values := url.Values{}
			for _, arg := range args[1:] {
				key, val, ok := strings.Cut(arg, "=")
				if !ok {
					return store.NewValidationError(arg, "parameters take the form key=value")
				}
				values.Add(key, val)
			}

			ctx := cmd.Context()
			s, _, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			result, err := s.FindAllAdvanced(ctx, args[0], store.ParseQuery(values))
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
}

func tablesCmd() *cobra.Command {
	var dialectName string
	cmd := &cobra.Command{
		Use:   "tables",
		Short: "Print the DDL for every catalog table",
		RunE: func(cmd *cobra.Command, args []string) error {
			dialect, err := sqlstore.DialectFor(store.Backend(dialectName))
			if err != nil {
				return err
			}
			for _, t := range schema.Tables() {
				for _, stmt := range sqlstore.CreateStatements(dialect, t) {
					fmt.Println(stmt + ";")
				}
				fmt.Println()
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&dialectName, "dialect", "d", "sqlite", "SQL dialect (mysql, postgres, sqlite)")
	return cmd
}
