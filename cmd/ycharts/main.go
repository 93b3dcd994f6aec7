package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"ycharts_backend/internal/app/di"
	quotesadapters "ycharts_backend/internal/feature/quotes/adapters"
	"ycharts_backend/internal/feature/quotes/domain/entity"
	jwtmw "ycharts_backend/internal/platform/jwt"
	"ycharts_backend/pkg/ycharts"
)

func main() {
	_ = godotenv.Load(".env")

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd は ycharts コマンドとサブコマンドを組み立てます。
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "ycharts",
		Short:        "Query the YCharts API from the command line",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringP("resource", "r", ycharts.Companies.Path, "companies, mutual_funds or indicators")
	root.PersistentFlags().String("api-key", "", "API key (default $YCHARTS_API_KEY)")
	root.PersistentFlags().String("base-url", "", "API base URL (default $YCHARTS_BASE_URL)")

	root.AddCommand(
		queryCmd(entity.EndpointPoints, "points SYMBOLS [CODES]", "Latest values on or before --date",
			cobra.RangeArgs(1, 2), []string{"date"}),
		queryCmd(entity.EndpointSeries, "series SYMBOLS [CODES]", "Time series between --start_date and --end_date",
			cobra.RangeArgs(1, 2), []string{"start_date", "end_date", "resample_frequency", "resample_function", "fill_method", "aggregate_function"}),
		queryCmd(entity.EndpointInfo, "info SYMBOLS FIELDS", "Descriptive info fields",
			cobra.ExactArgs(2), nil),
		queryCmd(entity.EndpointList, "list", "One page of securities, optionally filtered",
			cobra.NoArgs, []string{"page", "filter_name", "filter_value"}),
		queryCmd(entity.EndpointDividends, "dividends SYMBOLS", "Dividend history",
			cobra.ExactArgs(1), []string{"ex_start_date", "ex_end_date", "dividend_type"}),
		queryCmd(entity.EndpointSplits, "splits SYMBOLS", "Stock split history",
			cobra.ExactArgs(1), []string{"split_start_date", "split_end_date"}),
		queryCmd(entity.EndpointSpinoffs, "spinoffs SYMBOLS", "Stock spinoff history",
			cobra.ExactArgs(1), []string{"spinoff_start_date", "spinoff_end_date"}),
		tokenCmd(),
	)
	return root
}

// queryCmd は1つのエンドポイントを呼び出すサブコマンドを生成します。
// params の各要素は同名のフラグとクエリパラメータになります。
func queryCmd(endpoint, use, short string, args cobra.PositionalArgs, params []string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFromFlags(cmd)
			if err != nil {
				return err
			}
			resource, _ := cmd.Flags().GetString("resource")

			q := entity.Query{Resource: resource, Endpoint: endpoint, Params: map[string]string{}}
			if len(args) > 0 {
				q.Symbols = entity.SplitList(args[0])
			}
			if len(args) > 1 {
				q.Codes = entity.SplitList(args[1])
			}
			for _, p := range params {
				if v, _ := cmd.Flags().GetString(p); v != "" {
					q.Params[p] = v
				}
			}

			fetcher := quotesadapters.NewYChartsFetcher(cfg, di.ClientOptions(cfg)...)
			doc, err := fetcher.Fetch(cmd.Context(), q)
			if err != nil {
				return err
			}
			return printJSON(cmd, doc)
		},
	}
	for _, p := range params {
		cmd.Flags().String(p, "", "")
	}
	return cmd
}

func tokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token SUBJECT",
		Short: "Issue a gateway bearer token signed with $JWT_SECRET",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			secret := os.Getenv(jwtmw.EnvKeyJWTSecret)
			if secret == "" {
				return errors.New("JWT_SECRET is not set")
			}
			ttl, _ := cmd.Flags().GetDuration("ttl")
			token, err := jwtmw.NewGenerator(secret, ttl).GenerateToken(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
	cmd.Flags().Duration("ttl", 24*time.Hour, "token lifetime")
	return cmd
}

// configFromFlags は環境変数の設定にフラグの値を上書きします。
func configFromFlags(cmd *cobra.Command) (ycharts.Config, error) {
	cfg := ycharts.LoadConfig()
	if v, _ := cmd.Flags().GetString("api-key"); v != "" {
		cfg.APIKey = v
	}
	if v, _ := cmd.Flags().GetString("base-url"); v != "" {
		cfg.BaseURL = v
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func printJSON(cmd *cobra.Command, doc ycharts.Document) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
