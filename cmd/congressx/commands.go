package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/congress-network/congressx/pkg/db/production"
	"github.com/congress-network/congressx/pkg/expect"
	"github.com/spf13/cobra"
)

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the staging schema and bookkeeping tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := connect(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			if err := e.Staging.InitSchema(ctx); err != nil {
				return fmt.Errorf("staging schema: %w", err)
			}
			if err := e.Engine.InitTables(ctx); err != nil {
				return fmt.Errorf("production tables: %w", err)
			}

			fmt.Printf("Initialized schema %q and bookkeeping tables in %q\n",
				e.Cfg.StagingSchema, e.Cfg.ProductionSchema)
			return nil
		},
	}
}

func validateCmd() *cobra.Command {
	var suiteName, schema string

	cmd := &cobra.Command{
		Use:   "validate [table]",
		Short: "Run the expectation suite for one staging table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := connect(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			if schema != "" {
				e.Runner.Schema = schema
			}
			if suiteName != "" {
				named, ok := expect.SuiteByName(e.Runner.Suites, suiteName)
				if !ok {
					return fmt.Errorf("unknown suite %q", suiteName)
				}
				if named.Table != args[0] {
					return fmt.Errorf("suite %q is bound to table %q", suiteName, named.Table)
				}
			}

			result, err := e.Runner.RunTable(ctx, args[0])
			if err != nil {
				return err
			}

			fmt.Printf("Suite %s on %s: %d passed, %d failed\n",
				result.Suite, result.Table, result.Passed, result.Failed)
			if !result.Success {
				return fmt.Errorf("validation failed for %s", result.Table)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&suiteName, "suite", "", "Suite name to run (defaults to the table's suite)")
	cmd.Flags().StringVar(&schema, "schema", "", "Schema to validate (defaults to the staging schema)")

	return cmd
}

func promoteCmd() *cobra.Command {
	var skipValidation bool
	var source, target string

	cmd := &cobra.Command{
		Use:   "promote [table]",
		Short: "Validate and promote one staging table into production",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			table := args[0]
			if !production.IsPromotable(table) {
				return fmt.Errorf("table %q is not promotable", table)
			}

			e, err := connect(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			if source != "" {
				e.Runner.Schema = source
				e.Engine.SourceSchema = source
			}
			if target != "" {
				e.Engine.TargetSchema = target
			}

			if _, hasSuite := e.Runner.Suites[table]; hasSuite && !skipValidation {
				result, err := e.Runner.RunTable(ctx, table)
				if err != nil {
					return err
				}
				if !result.Success {
					return fmt.Errorf("validation failed for %s (%d failing expectations), refusing to promote",
						table, result.Failed)
				}
			}

			promotion, err := e.Engine.Promote(ctx, table)
			if err != nil {
				return err
			}

			fmt.Printf("Promoted %s: %d rows as %s into %s\n",
				promotion.Table, promotion.RowsPromoted, promotion.Version, promotion.TargetSchema)
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipValidation, "skip-validation", false, "Promote without running the suite first")
	cmd.Flags().StringVar(&source, "source", "", "Source schema (defaults to the staging schema)")
	cmd.Flags().StringVar(&target, "target", "", "Target schema (defaults to the production schema)")

	return cmd
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show staging counts, freshness and recent promotions",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := connect(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			counts, err := e.Staging.TableCounts(ctx)
			if err != nil {
				return err
			}

			tables := make([]string, 0, len(counts))
			for table := range counts {
				tables = append(tables, table)
			}
			sort.Strings(tables)

			fmt.Println("Staging")
			fmt.Println(strings.Repeat("=", 40))
			for _, table := range tables {
				line := fmt.Sprintf("  %-22s %d", table, counts[table])
				if updated, err := e.Staging.LastUpdated(ctx, table); err == nil && updated != nil {
					line += fmt.Sprintf("  (updated %s)", updated.Format("2006-01-02 15:04"))
				}
				fmt.Println(line)
			}

			promotions, err := e.Engine.Promotions(ctx, 5)
			if err != nil {
				return err
			}
			fmt.Println("\nRecent promotions")
			fmt.Println(strings.Repeat("=", 40))
			if len(promotions) == 0 {
				fmt.Println("  (none)")
			}
			for _, p := range promotions {
				state := "ok"
				if !p.Success {
					state = "FAILED"
				}
				fmt.Printf("  %-22s %-10s %8d rows  %s  %s\n",
					p.Table, p.Version, p.RowsPromoted, state, p.PromotedAt.Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
}

func docsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "docs",
		Short: "Render the latest suite outcomes as HTML to stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := connect(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			page, err := e.Runner.RenderDocs(ctx)
			if err != nil {
				return err
			}
			fmt.Println(page)
			return nil
		},
	}
}

func testCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "Run every expectation suite, exiting non-zero on failure",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := connect(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			results, err := e.Runner.RunAll(ctx)
			if err != nil {
				return err
			}

			tables := make([]string, 0, len(results))
			for table := range results {
				tables = append(tables, table)
			}
			sort.Strings(tables)

			failed := 0
			for _, table := range tables {
				r := results[table]
				state := "PASS"
				if !r.Success {
					state = "FAIL"
					failed++
				}
				fmt.Printf("  %-4s %-22s %d/%d expectations\n", state, table, r.Passed, r.Total)
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d suites failed", failed, len(results))
			}
			fmt.Printf("All %d suites passed\n", len(results))
			return nil
		},
	}
}

func cleanupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Drop versioned production tables beyond the retention window",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := connect(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			dropped, err := e.Engine.CleanupVersions(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("Dropped %d stale versioned tables\n", dropped)
			return nil
		},
	}
}
