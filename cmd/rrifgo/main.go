package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/rrifgo/rrifgo/internal/calculation"
	"github.com/rrifgo/rrifgo/internal/compare"
	"github.com/rrifgo/rrifgo/internal/config"
	"github.com/rrifgo/rrifgo/internal/domain"
	"github.com/rrifgo/rrifgo/internal/taxrules"
)

// simpleCLILogger implements calculation.Logger using the standard log package
type simpleCLILogger struct {
	debug bool
}

func (l simpleCLILogger) Debugf(format string, args ...any) {
	if l.debug {
		log.Printf("DEBUG: "+format, args...)
	}
}
func (l simpleCLILogger) Infof(format string, args ...any)  { log.Printf("INFO: "+format, args...) }
func (l simpleCLILogger) Warnf(format string, args ...any)  { log.Printf("WARN: "+format, args...) }
func (l simpleCLILogger) Errorf(format string, args ...any) { log.Printf("ERROR: "+format, args...) }

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "rrifgo",
	Short: "RRIF Withdrawal Strategy Calculator",
	Long:  "Compares RRIF withdrawal strategies for Canadian retirees: lifetime tax, OAS clawback exposure and terminal balances",
}

var projectCmd = &cobra.Command{
	Use:   "project [scenario-file]",
	Short: "Project all withdrawal strategies for a scenario",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		debugLogs, _ := cmd.Flags().GetBool("debug")
		format, _ := cmd.Flags().GetString("format")
		rulesFile, _ := cmd.Flags().GetString("rules")

		scenario, store, err := loadInputs(args[0], rulesFile)
		if err != nil {
			return err
		}

		formatter := compare.GetFormatterByName(format)
		if formatter == nil {
			return fmt.Errorf("unknown output format %q (want table, table-verbose, csv or json)", format)
		}

		engine := calculation.NewEngine(store)
		engine.SetLogger(simpleCLILogger{debug: debugLogs})

		set, err := compare.Run(context.Background(), engine, scenario)
		if err != nil {
			return fmt.Errorf("projection failed: %w", err)
		}

		out, err := formatter.Format(set)
		if err != nil {
			return fmt.Errorf("formatting failed: %w", err)
		}
		fmt.Fprintln(os.Stdout, out)
		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate [scenario-file]",
	Short: "Validate a scenario file without running projections",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rulesFile, _ := cmd.Flags().GetString("rules")
		scenario, store, err := loadInputs(args[0], rulesFile)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Scenario OK: age %d, RRSP/RRIF $%s, horizon %d years, province %s\n",
			scenario.Age, scenario.RRSPBalance.StringFixed(2), scenario.PlanningHorizonYears, scenario.Province)
		fmt.Fprintf(os.Stdout, "Tax rule years available: %v\n", store.Years())
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(os.Stdout, "rrifgo %s (commit %s, built %s)\n", version, commit, date)
		if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
			fmt.Fprintln(os.Stdout, "go:", bi.GoVersion)
		}
	},
}

func loadInputs(scenarioFile, rulesFile string) (scenario *domain.Scenario, store *taxrules.Store, err error) {
	parser := config.NewInputParser()

	scenario, err = parser.LoadScenario(scenarioFile)
	if err != nil {
		return nil, nil, err
	}

	if rulesFile != "" {
		store, err = parser.LoadRules(rulesFile)
		if err != nil {
			return nil, nil, err
		}
	} else {
		store = taxrules.DefaultStore()
	}
	return scenario, store, nil
}

func main() {
	projectCmd.Flags().String("format", "table", "Output format: table, table-verbose, csv, json")
	projectCmd.Flags().String("rules", "", "Tax rules YAML file overriding the built-in tables")
	projectCmd.Flags().Bool("debug", false, "Enable debug logging")
	validateCmd.Flags().String("rules", "", "Tax rules YAML file overriding the built-in tables")

	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
