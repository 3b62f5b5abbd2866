package main

import (
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mikefara123/vcoin-engine/internal/model"
	"github.com/mikefara123/vcoin-engine/internal/report"
	"github.com/mikefara123/vcoin-engine/internal/scenario"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a scenario projection",
	Long: `Project token supply dynamics over a number of periods.

Reads a scenario YAML file (or uses the built-in baseline), runs the
selected minting strategy period by period, and renders the resulting
snapshots.

Examples:
  # Baseline scenario, 12 periods
  run --periods 12

  # A scenario file with the dynamic strategy forced on
  run --scenario growth.yaml --strategy dynamic_adjusted

  # Export a year of daily periods to CSV and persist the run
  run --periods 365 --format csv --output projection.csv --save`,
	RunE: runScenario,
}

func init() {
	f := runCmd.Flags()
	f.String("scenario", "", "scenario YAML file (default: built-in baseline)")
	f.Int("periods", 12, "number of periods to project")
	f.String("strategy", "", "override strategy (fixed_pool, dynamic_adjusted, value_backed)")
	f.String("format", report.FormatTable, "output format: table, json, csv, or xlsx")
	f.String("output", "", "output file path (default: stdout; required for xlsx)")
	f.Bool("summary", false, "print an aggregate summary instead of per-period rows")
	f.Bool("save", false, "persist the run and its snapshots to the store")
	f.String("name", "", "run name used when saving (default: scenario name)")

	rootCmd.AddCommand(runCmd)
}

func runScenario(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	f := cmd.Flags()
	scenarioPath, _ := f.GetString("scenario")
	periods, _ := f.GetInt("periods")
	strategy, _ := f.GetString("strategy")
	format, _ := f.GetString("format")
	output, _ := f.GetString("output")
	summary, _ := f.GetBool("summary")
	save, _ := f.GetBool("save")
	name, _ := f.GetString("name")

	if !report.ValidFormat(format) {
		return eris.Errorf("unknown format %q", format)
	}
	if format == report.FormatXLSX && output == "" {
		return eris.New("--output is required for xlsx format")
	}

	scfg, err := loadScenario(scenarioPath, strategy)
	if err != nil {
		return err
	}
	if name == "" {
		name = scfg.Name
	}

	log := zap.L().With(
		zap.String("scenario", scfg.Name),
		zap.String("strategy", scfg.Strategy),
		zap.Int("periods", periods),
	)

	runner, err := scenario.New(*scfg)
	if err != nil {
		return err
	}

	var run *model.SimRun
	if save {
		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		run, err = st.CreateRun(ctx, name, scfg, periods)
		if err != nil {
			return err
		}

		snaps, runErr := runner.Run(periods)
		if runErr != nil {
			failPeriod := runner.State().PeriodIndex + 1
			if err := st.FailRun(ctx, run.ID, failPeriod, runErr.Error()); err != nil {
				log.Warn("failed to record run failure", zap.Error(err))
			}
			return runErr
		}
		if err := st.CompleteRun(ctx, run.ID, snaps); err != nil {
			return err
		}
		log.Info("run saved", zap.String("run_id", run.ID))
		return renderSnapshots(snaps, format, output, summary)
	}

	snaps, err := runner.Run(periods)
	if err != nil {
		return err
	}
	log.Info("projection complete",
		zap.Float64("final_supply", snaps[len(snaps)-1].TotalSupply),
		zap.Float64("annual_inflation", snaps[len(snaps)-1].AnnualInflation),
	)
	return renderSnapshots(snaps, format, output, summary)
}

// loadScenario reads the scenario file or falls back to the baseline, and
// applies a strategy override when given.
func loadScenario(path, strategy string) (*scenario.Config, error) {
	var scfg scenario.Config
	if path != "" {
		loaded, err := scenario.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		scfg = *loaded
	} else {
		scfg = scenario.DefaultConfig()
	}

	if strategy != "" {
		scfg.Strategy = strategy
	}
	if err := scfg.Validate(); err != nil {
		return nil, err
	}
	return &scfg, nil
}

// renderSnapshots writes snapshots in the requested format to output (or
// stdout when output is empty).
func renderSnapshots(snaps []model.EconomicSnapshot, format, output string, summary bool) error {
	if format == report.FormatXLSX {
		return report.WriteXLSX(output, snaps)
	}

	var w io.Writer = os.Stdout
	if output != "" {
		file, err := os.Create(output)
		if err != nil {
			return eris.Wrapf(err, "create output %s", output)
		}
		defer file.Close() //nolint:errcheck
		w = file
	}

	switch format {
	case report.FormatJSON:
		return report.WriteJSON(w, snaps)
	case report.FormatCSV:
		return report.WriteCSV(w, snaps)
	default:
		if summary {
			return report.WriteSummary(w, snaps)
		}
		return report.WriteTable(w, snaps)
	}
}
