package main

import (
	"context"
	"os/signal"
	"path/filepath"
	"strings"
	"sync/atomic"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mikefara123/vcoin-engine/internal/model"
	"github.com/mikefara123/vcoin-engine/internal/report"
	"github.com/mikefara123/vcoin-engine/internal/scenario"
	"github.com/mikefara123/vcoin-engine/internal/store"
)

var batchCmd = &cobra.Command{
	Use:   "batch <scenario.yaml>...",
	Short: "Run multiple scenarios concurrently",
	Long: `Run each scenario file through its configured strategy and write one
CSV per scenario into the output directory. Scenarios run concurrently up
to batch.max_concurrent_scenarios.

Example:
  batch scenarios/*.yaml --periods 365 --output-dir results/ --save`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

func init() {
	f := batchCmd.Flags()
	f.Int("periods", 12, "number of periods per scenario")
	f.String("output-dir", ".", "directory for per-scenario CSV output")
	f.Bool("save", false, "persist each run and its snapshots to the store")

	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	periods, _ := cmd.Flags().GetInt("periods")
	outputDir, _ := cmd.Flags().GetString("output-dir")
	save, _ := cmd.Flags().GetBool("save")

	var st store.Store
	if save {
		var err error
		st, err = initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
	}

	return processScenarios(ctx, args, periods, outputDir, cfg.Batch.MaxConcurrentScenarios, st)
}

// processScenarios runs each scenario file concurrently and writes one CSV
// per scenario. Individual scenario failures are logged, not fatal.
func processScenarios(ctx context.Context, paths []string, periods int, outputDir string, concurrency int, st store.Store) error {
	zap.L().Info("processing batch",
		zap.Int("scenarios", len(paths)),
		zap.Int("concurrency", concurrency),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	var succeeded, failed atomic.Int64

	for _, path := range paths {
		g.Go(func() error {
			log := zap.L().With(zap.String("scenario", path))

			if err := runOneScenario(gctx, path, periods, outputDir, st); err != nil {
				failed.Add(1)
				log.Error("scenario failed", zap.Error(err))
				return nil // don't abort batch on individual failure
			}

			succeeded.Add(1)
			log.Info("scenario complete")
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return eris.Wrap(err, "batch processing")
	}

	zap.L().Info("batch complete",
		zap.Int64("succeeded", succeeded.Load()),
		zap.Int64("failed", failed.Load()),
	)

	if failed.Load() > 0 {
		return eris.Errorf("%d of %d scenarios failed", failed.Load(), len(paths))
	}
	return nil
}

func runOneScenario(ctx context.Context, path string, periods int, outputDir string, st store.Store) error {
	scfg, err := scenario.LoadConfig(path)
	if err != nil {
		return err
	}

	runner, err := scenario.New(*scfg)
	if err != nil {
		return err
	}

	var run *model.SimRun
	if st != nil {
		run, err = st.CreateRun(ctx, scfg.Name, scfg, periods)
		if err != nil {
			return err
		}
	}

	snaps, err := runner.Run(periods)
	if err != nil {
		if st != nil && run != nil {
			failPeriod := runner.State().PeriodIndex + 1
			if ferr := st.FailRun(ctx, run.ID, failPeriod, err.Error()); ferr != nil {
				zap.L().Warn("failed to record run failure", zap.Error(ferr))
			}
		}
		return err
	}

	if st != nil && run != nil {
		if err := st.CompleteRun(ctx, run.ID, snaps); err != nil {
			return err
		}
	}

	return renderSnapshots(snaps, report.FormatCSV, batchOutputPath(outputDir, path), false)
}

// batchOutputPath derives results/<scenario>.csv from the scenario file name.
func batchOutputPath(outputDir, scenarioPath string) string {
	base := filepath.Base(scenarioPath)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(outputDir, name+".csv")
}
