package cmd

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/flowmetriq/flowmetriq/ingest"
	"github.com/flowmetriq/flowmetriq/sim"
)

var (
	simLogPath      string // CSV event log to simulate from
	simScenarioPath string // YAML scenario file
	simRuns         int    // Monte-Carlo run count
	simMaxTraceLen  int    // Trace length cap
	simSeed         int64  // Master RNG seed
)

// simulateCmd runs a Monte-Carlo what-if simulation against a CSV log
var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a Monte-Carlo simulation against an event log",
	Long: `Builds a directly-follows model from the event log and generates
synthetic traces, optionally with interventions from a scenario file.
Identical inputs and seed always produce identical output.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		records, clean, err := ingest.ReadFile(simLogPath)
		if err != nil {
			return err
		}
		logrus.Infof("loaded %d of %d rows from %s", clean.Kept, clean.TotalRows, simLogPath)

		cfg := sim.RunConfig{
			RunCount:       simRuns,
			MaxTraceLength: simMaxTraceLen,
			Seed:           simSeed,
		}
		if simScenarioPath != "" {
			scenario, err := sim.LoadScenario(simScenarioPath)
			if err != nil {
				return err
			}
			cfg, err = scenario.RunConfig()
			if err != nil {
				return err
			}
		}

		log := sim.NewEventLog(records)
		tableModel, profiles, err := sim.BuildModel(log)
		if err != nil {
			return err
		}

		start := time.Now()
		result, err := sim.Run(cmd.Context(), log, tableModel, profiles, cfg)
		if err != nil {
			return err
		}
		logrus.Infof("simulation finished in %s", time.Since(start))

		if jsonOutput {
			return printJSON(result)
		}
		printComparison(result)
		return nil
	},
}

// printComparison renders baseline vs simulated means per activity plus
// the case-duration bottom line.
func printComparison(result *sim.SimulationResult) {
	activities := make([]string, 0, len(result.Baseline.Activities))
	for activity := range result.Baseline.Activities {
		activities = append(activities, activity)
	}
	sort.Strings(activities)

	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(table.Row{"Activity", "Baseline Mean", "Simulated Mean", "Delta", "Delta %"})
	for _, activity := range activities {
		base := result.Baseline.Activities[activity]
		simulated, ok := result.Simulated.Activities[activity]
		if !ok {
			tw.AppendRow(table.Row{activity, fmt.Sprintf("%.2f", base.Mean), "-", "-", "-"})
			continue
		}
		delta := result.ActivityDeltas[activity]
		tw.AppendRow(table.Row{
			activity,
			fmt.Sprintf("%.2f", base.Mean),
			fmt.Sprintf("%.2f", simulated.Mean),
			fmt.Sprintf("%+.2f", delta.AbsoluteMean),
			fmt.Sprintf("%+.1f%%", delta.PercentMean),
		})
	}
	tw.AppendFooter(table.Row{
		"Case duration",
		fmt.Sprintf("%.2f", result.Baseline.CaseDuration.Mean),
		fmt.Sprintf("%.2f", result.Simulated.CaseDuration.Mean),
		fmt.Sprintf("%+.2f", result.CaseDurationDelta.AbsoluteMean),
		fmt.Sprintf("%+.1f%%", result.CaseDurationDelta.PercentMean),
	})
	tw.Render()

	fmt.Printf("%d runs, seed %d, durations in minutes\n", result.RunCount, result.Seed)
	if result.TruncatedRuns > 0 {
		fmt.Printf("%d of %d runs hit the trace length cap\n", result.TruncatedRuns, result.RunCount)
	}
}

func init() {
	simulateCmd.Flags().StringVar(&simLogPath, "log", "", "CSV event log file (required)")
	simulateCmd.Flags().StringVar(&simScenarioPath, "scenario", "", "YAML scenario file; overrides the inline flags")
	simulateCmd.Flags().IntVar(&simRuns, "runs", 1000, "Number of Monte-Carlo runs")
	simulateCmd.Flags().IntVar(&simMaxTraceLen, "max-trace-length", sim.DefaultMaxTraceLength, "Trace length cap per run")
	simulateCmd.Flags().Int64Var(&simSeed, "seed", 42, "Master RNG seed")
	_ = simulateCmd.MarkFlagRequired("log")

	rootCmd.AddCommand(simulateCmd)
}
