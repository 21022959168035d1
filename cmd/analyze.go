package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/flowmetriq/flowmetriq/ingest"
	"github.com/flowmetriq/flowmetriq/sim"
)

var (
	analyzeLogPath string // CSV event log to analyze
	analyzeMinFreq int    // Minimum edge frequency for the dfg view
	analyzeTop     int    // Top-k cutoff for variants
	predictFrom    string // Current activity for the predict view
	predictK       int    // Number of successors to predict
)

// analyzeCmd renders one analysis view of an event log
var analyzeCmd = &cobra.Command{
	Use:       "analyze [stats|dfg|variants|bottlenecks|predict]",
	Short:     "Analyze an event log",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"stats", "dfg", "variants", "bottlenecks", "predict"},
	RunE: func(cmd *cobra.Command, args []string) error {
		records, _, err := ingest.ReadFile(analyzeLogPath)
		if err != nil {
			return err
		}
		log := sim.NewEventLog(records)

		switch args[0] {
		case "stats":
			return renderStats(log)
		case "dfg":
			return renderDFG(log)
		case "variants":
			return renderVariants(log)
		case "bottlenecks":
			return renderBottlenecks(log)
		case "predict":
			return renderPredictions(log)
		}
		return fmt.Errorf("unknown analysis %q", args[0])
	},
}

func newTable(header table.Row) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(header)
	return tw
}

func renderStats(log *sim.EventLog) error {
	stats := sim.ComputeLogStats(log)
	if jsonOutput {
		return printJSON(stats)
	}
	fmt.Printf("%d cases, %d events, %d distinct activities\n",
		stats.TotalCases, stats.TotalEvents, stats.TotalActivities)
	fmt.Printf("case duration: mean %.2f, median %.2f minutes\n",
		stats.CaseDuration.Mean, stats.CaseDuration.Median)

	tw := newTable(table.Row{"Activity", "Count", "Mean", "Min", "Max"})
	for _, a := range stats.Activities {
		tw.AppendRow(table.Row{
			a.Activity, a.Frequency,
			fmt.Sprintf("%.2f", a.MeanMinutes),
			fmt.Sprintf("%.2f", a.MinMinutes),
			fmt.Sprintf("%.2f", a.MaxMinutes),
		})
	}
	tw.Render()
	return nil
}

func renderDFG(log *sim.EventLog) error {
	dfg := sim.ComputeDFG(log)
	if analyzeMinFreq > 0 {
		dfg = dfg.FilterMinFrequency(analyzeMinFreq)
	}
	elements := dfg.Elements()
	if jsonOutput {
		return printJSON(elements)
	}
	tw := newTable(table.Row{"Source", "Target", "Count"})
	for _, e := range elements.Edges {
		tw.AppendRow(table.Row{e.Source, e.Target, e.Weight})
	}
	tw.Render()
	return nil
}

func renderVariants(log *sim.EventLog) error {
	var variants []sim.Variant
	if analyzeTop > 0 {
		variants = sim.TopKVariants(log, analyzeTop)
	} else {
		variants = sim.Variants(log)
	}
	if jsonOutput {
		return printJSON(variants)
	}
	tw := newTable(table.Row{"Variant", "Cases", "Percent"})
	for _, v := range variants {
		tw.AppendRow(table.Row{v.Path(), v.Count, fmt.Sprintf("%.1f%%", v.Percent)})
	}
	tw.Render()
	return nil
}

func renderBottlenecks(log *sim.EventLog) error {
	activities := sim.ActivityBottlenecks(log)
	paths := sim.PathBottlenecks(log)
	if jsonOutput {
		return printJSON(map[string]any{"activities": activities, "paths": paths})
	}
	tw := newTable(table.Row{"Activity", "Frequency", "Mean", "Score"})
	for _, b := range activities {
		tw.AppendRow(table.Row{b.Activity, b.Frequency, fmt.Sprintf("%.2f", b.MeanMinutes), fmt.Sprintf("%.1f", b.Score)})
	}
	tw.Render()

	tw = newTable(table.Row{"Transition", "Frequency", "Mean", "Score"})
	for _, b := range paths {
		tw.AppendRow(table.Row{b.Source + " -> " + b.Target, b.Frequency, fmt.Sprintf("%.2f", b.MeanMinutes), fmt.Sprintf("%.1f", b.Score)})
	}
	tw.Render()
	return nil
}

func renderPredictions(log *sim.EventLog) error {
	if strings.TrimSpace(predictFrom) == "" {
		return fmt.Errorf("--activity is required for predict")
	}
	model, _, err := sim.BuildModel(log)
	if err != nil {
		return err
	}
	predictions := sim.PredictNext(model, predictFrom, predictK)
	if jsonOutput {
		return printJSON(predictions)
	}
	tw := newTable(table.Row{"Next Activity", "Probability"})
	for _, p := range predictions {
		tw.AppendRow(table.Row{p.Activity, fmt.Sprintf("%.3f", p.Probability)})
	}
	tw.Render()
	return nil
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeLogPath, "log", "", "CSV event log file (required)")
	analyzeCmd.Flags().IntVar(&analyzeMinFreq, "min-frequency", 0, "Drop dfg edges observed fewer times than this")
	analyzeCmd.Flags().IntVar(&analyzeTop, "top", 0, "Show only the N most frequent variants")
	analyzeCmd.Flags().StringVar(&predictFrom, "activity", "", "Current activity for predict")
	analyzeCmd.Flags().IntVar(&predictK, "k", 3, "Number of successors for predict")
	_ = analyzeCmd.MarkFlagRequired("log")

	rootCmd.AddCommand(analyzeCmd)
}
