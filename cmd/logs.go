package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/flowmetriq/flowmetriq/ingest"
	"github.com/flowmetriq/flowmetriq/store"
)

var ingestName string // Display name for the ingested log

// openStore opens the configured database.
func openStore() (*store.Store, error) {
	return store.Open(dbPath)
}

// ingestCmd cleans a CSV file and stores it as an event log
var ingestCmd = &cobra.Command{
	Use:   "ingest <file.csv>",
	Short: "Clean a CSV file and store it as an event log",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		records, clean, err := ingest.ReadFile(args[0])
		if err != nil {
			return err
		}
		if len(records) == 0 {
			return fmt.Errorf("no usable rows in %s", args[0])
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		name := ingestName
		if name == "" {
			name = filepath.Base(args[0])
		}
		meta, err := st.SaveLog(cmd.Context(), name, records)
		if err != nil {
			return err
		}
		logrus.Infof("kept %d of %d rows (%d missing fields, %d bad timestamps, %d negative durations)",
			clean.Kept, clean.TotalRows, clean.MissingFields, clean.BadTimestamps, clean.NegativeDuration)
		fmt.Printf("stored log %s (%d events)\n", meta.ID, meta.NumEvents)
		return nil
	},
}

// logsCmd groups subcommands over stored event logs
var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Manage stored event logs",
}

var logsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored event logs",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		metas, err := st.ListLogs(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(metas)
		}
		tw := table.NewWriter()
		tw.SetOutputMirror(os.Stdout)
		tw.AppendHeader(table.Row{"ID", "Name", "Events", "Uploaded"})
		for _, m := range metas {
			tw.AppendRow(table.Row{m.ID, m.Name, m.NumEvents, m.UploadedAt.Format("2006-01-02 15:04")})
		}
		tw.Render()
		return nil
	},
}

var logsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a stored event log and its simulation results",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.DeleteLog(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("deleted log %s\n", args[0])
		return nil
	},
}

func init() {
	ingestCmd.Flags().StringVar(&ingestName, "name", "", "Display name for the log (defaults to the file name)")

	logsCmd.AddCommand(logsListCmd)
	logsCmd.AddCommand(logsDeleteCmd)

	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(logsCmd)
}
