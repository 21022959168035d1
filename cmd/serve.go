package cmd

import (
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/flowmetriq/flowmetriq/server"
)

var serveAddr string // Listen address for the HTTP API

// serveCmd runs the HTTP API backed by the configured database
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		handler := server.New(server.Config{Store: st})
		logrus.Infof("listening on %s (db: %s)", serveAddr, dbPath)
		return http.ListenAndServe(serveAddr, handler)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Listen address")

	rootCmd.AddCommand(serveCmd)
}
