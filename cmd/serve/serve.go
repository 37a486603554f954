// Package serve handles the HTTP server command
package serve

import (
	"github.com/spf13/cobra"

	"github.com/txnlens/txnlens/cmd/root"
	"github.com/txnlens/txnlens/internal/container"
	"github.com/txnlens/txnlens/internal/server"
)

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the enrichment pipeline over HTTP",
	Long: `Serve starts an HTTP server exposing the enrichment pipeline.
POST /api/categorize enriches the configured transaction source and
GET /api/health reports liveness.`,
	RunE: serveFunc,
}

func init() {
	Cmd.Flags().IntVar(&root.Port, "port", 0, "Port to listen on (overrides configuration)")
}

func serveFunc(cmd *cobra.Command, args []string) error {
	cfg := root.Cfg
	if root.Port != 0 {
		cfg.Server.Port = root.Port
	}

	c, err := container.NewContainer(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer c.Close()

	srv := server.New(c.GetEnricher(), cfg, c.GetLogger())
	return srv.Listen()
}
