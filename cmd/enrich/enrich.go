// Package enrich handles the transaction enrichment command
package enrich

import (
	"github.com/spf13/cobra"

	"github.com/txnlens/txnlens/cmd/root"
	"github.com/txnlens/txnlens/internal/container"
	"github.com/txnlens/txnlens/internal/logging"
	"github.com/txnlens/txnlens/internal/source"
)

// Cmd represents the enrich command
var Cmd = &cobra.Command{
	Use:   "enrich",
	Short: "Enrich transactions from a JSON file with categorization metadata",
	Long: `Enrich reads a transaction collection from a JSON file, categorizes every
transaction and writes the enriched collection back out. By default each
transaction is categorized with its own model call; --chunked sends whole
chunks of transactions per call instead.`,
	RunE: enrichFunc,
}

func init() {
	Cmd.Flags().BoolVar(&root.Chunked, "chunked", false, "Send whole chunks of transactions per model call")
}

func enrichFunc(cmd *cobra.Command, args []string) error {
	cfg := root.Cfg
	inputPath := root.SharedFlags.Input
	if inputPath == "" {
		inputPath = cfg.Source.Path
	}
	outputPath := root.SharedFlags.Output
	if outputPath == "" {
		outputPath = "enriched.json"
	}

	c, err := container.NewContainer(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer c.Close()
	log := c.GetLogger()

	col, err := source.Load(inputPath)
	if err != nil {
		return err
	}
	log.Info("Loaded transactions",
		logging.Field{Key: logging.FieldSourceFile, Value: inputPath},
		logging.Field{Key: logging.FieldCount, Value: len(col.Results)})

	enr := c.GetEnricher()
	if root.Chunked {
		col.Results, err = enr.EnrichAllChunked(cmd.Context(), col.Results, cfg.Enrich.ChunkSize)
		if err != nil {
			return err
		}
	} else {
		col.Results = enr.EnrichAll(cmd.Context(), col.Results, cfg.Enrich.BatchSize)
	}

	if err := source.Save(outputPath, col); err != nil {
		return err
	}
	log.Info("Wrote enriched transactions",
		logging.Field{Key: logging.FieldSourceFile, Value: outputPath},
		logging.Field{Key: logging.FieldCount, Value: len(col.Results)})
	return nil
}
