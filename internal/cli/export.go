package cli

import (
	"context"
	"log"
	"os"

	"github.com/spf13/cobra"

	"upsc-trainer/internal/config"
)

// NewExportCmd writes the full history and mistake bank as a JSON backup.
func NewExportCmd(configPath *string) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export history and mistakes to a JSON backup file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd.Context(), *configPath, out)
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "output path (defaults to a dated filename)")
	return cmd
}

func runExport(ctx context.Context, configPath, out string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	service, _, cleanup, err := buildTrainer(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	if out == "" {
		out = service.ExportFilename()
	}
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := service.Export(ctx, f); err != nil {
		return err
	}
	log.Printf("backup written to %s", out)
	return nil
}
