package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/cv-sorter/internal/store"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the domain distribution of the classified table",
	Run: func(cmd *cobra.Command, _ []string) {
		summary(cmd)
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)

	summaryCmd.Flags().StringP("export", "e", "", "also write the classified table and summary to this XLSX file")
}

func summary(cmd *cobra.Command) {
	logger := newLogger()
	config := loadConfig(logger)

	candidates, err := store.NewCSVTable(config.Output).Load()
	if err != nil {
		logger.Fatal("loading classified candidates", zap.String("path", config.Output), zap.Error(err))
	}

	if err := reportByDomain(logger, candidates); err != nil {
		logger.Fatal("building report", zap.Error(err))
	}

	if export := cmd.Flag("export").Value.String(); export != "" {
		if err := exportXLSX(logger, export, candidates); err != nil {
			logger.Fatal("exporting", zap.Error(err))
		}
	}
}
