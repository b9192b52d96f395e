package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/cv-sorter/internal/candidate"
	"github.com/spigell/cv-sorter/internal/classifier"
	"github.com/spigell/cv-sorter/internal/logger"
	"github.com/spigell/cv-sorter/internal/phone"
	"github.com/spigell/cv-sorter/internal/pipeline"
	"github.com/spigell/cv-sorter/internal/resumes"
	"github.com/spigell/cv-sorter/internal/store"
	"github.com/spigell/cv-sorter/internal/textextract"
)

const (
	PromptYes              = "Yes"
	PromptNo               = "No"
	PromptBack             = "back"
	PromptExit             = "Exit"
	PromptReportByDomain   = "Report by domain"
	PromptExportXLSX       = "Export to XLSX"
	PromptRunReportToFile  = "Dump run report to file"
	PromptCandidatesToFile = "Dump candidates to file"
	PromptManualContact    = "Mark candidates as contacted in manual mode"
)

var errExit = errors.New("exit requested")

var classifyPrompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptExit, PromptReportByDomain, PromptExportXLSX, PromptRunReportToFile},
}

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify every candidate of the input table by the résumé found in the cv directory",
	Run: func(cmd *cobra.Command, _ []string) {
		classify(cmd)
	},
}

func init() {
	rootCmd.AddCommand(classifyCmd)

	classifyCmd.Flags().BoolP("auto-approve", "y", false, "do not ask what to do after the run")
	classifyCmd.Flags().StringP("export", "e", "", "write the classified table to this XLSX file")
	classifyCmd.Flags().String("input", "", "candidate table to classify")
	classifyCmd.Flags().String("output", "", "classified table to write")
	classifyCmd.Flags().String("cv-dir", "", "directory with résumé files")

	viper.BindPFlag("input", classifyCmd.Flags().Lookup("input"))
	viper.BindPFlag("output", classifyCmd.Flags().Lookup("output"))
	viper.BindPFlag("cv-dir", classifyCmd.Flags().Lookup("cv-dir"))
}

func newLogger() *zap.Logger {
	l, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	return l
}

func loadConfig(logger *zap.Logger) *Config {
	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	return config
}

// classify is the main command for the cli.
func classify(cmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger := newLogger()
	config := loadConfig(logger)

	logger.Info("starting the cv-sorter", zap.String("version", version))

	table, err := config.profileTable()
	if err != nil {
		logger.Fatal("building domain profiles", zap.Error(err))
	}

	candidates, err := store.NewCSVTable(config.Input).Load()
	if err != nil {
		logger.Fatal("loading candidates", zap.String("path", config.Input), zap.Error(err))
	}

	logger.Info("loaded candidates",
		zap.Int("count", candidates.Len()),
		zap.Strings("domains", table.Names()),
	)

	if candidates.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no candidates found"))
		return
	}

	p, err := pipeline.New(config.pipelineConfig(), pipeline.Deps{
		Table:      store.NewCSVTable(config.Output),
		Resolver:   resumes.NewMatcher(resumes.NewDirectory(config.CVDir), logger),
		Extractor:  textextract.New(logger),
		Classifier: classifier.New(table),
		Phones:     phone.NewExtractor(),
		Logger:     logger,
	})
	if err != nil {
		logger.Fatal("creating the pipeline", zap.Error(err))
	}

	report, err := p.Run(ctx, candidates)
	if err != nil {
		logger.Fatal("classification failed", zap.Error(err))
	}

	if report.Interrupted {
		logger.Warn("run interrupted, progress saved", zap.String("output", config.Output))
		return
	}

	logger.Info("saved classified candidates", zap.String("output", config.Output))

	export := cmd.Flag("export").Value.String()
	if cmd.Flag("auto-approve").Value.String() == "true" {
		if export != "" {
			if err := exportXLSX(logger, export, candidates); err != nil {
				logger.Fatal("exporting", zap.Error(err))
			}
		}
		return
	}

	for {
		_, action, err := classifyPrompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleClassifyAction(action, logger, export, candidates, report); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleClassifyAction(action string, logger *zap.Logger, export string, candidates *candidate.Candidates, report *pipeline.Report) error {
	switch action {
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	case PromptReportByDomain:
		return reportByDomain(logger, candidates)
	case PromptExportXLSX:
		if export == "" {
			export = viper.GetString("output") + ".xlsx"
		}
		return exportXLSX(logger, export, candidates)
	case PromptRunReportToFile:
		filename, err := dumpRunReport(report)
		if err != nil {
			return fmt.Errorf("dump run report to file: %w", err)
		}
		logger.Info("dumping run report to file", zap.String("filename", filename))
		return nil
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func reportByDomain(logger *zap.Logger, candidates *candidate.Candidates) error {
	pretty, err := json.MarshalIndent(candidates.ReportByDomain(), "", "  ")
	if err != nil {
		return err
	}
	logger.Info(string(pretty), zap.Int("candidates count", candidates.Len()))
	return nil
}

func exportXLSX(logger *zap.Logger, path string, candidates *candidate.Candidates) error {
	if err := store.ExportXLSX(path, candidates); err != nil {
		return fmt.Errorf("export to %s: %w", path, err)
	}
	logger.Info("exported candidates", zap.String("filename", path), zap.Int("count", candidates.Len()))
	return nil
}

func dumpRunReport(report *pipeline.Report) (string, error) {
	file, err := os.CreateTemp("", "cv_sorter_run_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return "", err
	}
	return file.Name(), nil
}
