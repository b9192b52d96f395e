package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/cv-sorter/internal/candidate"
	"github.com/spigell/cv-sorter/internal/filtering"
	"github.com/spigell/cv-sorter/internal/phone"
	"github.com/spigell/cv-sorter/internal/store"
)

var contactsPrompt = promptui.Select{
	Label: "Mark the candidates as contacted and export them?",
	Items: []string{PromptYes, PromptNo, PromptReportByDomain, PromptManualContact, PromptCandidatesToFile},
}

var contactsCmd = &cobra.Command{
	Use:   "contacts",
	Short: "Select classified candidates eligible for outreach",
	Run: func(cmd *cobra.Command, _ []string) {
		contacts(cmd)
	},
}

func init() {
	rootCmd.AddCommand(contactsCmd)

	contactsCmd.Flags().BoolP("auto-approve", "y", false, "do not ask for confirmation if eligible candidates found")
	contactsCmd.Flags().String("domain", "", "keep only candidates whose domain contains this text")
	contactsCmd.Flags().Int("minimum-confidence", 0, "minimum classification confidence")

	viper.BindPFlag("contacts.domain", contactsCmd.Flags().Lookup("domain"))
	viper.BindPFlag("contacts.minimum-confidence", contactsCmd.Flags().Lookup("minimum-confidence"))
}

func contacts(cmd *cobra.Command) {
	ctx := context.Background()

	logger := newLogger()
	config := loadConfig(logger)

	candidates, err := store.NewCSVTable(config.Output).Load()
	if err != nil {
		logger.Fatal("loading classified candidates", zap.String("path", config.Output), zap.Error(err))
	}

	logger.Info("loaded classified candidates", zap.Int("count", candidates.Len()))

	steps := filtering.Default()
	if strings.TrimSpace(config.Contacts.Domain) == "" {
		filtering.DisableByName(steps, "domain", "contacts.domain is not set")
	}

	deps := filtering.Deps{Logger: logger, Phones: phone.NewExtractor()}
	eligible, err := filtering.Run(ctx, config.filteringConfig(), deps, steps, candidates)
	if err != nil {
		logger.Fatal("filtering failed", zap.Error(err))
	}

	for _, s := range filtering.Describe(steps) {
		logger.Debug("filter status",
			zap.String("name", s.Name),
			zap.Bool("enabled", s.Enabled),
			zap.String("reason", s.Reason),
			zap.Any("details", s.Details),
		)
	}

	if eligible.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no candidates left after filters"))
		return
	}

	action := PromptYes
	for {
		var err error
		if cmd.Flag("auto-approve").Value.String() == "false" {
			_, action, err = contactsPrompt.Run()
			if err != nil {
				logger.Fatal("exiting", zap.Error(err))
			}
		}

		logger.Info("current list of candidates", zap.Int("count", eligible.Len()))

		if err := handleContactsAction(action, logger, config, eligible); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleContactsAction(action string, logger *zap.Logger, config *Config, eligible *candidate.Candidates) error {
	switch action {
	case PromptYes:
		if err := exportXLSX(logger, config.Contacts.Export, eligible); err != nil {
			return err
		}
		if err := markContacted(logger, config.Contacts.LogFile, eligible); err != nil {
			return err
		}
		return errExit
	case PromptNo:
		logger.Info("exiting", zap.String("reason", "got no from prompt"))
		return errExit
	case PromptManualContact:
		return manualContact(logger, config, eligible)
	case PromptReportByDomain:
		return reportByDomain(logger, eligible)
	case PromptCandidatesToFile:
		filename, err := eligible.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func manualContact(logger *zap.Logger, config *Config, eligible *candidate.Candidates) error {
	for {
		if eligible.Len() == 0 {
			return nil
		}

		items := make([]string, 0, eligible.Len()+1)
		for _, r := range eligible.Items {
			label := fmt.Sprintf("%s %s / %s / %d%% / %s",
				r.Email, r.Name, r.Domain, r.Confidence, r.Phone,
			)
			items = append(items, label)
		}

		candidatePrompt := promptui.Select{
			Label: "Choose a candidate and press ENTER",
			Items: append(items, PromptBack),
		}

		_, selected, err := candidatePrompt.Run()
		if err != nil {
			return err
		}

		if selected == PromptBack {
			return nil
		}

		email := strings.Split(selected, " ")[0]
		r := eligible.FindByEmail(email)
		if r == nil {
			return fmt.Errorf("there is no such candidate %s", email)
		}

		if err := markContacted(logger, config.Contacts.LogFile, &candidate.Candidates{Items: []*candidate.Record{r}}); err != nil {
			return err
		}

		eligible.Exclude([]string{email})
	}
}

func markContacted(logger *zap.Logger, path string, c *candidate.Candidates) error {
	if path == "" {
		return fmt.Errorf("contacts.log-file is not set")
	}

	contacted, err := candidate.GetContactLogFromFile(path)
	if err != nil {
		return err
	}

	contacted.Append(c.ToContacts(time.Now()))

	if err := contacted.ToFile(path); err != nil {
		return err
	}

	logger.Info("appended to contact log",
		zap.String("filename", path),
		zap.Strings("candidates", c.Emails()),
	)
	return nil
}
