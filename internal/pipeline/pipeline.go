// Package pipeline classifies a table of candidates: every record gets its
// résumé resolved, read, scored and searched for a phone number. Progress is
// checkpointed to the output table so an interrupted run loses at most one batch.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/cv-sorter/internal/candidate"
	"github.com/spigell/cv-sorter/internal/classifier"
	"github.com/spigell/cv-sorter/internal/logger"
	"github.com/spigell/cv-sorter/internal/phone"
	"github.com/spigell/cv-sorter/internal/resumes"
	"github.com/spigell/cv-sorter/internal/store"
	"github.com/spigell/cv-sorter/internal/utils"
)

const (
	DefaultBatchSize     = 5
	DefaultMinTextLength = 50
	DefaultPreviewLength = 1000

	// ExtractionFailedPreview replaces the preview of unreadable résumés.
	ExtractionFailedPreview = "Text extraction failed"
)

// Resolver finds the résumé file of a candidate.
type Resolver interface {
	Find(name, email string) (*resumes.Match, error)
}

// TextExtractor returns the normalized text of a file or "" when it cannot be read.
type TextExtractor interface {
	Extract(path string) string
}

// Config tunes a pipeline. Zero values fall back to the defaults.
type Config struct {
	BatchSize     int
	MinTextLength int
	PreviewLength int
}

// Deps aggregates the collaborators of a pipeline.
type Deps struct {
	Table      store.Table
	Resolver   Resolver
	Extractor  TextExtractor
	Classifier *classifier.Classifier
	Phones     *phone.Extractor
	Logger     *zap.Logger
}

type Pipeline struct {
	cfg  Config
	deps Deps
}

func New(cfg Config, deps Deps) (*Pipeline, error) {
	if deps.Table == nil {
		return nil, errors.New("output table is required")
	}
	if deps.Resolver == nil {
		return nil, errors.New("résumé resolver is required")
	}
	if deps.Extractor == nil {
		return nil, errors.New("text extractor is required")
	}
	if deps.Classifier == nil {
		deps.Classifier = classifier.New(nil)
	}
	if deps.Phones == nil {
		deps.Phones = phone.NewExtractor()
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.MinTextLength <= 0 {
		cfg.MinTextLength = DefaultMinTextLength
	}
	if cfg.PreviewLength <= 0 {
		cfg.PreviewLength = DefaultPreviewLength
	}

	return &Pipeline{cfg: cfg, deps: deps}, nil
}

// Run reclassifies every record of c in place. The whole table is saved after
// every BatchSize handled records and once more at the end. A cancelled ctx
// stops the run between records; the final save still happens and the report
// is marked as interrupted. Only storage failures are returned as errors.
func (p *Pipeline) Run(ctx context.Context, c *candidate.Candidates) (*Report, error) {
	report := newReport(uuid.NewString(), c.Len())
	log := p.deps.Logger.With(zap.String(logger.FieldRunID, report.RunID))

	log.Info("starting classification",
		zap.Int("candidates", c.Len()),
		zap.Int("batch_size", p.cfg.BatchSize),
	)

	for _, r := range c.Items {
		if err := ctx.Err(); err != nil {
			report.Interrupted = true
			log.Warn("classification interrupted",
				zap.Int("handled", report.Handled),
				zap.Error(err),
			)
			break
		}

		report.add(p.Process(r))

		if report.Handled%p.cfg.BatchSize == 0 {
			if err := p.checkpoint(log, c, report); err != nil {
				return report, err
			}
		}
	}

	if err := p.checkpoint(log, c, report); err != nil {
		return report, err
	}

	log.Info("classification finished",
		zap.Int("handled", report.Handled),
		zap.Int("classified", report.Classified),
		zap.Int("unknown", report.Unknown),
		zap.Int("file_not_found", report.Unresolved),
		zap.Int("text_extraction_failed", report.ExtractionFailed),
	)

	return report, nil
}

func (p *Pipeline) checkpoint(log *zap.Logger, c *candidate.Candidates, report *Report) error {
	if err := p.deps.Table.Save(c); err != nil {
		return fmt.Errorf("saving checkpoint after %d records: %w", report.Handled, err)
	}
	report.Checkpoints++
	log.Debug("checkpoint saved", zap.Int("handled", report.Handled))
	return nil
}

// Process classifies a single record in place and reports what happened.
func (p *Pipeline) Process(r *candidate.Record) RecordResult {
	log := logger.WithCandidate(p.deps.Logger, r.Name, r.Email)

	match, err := p.deps.Resolver.Find(r.Name, r.Email)
	if err != nil {
		if errors.Is(err, resumes.ErrNoMatch) {
			log.Warn("no résumé found")
		} else {
			log.Warn("resolving résumé failed", zap.Error(err))
		}
		r.SetFailure(candidate.DomainFileNotFound, "")
		return newRecordResult(r, OutcomeFileNotFound, "")
	}

	text := p.deps.Extractor.Extract(match.Path)
	if utf8.RuneCountInString(strings.TrimSpace(text)) < p.cfg.MinTextLength {
		log.Warn("résumé text too short",
			zap.String("file", match.Name),
			zap.Int("length", utf8.RuneCountInString(text)),
			zap.String("text", utils.TruncateForLog(text, 80)),
		)
		r.SetFailure(candidate.DomainTextExtractionFailed, ExtractionFailedPreview)
		return newRecordResult(r, OutcomeExtractionFailed, match.Name)
	}

	result := p.deps.Classifier.Classify(text)
	r.Domain = result.Domain
	r.Confidence = result.Confidence
	r.Keywords = append([]string(nil), result.Keywords...)
	r.Preview = utils.Prefix(text, p.cfg.PreviewLength)

	r.Phone = ""
	if number, ok := p.deps.Phones.Find(r.Preview); ok {
		r.Phone = number
	}

	log.Info("candidate classified",
		zap.String("file", match.Name),
		zap.String("domain", r.Domain),
		zap.Int("confidence", r.Confidence),
		zap.Bool("phone_found", r.Phone != ""),
	)

	return newRecordResult(r, OutcomeClassified, match.Name)
}
