package pipeline

import "github.com/spigell/cv-sorter/internal/candidate"

// Outcome is what happened to a single record.
type Outcome string

const (
	OutcomeClassified       Outcome = "classified"
	OutcomeFileNotFound     Outcome = "file_not_found"
	OutcomeExtractionFailed Outcome = "text_extraction_failed"
)

// RecordResult is the outcome of one record. A classified record may still
// carry the Unknown domain.
type RecordResult struct {
	Email      string  `json:"email"`
	Outcome    Outcome `json:"outcome"`
	File       string  `json:"file,omitempty"`
	Domain     string  `json:"domain"`
	Confidence int     `json:"confidence"`
	Phone      string  `json:"phone,omitempty"`
}

func newRecordResult(r *candidate.Record, outcome Outcome, file string) RecordResult {
	return RecordResult{
		Email:      r.Email,
		Outcome:    outcome,
		File:       file,
		Domain:     r.Domain,
		Confidence: r.Confidence,
		Phone:      r.Phone,
	}
}

// Report aggregates a run.
type Report struct {
	RunID            string         `json:"run_id"`
	Total            int            `json:"total"`
	Handled          int            `json:"handled"`
	Classified       int            `json:"classified"`
	Unknown          int            `json:"unknown"`
	Unresolved       int            `json:"file_not_found"`
	ExtractionFailed int            `json:"text_extraction_failed"`
	WithPhone        int            `json:"with_phone"`
	Checkpoints      int            `json:"checkpoints"`
	Interrupted      bool           `json:"interrupted"`
	Results          []RecordResult `json:"results"`
}

func newReport(runID string, total int) *Report {
	return &Report{
		RunID:   runID,
		Total:   total,
		Results: make([]RecordResult, 0, total),
	}
}

func (r *Report) add(res RecordResult) {
	r.Handled++
	r.Results = append(r.Results, res)

	switch res.Outcome {
	case OutcomeFileNotFound:
		r.Unresolved++
		return
	case OutcomeExtractionFailed:
		r.ExtractionFailed++
		return
	}

	if res.Domain == candidate.DomainUnknown {
		r.Unknown++
	} else {
		r.Classified++
	}
	if res.Phone != "" {
		r.WithPhone++
	}
}

// ByOutcome returns the results with the given outcome in run order.
func (r *Report) ByOutcome(o Outcome) []RecordResult {
	var out []RecordResult
	for _, res := range r.Results {
		if res.Outcome == o {
			out = append(out, res)
		}
	}
	return out
}
