package candidate

import (
	"encoding/json"
	"os"
	"sort"
	"strings"
)

// Sentinel domains. Unknown is a classification outcome, the others mark a
// record whose résumé could not be read.
const (
	DomainUnknown              = "Unknown"
	DomainFileNotFound         = "File Not Found"
	DomainTextExtractionFailed = "Text Extraction Failed"
)

// KeywordSeparator joins keywords in the persisted table.
const KeywordSeparator = ", "

// HighConfidence is the confidence from which a detection counts as strong.
const HighConfidence = 50

type Candidates struct {
	Items []*Record
}

// Record is a single row of the candidate table.
type Record struct {
	Name       string   `json:"name" mapstructure:"name"`
	Email      string   `json:"email" mapstructure:"email"`
	Subject    string   `json:"subject,omitempty" mapstructure:"subject"`
	Date       string   `json:"date,omitempty" mapstructure:"date"`
	Domain     string   `json:"domain,omitempty" mapstructure:"domain"`
	Confidence int      `json:"confidence" mapstructure:"confidence"`
	Keywords   []string `json:"keywords_found,omitempty" mapstructure:"keywords_found"`
	Preview    string   `json:"cv_text_preview,omitempty" mapstructure:"cv_text_preview"`
	Phone      string   `json:"phone,omitempty" mapstructure:"phone"`
}

// IsSentinel reports whether domain marks a pipeline failure.
func IsSentinel(domain string) bool {
	return domain == DomainFileNotFound || domain == DomainTextExtractionFailed
}

// IsClassified reports whether the record carries a real domain.
func (r *Record) IsClassified() bool {
	return r.Domain != "" && r.Domain != DomainUnknown && !IsSentinel(r.Domain)
}

// KeywordsString returns the keywords in their persisted form.
func (r *Record) KeywordsString() string {
	return strings.Join(r.Keywords, KeywordSeparator)
}

// SetFailure resets the classification fields to a sentinel outcome.
func (r *Record) SetFailure(domain, preview string) {
	r.Domain = domain
	r.Confidence = 0
	r.Keywords = nil
	r.Preview = preview
	r.Phone = ""
}

// ParseKeywords splits a persisted keyword string.
func ParseKeywords(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c *Candidates) Len() int {
	return len(c.Items)
}

func (c *Candidates) FindByEmail(email string) *Record {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, r := range c.Items {
		if strings.ToLower(r.Email) == email {
			return r
		}
	}
	return nil
}

// Clone returns a deep copy, used to snapshot the table.
func (c *Candidates) Clone() *Candidates {
	out := &Candidates{Items: make([]*Record, 0, len(c.Items))}
	for _, r := range c.Items {
		cp := *r
		if r.Keywords != nil {
			cp.Keywords = append([]string(nil), r.Keywords...)
		}
		out.Items = append(out.Items, &cp)
	}
	return out
}

// Emails returns the emails of all records in order.
func (c *Candidates) Emails() []string {
	emails := make([]string, 0, len(c.Items))
	for _, r := range c.Items {
		emails = append(emails, r.Email)
	}
	return emails
}

// Exclude removes records whose email is in targets, preserving order.
// It returns the removed emails.
func (c *Candidates) Exclude(targets []string) []string {
	set := make(map[string]struct{}, len(targets))
	for _, t := range targets {
		set[strings.ToLower(strings.TrimSpace(t))] = struct{}{}
	}
	return c.Retain(func(r *Record) bool {
		_, found := set[strings.ToLower(r.Email)]
		return !found
	})
}

// Retain keeps the records for which keep returns true, preserving order.
// It returns the emails of the dropped records.
func (c *Candidates) Retain(keep func(*Record) bool) []string {
	var dropped []string
	kept := c.Items[:0]
	for _, r := range c.Items {
		if keep(r) {
			kept = append(kept, r)
			continue
		}
		dropped = append(dropped, r.Email)
	}
	for i := len(kept); i < len(c.Items); i++ {
		c.Items[i] = nil
	}
	c.Items = kept
	return dropped
}

// DomainSummary aggregates the records of a single domain.
type DomainSummary struct {
	Domain            string  `json:"domain"`
	Count             int     `json:"count"`
	AverageConfidence float64 `json:"average_confidence"`
}

// Summary is the domain distribution of a table.
type Summary struct {
	Domains        []DomainSummary `json:"domains"`
	Total          int             `json:"total"`
	HighConfidence int             `json:"high_confidence"`
}

// ReportByDomain returns the per-domain counts ordered by count, then name.
func (c *Candidates) ReportByDomain() Summary {
	type acc struct {
		count int
		sum   int
	}
	byDomain := make(map[string]*acc)
	high := 0
	for _, r := range c.Items {
		a, ok := byDomain[r.Domain]
		if !ok {
			a = &acc{}
			byDomain[r.Domain] = a
		}
		a.count++
		a.sum += r.Confidence
		if r.Confidence >= HighConfidence {
			high++
		}
	}

	domains := make([]DomainSummary, 0, len(byDomain))
	for name, a := range byDomain {
		domains = append(domains, DomainSummary{
			Domain:            name,
			Count:             a.count,
			AverageConfidence: float64(a.sum) / float64(a.count),
		})
	}
	sort.Slice(domains, func(i, j int) bool {
		if domains[i].Count != domains[j].Count {
			return domains[i].Count > domains[j].Count
		}
		return domains[i].Domain < domains[j].Domain
	})

	return Summary{Domains: domains, Total: c.Len(), HighConfidence: high}
}

func (c *Candidates) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "candidates_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c); err != nil {
		return "", err
	}
	return file.Name(), nil
}
