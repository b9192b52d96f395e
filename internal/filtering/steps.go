package filtering

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/cv-sorter/internal/candidate"
	"github.com/spigell/cv-sorter/internal/phone"
)

type classifiedFilter struct{}

// NewClassified creates a filter that removes candidates without a real domain.
func NewClassified() Filter {
	return &classifiedFilter{}
}

func (f *classifiedFilter) Name() string { return "classified" }

func (f *classifiedFilter) Disable(string) {}

func (f *classifiedFilter) IsEnabled() bool { return true }

func (f *classifiedFilter) Validate(*Config) error { return nil }

func (f *classifiedFilter) Apply(_ context.Context, deps Deps, c *candidate.Candidates) (*candidate.Candidates, Step, error) {
	initial := c.Len()
	dropped := c.Retain(func(r *candidate.Record) bool { return r.IsClassified() })
	logDropped(deps, "excluding unclassified candidates", dropped, c.Len())

	return c, Step{Initial: initial, Dropped: len(dropped), Left: c.Len()}, nil
}

func (f *classifiedFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: true}
}

type confidenceFilter struct {
	minimum int
}

// NewConfidence creates a filter that removes weak detections.
func NewConfidence() Filter {
	return &confidenceFilter{}
}

func (f *confidenceFilter) Name() string { return "confidence" }

func (f *confidenceFilter) Disable(string) {}

func (f *confidenceFilter) IsEnabled() bool { return true }

func (f *confidenceFilter) Validate(cfg *Config) error {
	f.minimum = 0
	if cfg != nil {
		f.minimum = cfg.MinimumConfidence
	}
	if f.minimum < 0 || f.minimum > 100 {
		return fmt.Errorf("minimum confidence must be within [0,100], got %d", f.minimum)
	}
	return nil
}

func (f *confidenceFilter) Apply(_ context.Context, deps Deps, c *candidate.Candidates) (*candidate.Candidates, Step, error) {
	initial := c.Len()
	dropped := c.Retain(func(r *candidate.Record) bool { return r.Confidence >= f.minimum })
	logDropped(deps, "excluding candidates below minimum confidence", dropped, c.Len(),
		zap.Int("minimum_confidence", f.minimum),
	)

	return c, Step{Initial: initial, Dropped: len(dropped), Left: c.Len()}, nil
}

func (f *confidenceFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: true,
		Details: map[string]string{"minimum_confidence": strconv.Itoa(f.minimum)},
	}
}

type domainFilter struct {
	disabled bool
	reason   string
	domain   string
}

// NewDomain creates a filter that keeps candidates whose domain contains the
// configured text, ignoring case.
func NewDomain() Filter {
	return &domainFilter{}
}

func (f *domainFilter) Name() string { return "domain" }

func (f *domainFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *domainFilter) IsEnabled() bool { return !f.disabled }

func (f *domainFilter) Validate(cfg *Config) error {
	f.domain = ""
	if cfg != nil {
		f.domain = strings.TrimSpace(cfg.Domain)
	}
	if f.domain == "" {
		return fmt.Errorf("domain is required when domain filter is enabled")
	}
	return nil
}

func (f *domainFilter) Apply(_ context.Context, deps Deps, c *candidate.Candidates) (*candidate.Candidates, Step, error) {
	initial := c.Len()
	needle := strings.ToLower(f.domain)
	dropped := c.Retain(func(r *candidate.Record) bool {
		return strings.Contains(strings.ToLower(r.Domain), needle)
	})
	logDropped(deps, "excluding candidates by domain", dropped, c.Len(),
		zap.String("domain", f.domain),
	)

	return c, Step{Initial: initial, Dropped: len(dropped), Left: c.Len()}, nil
}

func (f *domainFilter) Status() Status {
	details := map[string]string{}
	if f.domain != "" {
		details["domain"] = f.domain
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}

type phoneFilter struct{}

// NewPhone creates a filter that removes candidates without a dialable number.
// A missing phone is looked up once more in the stored preview.
func NewPhone() Filter {
	return &phoneFilter{}
}

func (f *phoneFilter) Name() string { return "phone" }

func (f *phoneFilter) Disable(string) {}

func (f *phoneFilter) IsEnabled() bool { return true }

func (f *phoneFilter) Validate(*Config) error { return nil }

func (f *phoneFilter) Apply(_ context.Context, deps Deps, c *candidate.Candidates) (*candidate.Candidates, Step, error) {
	phones := deps.Phones
	if phones == nil {
		phones = phone.NewExtractor()
	}

	initial := c.Len()
	dropped := c.Retain(func(r *candidate.Record) bool {
		if r.Phone != "" {
			return true
		}
		number, ok := phones.Find(r.Preview)
		if ok {
			r.Phone = number
		}
		return ok
	})
	logDropped(deps, "excluding candidates without phone number", dropped, c.Len())

	return c, Step{Initial: initial, Dropped: len(dropped), Left: c.Len()}, nil
}

func (f *phoneFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: true}
}

type contactLogFilter struct {
	path string
}

// NewContactLog creates a filter that removes candidates already contacted.
func NewContactLog() Filter {
	return &contactLogFilter{}
}

func (f *contactLogFilter) Name() string { return "contact_log" }

func (f *contactLogFilter) Disable(string) {}

func (f *contactLogFilter) IsEnabled() bool { return true }

func (f *contactLogFilter) Validate(cfg *Config) error {
	f.path = ""
	if cfg != nil {
		f.path = strings.TrimSpace(cfg.ContactLogFile)
	}
	return nil
}

func (f *contactLogFilter) Apply(_ context.Context, deps Deps, c *candidate.Candidates) (*candidate.Candidates, Step, error) {
	initial := c.Len()
	if f.path == "" {
		return c, Step{Initial: initial, Dropped: 0, Left: c.Len()}, nil
	}

	contacted, err := candidate.GetContactLogFromFile(f.path)
	if err != nil {
		return c, Step{}, fmt.Errorf("getting contacted candidates from file: %w", err)
	}

	removed := c.Exclude(contacted.Emails())
	logDropped(deps, "excluding candidates based on contact log", removed, c.Len(),
		zap.String("path", f.path),
	)

	return c, Step{Initial: initial, Dropped: len(removed), Left: c.Len()}, nil
}

func (f *contactLogFilter) Status() Status {
	details := map[string]string{}
	if f.path != "" {
		details["path"] = f.path
	}
	return Status{Name: f.Name(), Enabled: true, Details: details}
}
