package profile

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Keyword categories in scoring order.
const (
	CategoryPrimary    = "primary"
	CategoryTools      = "tools"
	CategorySkills     = "skills"
	CategoryExperience = "experience"
)

// DefaultCategoryWeight applies to a category missing from the weight table.
const DefaultCategoryWeight = 5

// Categories lists the keyword categories in the order they are scored.
var Categories = []string{CategoryPrimary, CategoryTools, CategorySkills, CategoryExperience}

// Weights maps a category name to its multiplier.
type Weights map[string]int

// Of returns the weight of the category, falling back to DefaultCategoryWeight.
func (w Weights) Of(category string) int {
	if weight, ok := w[category]; ok {
		return weight
	}
	return DefaultCategoryWeight
}

// Domain is a single professional field and its keyword phrases by category.
type Domain struct {
	Name       string   `mapstructure:"name"`
	Primary    []string `mapstructure:"primary"`
	Tools      []string `mapstructure:"tools"`
	Skills     []string `mapstructure:"skills"`
	Experience []string `mapstructure:"experience"`
}

// Keywords returns the phrases of a category.
func (d Domain) Keywords(category string) []string {
	switch category {
	case CategoryPrimary:
		return d.Primary
	case CategoryTools:
		return d.Tools
	case CategorySkills:
		return d.Skills
	case CategoryExperience:
		return d.Experience
	default:
		return nil
	}
}

// Table is the immutable set of domains used by the classifier.
// Domain order is the tie-break order: the earlier domain wins an equal score.
type Table struct {
	domains []Domain
	weights Weights
}

// New builds a table from the given domains and weights. Inputs are copied.
func New(domains []Domain, weights Weights) (*Table, error) {
	if len(domains) == 0 {
		return nil, errors.New("at least one domain is required")
	}

	seen := make(map[string]struct{}, len(domains))
	copied := make([]Domain, 0, len(domains))
	for _, d := range domains {
		name := strings.TrimSpace(d.Name)
		if name == "" {
			return nil, errors.New("domain name is required")
		}
		if _, ok := seen[name]; ok {
			return nil, fmt.Errorf("duplicate domain %q", name)
		}
		seen[name] = struct{}{}

		copied = append(copied, Domain{
			Name:       name,
			Primary:    cloneKeywords(d.Primary),
			Tools:      cloneKeywords(d.Tools),
			Skills:     cloneKeywords(d.Skills),
			Experience: cloneKeywords(d.Experience),
		})
	}

	w := make(Weights, len(weights))
	for k, v := range weights {
		w[strings.ToLower(strings.TrimSpace(k))] = v
	}

	return &Table{domains: copied, weights: w}, nil
}

// Default returns the built-in domain table.
func Default() *Table {
	t, err := New(defaultDomains, DefaultWeights())
	if err != nil {
		panic(err)
	}
	return t
}

// DefaultWeights returns a fresh copy of the built-in category weights.
func DefaultWeights() Weights {
	return Weights{
		CategoryPrimary:    15,
		CategoryTools:      8,
		CategorySkills:     10,
		CategoryExperience: 12,
	}
}

// Domains returns a copy of the domains in tie-break order.
func (t *Table) Domains() []Domain {
	out := make([]Domain, len(t.domains))
	copy(out, t.domains)
	return out
}

// Names returns the domain names in tie-break order.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.domains))
	for _, d := range t.domains {
		names = append(names, d.Name)
	}
	return names
}

// Has reports whether name is a configured domain.
func (t *Table) Has(name string) bool {
	for _, d := range t.domains {
		if d.Name == name {
			return true
		}
	}
	return false
}

// Weight returns the multiplier of a category.
func (t *Table) Weight(category string) int {
	return t.weights.Of(category)
}

// Overrides is the configuration form of a table.
type Overrides struct {
	Domains []map[string]any
	Weights map[string]int
}

// FromOverrides builds a table from loosely typed configuration, falling back
// to the defaults for whatever is left empty.
func FromOverrides(o Overrides) (*Table, error) {
	domains := defaultDomains
	if len(o.Domains) > 0 {
		domains = make([]Domain, 0, len(o.Domains))
		for i, raw := range o.Domains {
			var d Domain
			if err := mapstructure.Decode(raw, &d); err != nil {
				return nil, fmt.Errorf("decoding profile %d: %w", i, err)
			}
			domains = append(domains, d)
		}
	}

	weights := DefaultWeights()
	for k, v := range o.Weights {
		weights[strings.ToLower(strings.TrimSpace(k))] = v
	}

	return New(domains, weights)
}

func cloneKeywords(in []string) []string {
	out := make([]string, 0, len(in))
	for _, k := range in {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		out = append(out, k)
	}
	return out
}
