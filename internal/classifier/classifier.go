package classifier

import (
	"math"
	"strings"

	"github.com/spigell/cv-sorter/internal/candidate"
	"github.com/spigell/cv-sorter/internal/profile"
)

const (
	// ScoreCeiling is the raw score that maps to 100% confidence.
	ScoreCeiling = 500
	// MinConfidence is the lowest confidence accepted as a real detection.
	MinConfidence = 15
	// FrequencyCap bounds how many occurrences of a phrase are rewarded.
	FrequencyCap = 3
)

// Result is the outcome of classifying a single text.
type Result struct {
	Domain     string
	Confidence int
	Keywords   []string
	// Scores holds the breakdown of every configured domain in table order.
	Scores []DomainScore
}

// DomainScore is the score of one domain and the phrases that produced it.
type DomainScore struct {
	Domain  string
	Score   int
	Matches []KeywordMatch
}

// KeywordMatch is a phrase found in the text and its score contribution.
type KeywordMatch struct {
	Keyword  string
	Category string
	Count    int
	Score    int
}

// Keywords returns the matched phrases in profile order.
func (d DomainScore) Keywords() []string {
	out := make([]string, 0, len(d.Matches))
	for _, m := range d.Matches {
		out = append(out, m.Keyword)
	}
	return out
}

// Classifier scores texts against a profile table. It holds no mutable state.
type Classifier struct {
	table *profile.Table
}

func New(table *profile.Table) *Classifier {
	if table == nil {
		table = profile.Default()
	}
	return &Classifier{table: table}
}

// Classify returns the best domain for text, its confidence and the keywords
// of that domain found in text.
func (c *Classifier) Classify(text string) Result {
	unknown := Result{Domain: candidate.DomainUnknown, Keywords: []string{}}
	if strings.TrimSpace(text) == "" {
		return unknown
	}

	lower := strings.ToLower(text)
	domains := c.table.Domains()
	scores := make([]DomainScore, 0, len(domains))
	best := -1
	for _, d := range domains {
		ds := c.scoreDomain(lower, d)
		scores = append(scores, ds)
		if best < 0 || ds.Score > scores[best].Score {
			best = len(scores) - 1
		}
	}
	unknown.Scores = scores

	if best < 0 || scores[best].Score == 0 {
		return unknown
	}

	confidence := Confidence(scores[best].Score)
	if confidence < MinConfidence {
		unknown.Confidence = confidence
		return unknown
	}

	return Result{
		Domain:     scores[best].Domain,
		Confidence: confidence,
		Keywords:   scores[best].Keywords(),
		Scores:     scores,
	}
}

// Confidence maps a raw score onto 0..100.
func Confidence(score int) int {
	if score <= 0 {
		return 0
	}
	confidence := int(math.Round(float64(score) / ScoreCeiling * 100))
	return min(confidence, 100)
}

func (c *Classifier) scoreDomain(lowerText string, d profile.Domain) DomainScore {
	ds := DomainScore{Domain: d.Name}
	for _, category := range profile.Categories {
		weight := c.table.Weight(category)
		for _, keyword := range d.Keywords(category) {
			count := strings.Count(lowerText, strings.ToLower(keyword))
			if count == 0 {
				continue
			}
			score := weight * KeywordScore(keyword, count)
			ds.Score += score
			ds.Matches = append(ds.Matches, KeywordMatch{
				Keyword:  keyword,
				Category: category,
				Count:    count,
				Score:    score,
			})
		}
	}
	return ds
}

// KeywordScore is the unweighted score of a phrase seen count times.
// Longer phrases weigh more and repetitions saturate at FrequencyCap.
func KeywordScore(keyword string, count int) int {
	if count <= 0 {
		return 0
	}
	return min(count, FrequencyCap) * len(strings.Fields(keyword)) * 2
}
