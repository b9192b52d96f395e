package classifier

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/cv-sorter/internal/candidate"
	"github.com/spigell/cv-sorter/internal/profile"
)

func domainScore(t *testing.T, res Result, domain string) DomainScore {
	t.Helper()
	for _, s := range res.Scores {
		if s.Domain == domain {
			return s
		}
	}
	t.Fatalf("domain %q not scored", domain)
	return DomainScore{}
}

func TestClassifyEmptyText(t *testing.T) {
	c := New(nil)
	for _, text := range []string{"", "   \n\t"} {
		res := c.Classify(text)
		assert.Equal(t, candidate.DomainUnknown, res.Domain)
		assert.Equal(t, 0, res.Confidence)
		assert.Empty(t, res.Keywords)
	}
}

func TestClassifyNoKeywords(t *testing.T) {
	res := New(nil).Classify("zzz qqq vvv")
	assert.Equal(t, candidate.DomainUnknown, res.Domain)
	assert.Equal(t, 0, res.Confidence)
	assert.Empty(t, res.Keywords)
}

func TestClassifyMERNScenario(t *testing.T) {
	table, err := profile.New([]profile.Domain{
		{Name: "Web Development", Primary: []string{"web developer"}},
		{Name: "MERN Stack", Primary: []string{"react developer"}, Tools: []string{"mongodb"}},
	}, profile.Weights{profile.CategoryPrimary: 15, profile.CategoryTools: 8})
	require.NoError(t, err)

	text := "Experienced React Developer. Stores: MongoDB primary, mongodb replica."
	res := New(table).Classify(text)

	assert.Equal(t, "MERN Stack", res.Domain)
	assert.Equal(t, 18, res.Confidence)
	assert.Equal(t, []string{"react developer", "mongodb"}, res.Keywords)
	assert.Equal(t, 92, domainScore(t, res, "MERN Stack").Score)
	assert.Equal(t, 0, domainScore(t, res, "Web Development").Score)
}

func TestClassifyDefaultTableContributions(t *testing.T) {
	text := "Senior react developer working with mongodb and more mongodb clusters."
	res := New(profile.Default()).Classify(text)

	mern := domainScore(t, res, "MERN Stack")
	contributions := map[string]int{}
	for _, m := range mern.Matches {
		contributions[m.Keyword] = m.Score
	}
	assert.Equal(t, 60, contributions["react developer"])
	assert.Equal(t, 32, contributions["mongodb"])
	assert.Equal(t, "MERN Stack", res.Domain)
}

func TestClassifyFrequencyCap(t *testing.T) {
	c := New(nil)
	prev := 0
	for n := 1; n <= 6; n++ {
		text := strings.Repeat("mongodb ", n)
		score := domainScore(t, c.Classify(text), "MERN Stack").Score
		assert.GreaterOrEqual(t, score, prev, "score decreased at %d occurrences", n)
		if n > FrequencyCap {
			assert.Equal(t, prev, score, "score changed beyond the cap at %d occurrences", n)
		}
		prev = score
	}
	assert.Equal(t, 8*FrequencyCap*2, prev)
}

func TestClassifyLowConfidence(t *testing.T) {
	res := New(nil).Classify("Knows photoshop.")
	assert.Equal(t, candidate.DomainUnknown, res.Domain)
	assert.Equal(t, 3, res.Confidence)
	assert.Empty(t, res.Keywords)
}

func TestClassifyTieBreaksByTableOrder(t *testing.T) {
	build := func(first, second string) *Classifier {
		table, err := profile.New([]profile.Domain{
			{Name: first, Primary: []string{"alpha"}},
			{Name: second, Primary: []string{"alpha"}},
		}, profile.DefaultWeights())
		require.NoError(t, err)
		return New(table)
	}

	text := "alpha alpha alpha"
	assert.Equal(t, "A", build("A", "B").Classify(text).Domain)
	assert.Equal(t, "B", build("B", "A").Classify(text).Domain)
}

func TestClassifyConfidenceBounds(t *testing.T) {
	table, err := profile.New([]profile.Domain{
		{Name: "Heavy", Primary: []string{"x"}},
	}, profile.Weights{profile.CategoryPrimary: 1000})
	require.NoError(t, err)

	res := New(table).Classify("x x x")
	assert.Equal(t, "Heavy", res.Domain)
	assert.Equal(t, 100, res.Confidence)

	texts := []string{
		"",
		"graphic design photoshop typography branding poster design",
		strings.Repeat("machine learning tensorflow deep learning chatbot ", 50),
		"accounting excel",
	}
	for _, text := range texts {
		conf := New(nil).Classify(text).Confidence
		assert.GreaterOrEqual(t, conf, 0)
		assert.LessOrEqual(t, conf, 100)
	}
}

func TestClassifyIsPure(t *testing.T) {
	c := New(nil)
	text := "UI design in Figma, wireframing, prototyping and user research for mobile app design."
	first := c.Classify(text)
	second := c.Classify(text)
	assert.Equal(t, first, second)
	assert.Equal(t, "UI/UX Design", first.Domain)
	assert.NotEmpty(t, first.Keywords)
}

func TestKeywordScore(t *testing.T) {
	assert.Equal(t, 0, KeywordScore("react", 0))
	assert.Equal(t, 2, KeywordScore("react", 1))
	assert.Equal(t, 12, KeywordScore("adobe creative suite", 2))
	assert.Equal(t, 6, KeywordScore("react", 10))
}

func TestConfidence(t *testing.T) {
	assert.Equal(t, 0, Confidence(0))
	assert.Equal(t, 18, Confidence(92))
	assert.Equal(t, 15, Confidence(73))
	assert.Equal(t, 100, Confidence(5000))
}
