package resumes

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

// ErrNoMatch is returned when no file can be attributed to a candidate.
var ErrNoMatch = errors.New("no résumé file matches the candidate")

// Rule names the matching rule that selected a file.
type Rule string

const (
	RuleName        Rule = "name"
	RuleEmailPrefix Rule = "email_prefix"
	RuleNameWords   Rule = "name_words"
)

const (
	minEmailPrefix = 4
	minNameWord    = 3
)

var (
	nameCleanRe      = regexp.MustCompile(`[^\p{L}\p{N}\s-]`)
	filenameSpacesRe = regexp.MustCompile(`[_.\-]+`)
)

// Match is a file attributed to a candidate.
type Match struct {
	Name string
	Path string
	Rule Rule
}

// Matcher attributes résumé files to candidates. Filenames are free text, so
// matching is best effort: the full name wins over the email prefix, which
// wins over a partial overlap of name words.
type Matcher struct {
	dir    *Directory
	logger *zap.Logger
}

func NewMatcher(dir *Directory, logger *zap.Logger) *Matcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Matcher{dir: dir, logger: logger}
}

// Find returns the résumé of the candidate or ErrNoMatch.
func (m *Matcher) Find(name, email string) (*Match, error) {
	files, err := m.dir.List()
	if err != nil {
		return nil, err
	}

	filename, rule, ok := MatchFile(files, name, email)
	if !ok {
		return nil, ErrNoMatch
	}

	m.logger.Debug("résumé matched",
		zap.String("file", filename),
		zap.String("rule", string(rule)),
	)

	return &Match{Name: filename, Path: m.dir.Join(filename), Rule: rule}, nil
}

// MatchFile picks the file of a candidate among filenames.
func MatchFile(filenames []string, name, email string) (string, Rule, bool) {
	cleanName := CleanName(name)
	prefix := EmailPrefix(email)

	for _, filename := range filenames {
		lower := strings.ToLower(filename)

		if cleanName != "" && (strings.Contains(lower, cleanName) || strings.Contains(spaced(lower), cleanName)) {
			return filename, RuleName, true
		}

		if utf8.RuneCountInString(prefix) >= minEmailPrefix && strings.Contains(lower, prefix) {
			return filename, RuleEmailPrefix, true
		}
	}

	words := strings.Fields(cleanName)
	for _, filename := range filenames {
		lower := strings.ToLower(filename)

		matches := 0
		for _, w := range words {
			if utf8.RuneCountInString(w) >= minNameWord && strings.Contains(lower, w) {
				matches++
			}
		}

		if matches > 0 && matches >= len(words)/2 {
			return filename, RuleNameWords, true
		}
	}

	return "", "", false
}

// CleanName keeps letters, digits, whitespace and hyphens, lowercased.
func CleanName(name string) string {
	return strings.ToLower(strings.TrimSpace(nameCleanRe.ReplaceAllString(name, "")))
}

// EmailPrefix returns the lowercased local part of an address.
func EmailPrefix(email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return ""
	}
	local, _, _ := strings.Cut(email, "@")
	return strings.ToLower(local)
}

func spaced(filename string) string {
	return filenameSpacesRe.ReplaceAllString(filename, " ")
}
