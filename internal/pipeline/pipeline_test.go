package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/cv-sorter/internal/candidate"
	"github.com/spigell/cv-sorter/internal/logger"
	"github.com/spigell/cv-sorter/internal/resumes"
)

const (
	mernText = "Experienced MERN stack engineer and react developer. Built spa development projects " +
		"with mongodb, express, react and nodejs. Phone: 0300-1234567"
	unknownText = "Lorem ipsum dolor sit amet, consectetur adipiscing elit, sed do eiusmod tempor."
)

// memoryTable keeps a snapshot of every save.
type memoryTable struct {
	saves []*candidate.Candidates
	err   error
}

func (m *memoryTable) Load() (*candidate.Candidates, error) {
	if len(m.saves) == 0 {
		return &candidate.Candidates{}, nil
	}
	return m.saves[len(m.saves)-1].Clone(), nil
}

func (m *memoryTable) Save(c *candidate.Candidates) error {
	if m.err != nil {
		return m.err
	}
	m.saves = append(m.saves, c.Clone())
	return nil
}

// textByFile returns canned text keyed by file name.
type textByFile struct {
	texts  map[string]string
	onRead func(name string)
}

func (t *textByFile) Extract(path string) string {
	name := filepath.Base(path)
	if t.onRead != nil {
		t.onRead(name)
	}
	return t.texts[name]
}

func writeFiles(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	return dir
}

func newPipeline(t *testing.T, dir string, table *memoryTable, texts *textByFile, log *zap.Logger) *Pipeline {
	t.Helper()
	p, err := New(Config{}, Deps{
		Table:     table,
		Resolver:  resumes.NewMatcher(resumes.NewDirectory(dir), log),
		Extractor: texts,
		Logger:    log,
	})
	require.NoError(t, err)
	return p
}

func numbered(n int) (*candidate.Candidates, []string, map[string]string) {
	c := &candidate.Candidates{}
	files := make([]string, 0, n)
	texts := make(map[string]string, n)
	for i := 1; i <= n; i++ {
		file := fmt.Sprintf("candidate_%02d_cv.pdf", i)
		files = append(files, file)
		texts[file] = mernText
		c.Items = append(c.Items, &candidate.Record{
			Name:  fmt.Sprintf("Candidate %02d", i),
			Email: fmt.Sprintf("c%02d@mail.com", i),
		})
	}
	return c, files, texts
}

func TestNewRequiresCollaborators(t *testing.T) {
	_, err := New(Config{}, Deps{})
	require.Error(t, err)

	_, err = New(Config{}, Deps{Table: &memoryTable{}})
	require.Error(t, err)

	_, err = New(Config{}, Deps{Table: &memoryTable{}, Resolver: resumes.NewMatcher(resumes.NewDirectory(t.TempDir()), nil)})
	require.Error(t, err)
}

func TestNewDefaults(t *testing.T) {
	p, err := New(Config{}, Deps{
		Table:     &memoryTable{},
		Resolver:  resumes.NewMatcher(resumes.NewDirectory(t.TempDir()), nil),
		Extractor: &textByFile{},
	})
	require.NoError(t, err)

	assert.Equal(t, DefaultBatchSize, p.cfg.BatchSize)
	assert.Equal(t, DefaultMinTextLength, p.cfg.MinTextLength)
	assert.Equal(t, DefaultPreviewLength, p.cfg.PreviewLength)
	assert.NotNil(t, p.deps.Classifier)
	assert.NotNil(t, p.deps.Phones)
	assert.NotNil(t, p.deps.Logger)
}

func TestProcessClassified(t *testing.T) {
	dir := writeFiles(t, "jane_doe_cv.pdf")
	p := newPipeline(t, dir, &memoryTable{}, &textByFile{texts: map[string]string{"jane_doe_cv.pdf": mernText}}, nil)

	r := &candidate.Record{Name: "Jane Doe", Email: "jane@mail.com"}
	res := p.Process(r)

	assert.Equal(t, OutcomeClassified, res.Outcome)
	assert.Equal(t, "jane_doe_cv.pdf", res.File)
	assert.Equal(t, "MERN Stack", r.Domain)
	assert.GreaterOrEqual(t, r.Confidence, 15)
	assert.Contains(t, r.Keywords, "react developer")
	assert.Contains(t, r.Keywords, "mongodb")
	assert.Equal(t, mernText, r.Preview)
	assert.Equal(t, "923001234567", r.Phone)
	assert.Equal(t, r.Phone, res.Phone)
}

func TestProcessFileNotFound(t *testing.T) {
	dir := writeFiles(t, "someone_else.pdf")
	p := newPipeline(t, dir, &memoryTable{}, &textByFile{}, nil)

	r := &candidate.Record{
		Name:       "Jane Doe",
		Email:      "jd@mail.com",
		Domain:     "MERN Stack",
		Confidence: 70,
		Keywords:   []string{"react"},
		Preview:    "old preview",
		Phone:      "923001234567",
	}
	res := p.Process(r)

	assert.Equal(t, OutcomeFileNotFound, res.Outcome)
	assert.Equal(t, candidate.DomainFileNotFound, r.Domain)
	assert.Zero(t, r.Confidence)
	assert.Empty(t, r.Keywords)
	assert.Empty(t, r.Preview)
	assert.Empty(t, r.Phone)
}

func TestProcessShortText(t *testing.T) {
	dir := writeFiles(t, "jane_doe.docx")
	p := newPipeline(t, dir, &memoryTable{}, &textByFile{texts: map[string]string{"jane_doe.docx": "  React developer  "}}, nil)

	r := &candidate.Record{Name: "Jane Doe", Email: "jd@mail.com"}
	res := p.Process(r)

	assert.Equal(t, OutcomeExtractionFailed, res.Outcome)
	assert.Equal(t, candidate.DomainTextExtractionFailed, r.Domain)
	assert.Zero(t, r.Confidence)
	assert.Empty(t, r.Keywords)
	assert.Equal(t, ExtractionFailedPreview, r.Preview)
}

func TestProcessUnknown(t *testing.T) {
	dir := writeFiles(t, "jane_doe.pdf")
	p := newPipeline(t, dir, &memoryTable{}, &textByFile{texts: map[string]string{"jane_doe.pdf": unknownText}}, nil)

	r := &candidate.Record{Name: "Jane Doe", Email: "jd@mail.com"}
	res := p.Process(r)

	assert.Equal(t, OutcomeClassified, res.Outcome)
	assert.Equal(t, candidate.DomainUnknown, r.Domain)
	assert.Zero(t, r.Confidence)
	assert.Empty(t, r.Keywords)
	assert.Equal(t, unknownText, r.Preview)
	assert.Empty(t, r.Phone)
}

func TestProcessPreviewLimit(t *testing.T) {
	dir := writeFiles(t, "jane_doe.pdf")
	table := &memoryTable{}
	p, err := New(Config{PreviewLength: 20}, Deps{
		Table:     table,
		Resolver:  resumes.NewMatcher(resumes.NewDirectory(dir), nil),
		Extractor: &textByFile{texts: map[string]string{"jane_doe.pdf": mernText}},
	})
	require.NoError(t, err)

	r := &candidate.Record{Name: "Jane Doe", Email: "jd@mail.com"}
	p.Process(r)

	assert.Equal(t, "Experienced MERN sta", r.Preview)
	// The phone sits beyond the preview.
	assert.Empty(t, r.Phone)
	assert.Equal(t, "MERN Stack", r.Domain)
}

func TestRunCheckpoints(t *testing.T) {
	c, files, texts := numbered(12)
	dir := writeFiles(t, files...)
	table := &memoryTable{}
	p := newPipeline(t, dir, table, &textByFile{texts: texts}, nil)

	report, err := p.Run(context.Background(), c)
	require.NoError(t, err)

	require.Len(t, table.saves, 3)

	first := table.saves[0]
	require.Equal(t, 12, first.Len())
	for i, r := range first.Items {
		if i < 5 {
			assert.Equal(t, "MERN Stack", r.Domain, "record %d", i)
			continue
		}
		assert.Empty(t, r.Domain, "record %d", i)
	}

	second := table.saves[1]
	for i, r := range second.Items {
		if i < 10 {
			assert.Equal(t, "MERN Stack", r.Domain, "record %d", i)
			continue
		}
		assert.Empty(t, r.Domain, "record %d", i)
	}

	final := table.saves[2]
	require.Equal(t, 12, final.Len())
	for i, r := range final.Items {
		assert.Equal(t, "MERN Stack", r.Domain, "record %d", i)
		assert.Equal(t, "923001234567", r.Phone, "record %d", i)
	}

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, 12, report.Total)
	assert.Equal(t, 12, report.Handled)
	assert.Equal(t, 12, report.Classified)
	assert.Equal(t, 12, report.WithPhone)
	assert.Equal(t, 3, report.Checkpoints)
	assert.False(t, report.Interrupted)
	assert.Len(t, report.ByOutcome(OutcomeClassified), 12)
}

func TestRunExactBatchSavesTwice(t *testing.T) {
	c, files, texts := numbered(5)
	dir := writeFiles(t, files...)
	table := &memoryTable{}
	p := newPipeline(t, dir, table, &textByFile{texts: texts}, nil)

	_, err := p.Run(context.Background(), c)
	require.NoError(t, err)

	// One checkpoint at the batch boundary, one at completion.
	assert.Len(t, table.saves, 2)
}

func TestRunMixedOutcomes(t *testing.T) {
	dir := writeFiles(t, "alice_smith.pdf", "bob_jones.docx", "carol_white.pdf")
	texts := &textByFile{texts: map[string]string{
		"alice_smith.pdf": mernText,
		"bob_jones.docx":  "",
		"carol_white.pdf": unknownText,
	}}
	table := &memoryTable{}
	p := newPipeline(t, dir, table, texts, nil)

	c := &candidate.Candidates{Items: []*candidate.Record{
		{Name: "Alice Smith", Email: "alice@mail.com"},
		{Name: "Bob Jones", Email: "bob@mail.com"},
		{Name: "Carol White", Email: "carol@mail.com"},
		{Name: "Dan", Email: "dan@mail.com"},
	}}

	report, err := p.Run(context.Background(), c)
	require.NoError(t, err)

	assert.Equal(t, 4, report.Handled)
	assert.Equal(t, 1, report.Classified)
	assert.Equal(t, 1, report.Unknown)
	assert.Equal(t, 1, report.ExtractionFailed)
	assert.Equal(t, 1, report.Unresolved)
	assert.Equal(t, 1, report.WithPhone)
	assert.Equal(t, 1, report.Checkpoints)

	require.Len(t, table.saves, 1)
	domains := make([]string, 0, 4)
	for _, r := range table.saves[0].Items {
		domains = append(domains, r.Domain)
	}
	assert.Equal(t, []string{
		"MERN Stack",
		candidate.DomainTextExtractionFailed,
		candidate.DomainUnknown,
		candidate.DomainFileNotFound,
	}, domains)

	notFound := report.ByOutcome(OutcomeFileNotFound)
	require.Len(t, notFound, 1)
	assert.Equal(t, "dan@mail.com", notFound[0].Email)
}

func TestRunCancelled(t *testing.T) {
	c, files, texts := numbered(12)
	dir := writeFiles(t, files...)
	table := &memoryTable{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	extractor := &textByFile{texts: texts, onRead: func(name string) {
		if name == "candidate_03_cv.pdf" {
			cancel()
		}
	}}
	p := newPipeline(t, dir, table, extractor, nil)

	report, err := p.Run(ctx, c)
	require.NoError(t, err)

	assert.True(t, report.Interrupted)
	assert.Equal(t, 3, report.Handled)
	require.Len(t, table.saves, 1)

	for i, r := range table.saves[0].Items {
		if i < 3 {
			assert.Equal(t, "MERN Stack", r.Domain, "record %d", i)
			continue
		}
		assert.Empty(t, r.Domain, "record %d", i)
	}
}

func TestRunSaveError(t *testing.T) {
	c, files, texts := numbered(2)
	dir := writeFiles(t, files...)
	failure := errors.New("disk full")
	p := newPipeline(t, dir, &memoryTable{err: failure}, &textByFile{texts: texts}, nil)

	report, err := p.Run(context.Background(), c)
	require.Error(t, err)
	assert.ErrorIs(t, err, failure)
	assert.Equal(t, 2, report.Handled)
	assert.Zero(t, report.Checkpoints)
}

func TestRunLogsRunID(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	c, files, texts := numbered(1)
	dir := writeFiles(t, files...)
	p := newPipeline(t, dir, &memoryTable{}, &textByFile{texts: texts}, zap.New(core))

	report, err := p.Run(context.Background(), c)
	require.NoError(t, err)

	finished := observed.FilterMessage("classification finished").All()
	require.Len(t, finished, 1)
	assert.Equal(t, report.RunID, finished[0].ContextMap()[logger.FieldRunID])

	classified := observed.FilterMessage("candidate classified").All()
	require.Len(t, classified, 1)
	ctx := classified[0].ContextMap()
	assert.Equal(t, "Candidate 01", ctx[logger.FieldCandidate])
	assert.Equal(t, "MERN Stack", ctx["domain"])
}
