package textextract

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// Format is a supported résumé document format.
type Format string

const (
	PDF  Format = "PDF"
	DOCX Format = "DOCX"
)

// ErrUnsupportedFormat is returned for files whose extension has no reader.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Extensions maps the recognized file extensions to their format.
// Legacy .doc files go through the DOCX reader and fail there unless they
// are OOXML packages with the old extension.
var Extensions = map[string]Format{
	"pdf":  PDF,
	"docx": DOCX,
	"doc":  DOCX,
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// FormatOf returns the format of the file at path.
func FormatOf(path string) (Format, bool) {
	f, ok := Extensions[NormalizeExt(filepath.Ext(path))]
	return f, ok
}

// Reader returns the raw text of a document. Pages and paragraphs are
// separated by line breaks, table rows end with a line break.
type Reader interface {
	Read(path string) (string, error)
}

// ReaderFunc adapts a function to Reader.
type ReaderFunc func(path string) (string, error)

func (f ReaderFunc) Read(path string) (string, error) { return f(path) }

// Extractor turns résumé files into normalized plain text.
type Extractor struct {
	readers map[Format]Reader
	logger  *zap.Logger
}

// Option customizes an Extractor.
type Option func(*Extractor)

// WithReader replaces the reader used for a format.
func WithReader(format Format, r Reader) Option {
	return func(e *Extractor) {
		e.readers[format] = r
	}
}

func New(logger *zap.Logger, opts ...Option) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Extractor{
		readers: map[Format]Reader{
			PDF:  ReaderFunc(readPDF),
			DOCX: ReaderFunc(readDOCX),
		},
		logger: logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns the normalized text of the file at path. Any failure,
// including a panic inside a document decoder, is logged and yields "".
func (e *Extractor) Extract(path string) string {
	text, err := e.ExtractText(path)
	if err != nil {
		if errors.Is(err, ErrUnsupportedFormat) {
			e.logger.Warn("skipping résumé", zap.String("path", path), zap.Error(err))
		} else {
			e.logger.Error("reading résumé failed", zap.String("path", path), zap.Error(err))
		}
		return ""
	}
	return text
}

// ExtractText is Extract with the failure reported to the caller.
func (e *Extractor) ExtractText(path string) (text string, err error) {
	format, ok := FormatOf(path)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}

	reader, ok := e.readers[format]
	if !ok {
		return "", fmt.Errorf("%w: no reader for %s", ErrUnsupportedFormat, format)
	}

	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("decoding %s: panic: %v", format, r)
		}
	}()

	raw, err := reader.Read(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", format, err)
	}

	text = Normalize(raw)
	e.logger.Debug("extracted résumé text",
		zap.String("path", path),
		zap.String("format", string(format)),
		zap.Int("length", len(text)),
	)
	return text, nil
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// Normalize collapses every whitespace run, line breaks included, into a
// single space and trims the result.
func Normalize(text string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}
