package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/spigell/cv-sorter/internal/candidate"
)

// Columns is the persisted column order.
var Columns = []string{
	"name",
	"email",
	"subject",
	"date",
	"domain",
	"confidence",
	"keywords_found",
	"cv_text_preview",
	"phone",
}

// Table loads and saves the whole candidate table at once.
type Table interface {
	Load() (*candidate.Candidates, error)
	Save(c *candidate.Candidates) error
}

// CSVTable stores candidates in a CSV file with a header row.
type CSVTable struct {
	Path string
}

func NewCSVTable(path string) *CSVTable {
	return &CSVTable{Path: path}
}

// Load reads every row. Unknown columns are ignored and missing ones stay empty.
func (t *CSVTable) Load() (*candidate.Candidates, error) {
	f, err := os.Open(t.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReadCSV(f)
}

// Save rewrites the table. The file is replaced atomically so a crash keeps
// the previous checkpoint intact.
func (t *CSVTable) Save(c *candidate.Candidates) error {
	dir := filepath.Dir(t.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(t.Path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := WriteCSV(tmp, c); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), t.Path)
}

// ReadCSV decodes a candidate table.
func ReadCSV(r io.Reader) (*candidate.Candidates, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &candidate.Candidates{}, nil
		}
		return nil, fmt.Errorf("reading header: %w", err)
	}
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff")))
	}

	c := &candidate.Candidates{}
	for line := 2; ; line++ {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", line, err)
		}

		row := make(map[string]any, len(header))
		for i, col := range header {
			if i < len(fields) {
				row[col] = strings.TrimSpace(fields[i])
			}
		}

		record, err := decodeRecord(row)
		if err != nil {
			return nil, fmt.Errorf("decoding row %d: %w", line, err)
		}
		c.Items = append(c.Items, record)
	}

	return c, nil
}

// WriteCSV encodes a candidate table with a header row.
func WriteCSV(w io.Writer, c *candidate.Candidates) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Columns); err != nil {
		return err
	}
	for _, r := range c.Items {
		if err := writer.Write(Row(r)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// Row returns the persisted fields of a record in Columns order.
func Row(r *candidate.Record) []string {
	return []string{
		r.Name,
		r.Email,
		r.Subject,
		r.Date,
		r.Domain,
		strconv.Itoa(r.Confidence),
		r.KeywordsString(),
		r.Preview,
		r.Phone,
	}
}

func decodeRecord(row map[string]any) (*candidate.Record, error) {
	var record candidate.Record
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       keywordsHook,
		WeaklyTypedInput: true,
		Result:           &record,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(row); err != nil {
		return nil, err
	}
	return &record, nil
}

// keywordsHook splits the persisted keyword string and tolerates blank or
// fractional confidence cells written by other tools.
func keywordsHook(from, to reflect.Type, data any) (any, error) {
	s, ok := data.(string)
	if !ok || from.Kind() != reflect.String {
		return data, nil
	}

	switch to.Kind() {
	case reflect.Slice:
		return candidate.ParseKeywords(s), nil
	case reflect.Int:
		if s == "" {
			return 0, nil
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int(f), nil
		}
	}
	return data, nil
}
