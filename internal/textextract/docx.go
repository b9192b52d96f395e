package textextract

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const docxMainPart = "word/document.xml"

type docxDocument struct {
	Body docxBody `xml:"body"`
}

// docxBody holds the block-level paragraphs and tables in document order,
// including those wrapped in structured document tags (content controls).
type docxBody struct {
	Paragraphs []docxParagraph
	Tables     []docxTable
}

func (b *docxBody) UnmarshalXML(d *xml.Decoder, _ xml.StartElement) error {
	depth := 0
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}

		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "p":
				var p docxParagraph
				if err := d.DecodeElement(&p, &el); err != nil {
					return err
				}
				b.Paragraphs = append(b.Paragraphs, p)
			case "tbl":
				var t docxTable
				if err := d.DecodeElement(&t, &el); err != nil {
					return err
				}
				b.Tables = append(b.Tables, t)
			case "sdt", "sdtContent":
				depth++
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			if depth == 0 {
				return nil
			}
			depth--
		}
	}
}

type docxTable struct {
	Rows []docxRow `xml:"tr"`
}

type docxRow struct {
	Cells []docxCell `xml:"tc"`
}

type docxCell struct {
	Paragraphs []docxParagraph `xml:"p"`
}

func (c docxCell) text() string {
	parts := make([]string, 0, len(c.Paragraphs))
	for _, p := range c.Paragraphs {
		parts = append(parts, p.Text)
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}

// docxParagraph collects run text in document order, including text nested
// in hyperlinks, smart tags and text boxes.
type docxParagraph struct {
	Text string
}

func (p *docxParagraph) UnmarshalXML(d *xml.Decoder, _ xml.StartElement) error {
	var b strings.Builder
	depth := 0
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}

		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "t":
				var s string
				if err := d.DecodeElement(&s, &el); err != nil {
					return err
				}
				b.WriteString(s)
				continue
			case "tab":
				b.WriteString("\t")
			case "br", "cr":
				b.WriteString("\n")
			}
			depth++
		case xml.EndElement:
			if depth == 0 {
				p.Text = b.String()
				return nil
			}
			depth--
		}
	}
}

// readDOCX returns the body paragraphs followed by every table, one row per line.
func readDOCX(path string) (string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("opening package: %w", err)
	}
	defer zr.Close()

	var part *zip.File
	for _, f := range zr.File {
		if f.Name == docxMainPart {
			part = f
			break
		}
	}
	if part == nil {
		return "", errors.New("package has no " + docxMainPart)
	}

	rc, err := part.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	return parseDOCX(rc)
}

func parseDOCX(r io.Reader) (string, error) {
	var doc docxDocument
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return "", fmt.Errorf("decoding %s: %w", docxMainPart, err)
	}

	var b strings.Builder
	for _, p := range doc.Body.Paragraphs {
		if strings.TrimSpace(p.Text) == "" {
			continue
		}
		b.WriteString(p.Text)
		b.WriteString("\n")
	}

	for _, t := range doc.Body.Tables {
		for _, row := range t.Rows {
			cells := make([]string, 0, len(row.Cells))
			for _, c := range row.Cells {
				if text := c.text(); text != "" {
					cells = append(cells, text)
				}
			}
			if len(cells) == 0 {
				continue
			}
			b.WriteString(strings.Join(cells, " "))
			b.WriteString("\n")
		}
	}

	return b.String(), nil
}
