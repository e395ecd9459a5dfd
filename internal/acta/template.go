package acta

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/a3tai/acta-generator/internal/citation"
)

// Template keys filled in addition to the record fields
const (
	KeyQuestions   = "preguntas"
	KeyGeneratedAt = "fecha_generacion"
)

// Placeholder returns the placeholder written in templates for key
func Placeholder(key string) string {
	return "{{ " + key + " }}"
}

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
	`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
	`<Default Extension="xml" ContentType="application/xml"/>` +
	`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
	`</Types>`

const packageRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
	`</Relationships>`

const documentRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`

// templateLine is one paragraph of the built-in template
type templateLine struct {
	text    string
	heading bool
}

func defaultTemplateLines() []templateLine {
	lines := []templateLine{
		{text: "ACTA DE DILIGENCIA DE DESCARGOS", heading: true},
		{text: ""},
	}
	for _, f := range (citation.Record{}).Fields() {
		lines = append(lines, templateLine{text: f.Label + ": " + Placeholder(f.Key)})
	}
	lines = append(lines,
		templateLine{text: ""},
		templateLine{text: "PREGUNTAS", heading: true},
		templateLine{text: Placeholder(KeyQuestions)},
		templateLine{text: ""},
		templateLine{text: "Firma del colaborador: ______________________"},
		templateLine{text: "Firma de quien realiza la diligencia: ______________________"},
		templateLine{text: "Acta generada el " + Placeholder(KeyGeneratedAt)},
	)
	return lines
}

func documentXML(lines []templateLine) (string, error) {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	b.WriteString("\n")
	b.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)

	for _, line := range lines {
		var escaped bytes.Buffer
		if err := xml.EscapeText(&escaped, []byte(line.text)); err != nil {
			return "", fmt.Errorf("failed to escape template line: %w", err)
		}

		b.WriteString("<w:p>")
		if line.heading {
			b.WriteString(`<w:pPr><w:jc w:val="center"/></w:pPr><w:r><w:rPr><w:b/></w:rPr>`)
		} else {
			b.WriteString("<w:r>")
		}
		b.WriteString(`<w:t xml:space="preserve">`)
		b.WriteString(escaped.String())
		b.WriteString("</w:t></w:r></w:p>")
	}

	b.WriteString(`<w:sectPr/></w:body></w:document>`)
	return b.String(), nil
}

// DefaultTemplate returns the built-in acta template as a .docx package
func DefaultTemplate() ([]byte, error) {
	return buildPackage(defaultTemplateLines())
}

// buildPackage zips one paragraph per line into a minimal .docx
func buildPackage(lines []templateLine) ([]byte, error) {
	body, err := documentXML(lines)
	if err != nil {
		return nil, err
	}

	parts := []struct {
		name    string
		content string
	}{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", packageRelsXML},
		{"word/document.xml", body},
		{"word/_rels/document.xml.rels", documentRelsXML},
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, part := range parts {
		w, err := zw.Create(part.name)
		if err != nil {
			return nil, fmt.Errorf("failed to add %s: %w", part.name, err)
		}
		if _, err := w.Write([]byte(part.content)); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", part.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish template archive: %w", err)
	}

	return buf.Bytes(), nil
}

// WriteDefaultTemplate writes the built-in template to path
func WriteDefaultTemplate(path string) error {
	data, err := DefaultTemplate()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), DirPerm); err != nil {
		return fmt.Errorf("cannot create template directory: %w", err)
	}
	if err := os.WriteFile(path, data, FilePerm); err != nil {
		return fmt.Errorf("cannot write template %s: %w", path, err)
	}
	return nil
}
