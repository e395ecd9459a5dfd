// Package acta renders hearing records into Word documents and runs the
// citation-to-acta pipeline.
package acta

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/nguyenthenguyen/docx"
	"go.uber.org/zap"

	"github.com/a3tai/acta-generator/internal/citation"
	"github.com/a3tai/acta-generator/internal/questions"
)

const (
	DirPerm  = 0o750
	FilePerm = 0o640

	// GeneratedAtLayout formats the generation timestamp as dd/mm/yyyy HH:MM
	GeneratedAtLayout = "02/01/2006 15:04"
)

var fileNameReplacer = strings.NewReplacer(
	" ", "_", "/", "_", "\\", "_", ":", "_", "*", "_",
	"?", "_", "\"", "_", "<", "_", ">", "_", "|", "_",
)

// Renderer merges records into the acta Word template
type Renderer struct {
	templatePath string
	outputDir    string
	logger       *zap.Logger
}

// NewRenderer creates a renderer writing into outputDir
func NewRenderer(templatePath, outputDir string, logger *zap.Logger) *Renderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Renderer{
		templatePath: templatePath,
		outputDir:    outputDir,
		logger:       logger,
	}
}

// OutputDir returns the directory actas are written to
func (r *Renderer) OutputDir() string {
	return r.outputDir
}

// BuildContext returns the template key/value pairs for a record
func BuildContext(record citation.Record, qs []string, generatedAt time.Time) map[string]string {
	ctx := make(map[string]string, 9)
	for _, f := range record.Fields() {
		ctx[f.Key] = f.Value
	}
	ctx[KeyQuestions] = questions.Format(qs)
	ctx[KeyGeneratedAt] = generatedAt.Format(GeneratedAtLayout)
	return ctx
}

// OutputFileName returns the acta file name for a worker name
func OutputFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = citation.NameNotFound
	}
	return "Acta_" + fileNameReplacer.Replace(name) + ".docx"
}

// Render writes the acta for record and returns the output path
func (r *Renderer) Render(record citation.Record, qs []string, generatedAt time.Time) (string, error) {
	templatePath, cleanup, err := r.resolveTemplate()
	if err != nil {
		return "", err
	}
	defer cleanup()

	doc, err := docx.ReadDocxFile(templatePath)
	if err != nil {
		return "", fmt.Errorf("failed to open template %s: %w", templatePath, err)
	}
	defer doc.Close()

	editable := doc.Editable()
	if err := fillPlaceholders(editable, BuildContext(record, qs, generatedAt)); err != nil {
		return "", err
	}

	if err := os.MkdirAll(r.outputDir, DirPerm); err != nil {
		return "", fmt.Errorf("cannot create output directory %s: %w", r.outputDir, err)
	}

	outputPath := filepath.Join(r.outputDir, OutputFileName(record.Name))
	if err := editable.WriteToFile(outputPath); err != nil {
		return "", fmt.Errorf("failed to write acta %s: %w", outputPath, err)
	}

	r.logger.Info("acta generated", zap.String("path", outputPath))
	return outputPath, nil
}

// fillPlaceholders substitutes every key of values into the body, headers and
// footers. Placeholders are first swapped for marker tokens and only then for
// their values, so a value that itself contains a placeholder is kept verbatim.
func fillPlaceholders(editable *docx.Docx, values map[string]string) error {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	replace := func(oldString, newString string) error {
		if err := editable.Replace(oldString, newString, -1); err != nil {
			return err
		}
		if err := editable.ReplaceHeader(oldString, newString); err != nil {
			return err
		}
		return editable.ReplaceFooter(oldString, newString)
	}

	for _, key := range keys {
		for _, placeholder := range []string{Placeholder(key), "{{" + key + "}}"} {
			if err := replace(placeholder, markerToken(key)); err != nil {
				return fmt.Errorf("failed to replace %s: %w", key, err)
			}
		}
	}

	for _, key := range keys {
		// Word renders CR LF pairs in run text as line breaks
		value := strings.ReplaceAll(markerStripper.Replace(values[key]), "\n", "\r\n")
		if err := replace(markerToken(key), value); err != nil {
			return fmt.Errorf("failed to replace %s: %w", key, err)
		}
	}
	return nil
}

// Marker runes come from the Unicode private use area and never appear in
// the templates we fill.
const (
	markerOpen  = "\uE000"
	markerClose = "\uE001"
)

var markerStripper = strings.NewReplacer(markerOpen, "", markerClose, "")

func markerToken(key string) string {
	return markerOpen + key + markerClose
}

// resolveTemplate returns the configured template, or the built-in one
// materialised in a temporary file when the configured file is missing
func (r *Renderer) resolveTemplate() (string, func(), error) {
	noop := func() {}

	if r.templatePath != "" {
		info, err := os.Stat(r.templatePath)
		if err == nil && !info.IsDir() {
			return r.templatePath, noop, nil
		}
		if err != nil && !os.IsNotExist(err) {
			return "", noop, fmt.Errorf("cannot access template %s: %w", r.templatePath, err)
		}
		r.logger.Warn("template not found, using built-in template",
			zap.String("template", r.templatePath))
	}

	data, err := DefaultTemplate()
	if err != nil {
		return "", noop, err
	}

	f, err := os.CreateTemp("", "acta-template-*.docx")
	if err != nil {
		return "", noop, fmt.Errorf("cannot create temporary template: %w", err)
	}
	cleanup := func() { _ = os.Remove(f.Name()) }

	if _, err := f.Write(data); err != nil {
		f.Close()
		cleanup()
		return "", noop, fmt.Errorf("cannot write temporary template: %w", err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", noop, fmt.Errorf("cannot write temporary template: %w", err)
	}

	return f.Name(), cleanup, nil
}
