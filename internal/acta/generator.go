package acta

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/a3tai/acta-generator/internal/citation"
	"github.com/a3tai/acta-generator/internal/questions"
)

// DefaultMinTextLength is the shortest transcript worth extracting from
const DefaultMinTextLength = 50

// ErrInsufficientText is returned when a PDF yields too little text, which
// usually means an image-only scan
var ErrInsufficientText = errors.New("insufficient text extracted from PDF")

// TextSource returns the flattened transcript of a PDF, or "" on failure
type TextSource interface {
	ExtractText(path string) string
}

// QuestionSource picks the hearing questions for a record
type QuestionSource interface {
	Generate(ctx context.Context, record citation.Record) questions.Set
}

// Result is the outcome of processing one citation
type Result struct {
	SourcePath string          `json:"source_path"`
	TextLength int             `json:"text_length"`
	Record     citation.Record `json:"record"`
	Questions  questions.Set   `json:"questions"`
	OutputPath string          `json:"output_path,omitempty"`
	Missing    []string        `json:"missing,omitempty"`
	Text       string          `json:"-"`
}

// Generator runs the citation to acta pipeline
type Generator struct {
	source        TextSource
	questions     QuestionSource
	renderer      *Renderer
	minTextLength int
	logger        *zap.Logger
	now           func() time.Time
}

// NewGenerator wires the pipeline stages together
func NewGenerator(source TextSource, qs QuestionSource, renderer *Renderer, minTextLength int, logger *zap.Logger) *Generator {
	if minTextLength <= 0 {
		minTextLength = DefaultMinTextLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{
		source:        source,
		questions:     qs,
		renderer:      renderer,
		minTextLength: minTextLength,
		logger:        logger,
		now:           time.Now,
	}
}

// Extract reads the PDF and extracts its fields without choosing questions
func (g *Generator) Extract(path string) (*Result, error) {
	text := g.source.ExtractText(path)
	if len([]rune(text)) < g.minTextLength {
		g.logger.Warn("insufficient text extracted",
			zap.String("path", path), zap.Int("length", len(text)))
		return nil, fmt.Errorf("%w: %s", ErrInsufficientText, path)
	}

	record := citation.Extract(text)
	result := &Result{
		SourcePath: path,
		TextLength: len(text),
		Record:     record,
		Missing:    record.Missing(),
		Text:       text,
	}

	if len(result.Missing) > 0 {
		g.logger.Info("citation fields not found",
			zap.String("path", path), zap.Strings("fields", result.Missing))
	}
	return result, nil
}

// Prepare extracts the fields and picks the questions, stopping before the
// document is rendered
func (g *Generator) Prepare(ctx context.Context, path string) (*Result, error) {
	result, err := g.Extract(path)
	if err != nil {
		return nil, err
	}

	result.Questions = g.Questions(ctx, result.Record)
	return result, nil
}

// Questions picks the hearing questions for a record, which may have been
// edited after extraction
func (g *Generator) Questions(ctx context.Context, record citation.Record) questions.Set {
	set := g.questions.Generate(ctx, record)
	g.logger.Info("questions selected",
		zap.String("offense", string(record.OffenseType)),
		zap.String("source", string(set.Source)),
		zap.Int("count", len(set.Questions)))
	return set
}

// Process runs the whole pipeline for one citation PDF
func (g *Generator) Process(ctx context.Context, path string) (*Result, error) {
	result, err := g.Prepare(ctx, path)
	if err != nil {
		return nil, err
	}

	outputPath, err := g.Render(result.Record, result.Questions.Questions)
	if err != nil {
		return nil, err
	}
	result.OutputPath = outputPath
	return result, nil
}

// Render writes the acta for a possibly edited record and question list
func (g *Generator) Render(record citation.Record, qs []string) (string, error) {
	outputPath, err := g.renderer.Render(record, qs, g.now())
	if err != nil {
		return "", fmt.Errorf("failed to render acta: %w", err)
	}
	return outputPath, nil
}
