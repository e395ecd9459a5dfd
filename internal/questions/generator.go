// Package questions selects the hearing questions for a citation: a canned
// set per offense category, optionally extended by a language model.
package questions

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/a3tai/acta-generator/internal/citation"
)

const (
	// DefaultMaxQuestions caps the final question list
	DefaultMaxQuestions = 10

	// minQuestionLength drops stray lines such as "1." or "Ok"
	minQuestionLength = 5
)

// Source tells where the final question list came from
type Source string

const (
	SourceStatic   Source = "static"
	SourceLLM      Source = "llm"
	SourceFallback Source = "fallback"
	SourceEdited   Source = "edited"
)

// TextGenerator turns a prompt into free text
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Config holds the question generation settings
type Config struct {
	APIKey       string
	Model        string
	MaxQuestions int
}

// Set is the question list chosen for one record
type Set struct {
	Offense   citation.OffenseType `json:"offense_type"`
	Questions []string             `json:"questions"`
	Source    Source               `json:"source"`
}

// Generator picks questions for a record
type Generator struct {
	config Config
	client TextGenerator
	logger *zap.Logger
}

// NewGenerator creates a generator. client may be nil; it is ignored when
// no API key is configured.
func NewGenerator(cfg Config, client TextGenerator, logger *zap.Logger) *Generator {
	if cfg.MaxQuestions <= 0 {
		cfg.MaxQuestions = DefaultMaxQuestions
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{
		config: cfg,
		client: client,
		logger: logger,
	}
}

// UsesModel reports whether Generate will call the language model
func (g *Generator) UsesModel() bool {
	return g.config.APIKey != "" && g.client != nil
}

// Generate returns the base questions for the record's offense category,
// extended by model-proposed questions when a model is configured
func (g *Generator) Generate(ctx context.Context, record citation.Record) Set {
	offense := record.OffenseType
	if offense == "" {
		offense = citation.OffenseGeneral
	}
	base := Base(offense)

	if !g.UsesModel() {
		return Set{Offense: offense, Questions: base, Source: SourceStatic}
	}

	fallback := Set{Offense: offense, Questions: base, Source: SourceFallback}

	wanted := g.config.MaxQuestions - len(base)
	if wanted <= 0 {
		return Set{Offense: offense, Questions: base[:g.config.MaxQuestions], Source: SourceStatic}
	}

	extra, err := g.ask(ctx, record, base, wanted)
	if err != nil {
		g.logger.Warn("question generation failed, using static questions",
			zap.String("offense_type", string(offense)),
			zap.Error(err))
		return fallback
	}

	extra = dedupe(base, extra)
	if len(extra) == 0 {
		g.logger.Warn("model returned no usable questions, using static questions",
			zap.String("offense_type", string(offense)))
		return fallback
	}
	if len(extra) > wanted {
		extra = extra[:wanted]
	}

	g.logger.Debug("questions generated",
		zap.String("offense_type", string(offense)),
		zap.Int("base", len(base)),
		zap.Int("generated", len(extra)))

	return Set{Offense: offense, Questions: append(base, extra...), Source: SourceLLM}
}

func (g *Generator) ask(ctx context.Context, record citation.Record, base []string, count int) ([]string, error) {
	prompt, err := BuildPrompt(record, base, count)
	if err != nil {
		return nil, fmt.Errorf("failed to build prompt: %w", err)
	}

	text, err := g.client.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("model call failed: %w", err)
	}

	return ParseLines(text), nil
}

// ParseLines splits a model answer into questions, stripping numbering,
// bullets and quotes
func ParseLines(text string) []string {
	var lines []string
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		line = strings.TrimLeft(line, "-•*0123456789.) ")
		line = strings.Trim(line, "\"'“”`* ")
		if len([]rune(line)) <= minQuestionLength {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

var listNumberPattern = regexp.MustCompile(`^\d+[.)]\s+`)

// SplitEdited splits a question list typed by a person, one question per
// line. Only a leading list number such as "1." or "2)" is removed.
func SplitEdited(text string) []string {
	var lines []string
	for _, raw := range strings.Split(text, "\n") {
		line := listNumberPattern.ReplaceAllString(strings.TrimSpace(raw), "")
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// dedupe drops candidates already present in base or repeated among themselves
func dedupe(base, candidates []string) []string {
	seen := make(map[string]bool, len(base)+len(candidates))
	for _, q := range base {
		seen[questionKey(q)] = true
	}

	var out []string
	for _, q := range candidates {
		key := questionKey(q)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, q)
	}
	return out
}

func questionKey(q string) string {
	return strings.ToLower(strings.Trim(strings.TrimSpace(q), "¿?¡!. "))
}

// Format renders questions as a numbered list, one per line
func Format(questions []string) string {
	var b strings.Builder
	for i, q := range questions {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%d. %s", i+1, q)
	}
	return b.String()
}
