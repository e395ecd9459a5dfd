package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/nguyenthenguyen/docx"

	"github.com/a3tai/acta-generator/internal/acta"
	"github.com/a3tai/acta-generator/internal/citation"
	"github.com/a3tai/acta-generator/internal/config"
	"github.com/a3tai/acta-generator/internal/pdf"
	"github.com/a3tai/acta-generator/internal/questions"
)

const citationText = `Señor (a): PEDRO ANTONIO RUIZ Cargo: Conductor Identificado con C.C. No. 80.123.456 ` +
	`se le cita a diligencia de descargos el día 10 de octubre de 2025 a las 2:00 p.m. ` +
	`por presunto incumplimiento de sus obligaciones con la compañía: Llegó 45 minutos tarde a su turno ` +
	`sin aviso previo. Cometidos el día: 2025-10-06 ` +
	`Las conductas que se le imputan se han calificado provisionalmente como Falta Grave de acuerdo ` +
	`con el Reglamento Interno de Trabajo de la empresa: Artículo 58 Cumplir el horario de trabajo. ` +
	`Se le informa al trabajador sobre la oportunidad de presentar pruebas.`

// fakeSource serves transcripts by file name, ignoring the directory
type fakeSource map[string]string

func (f fakeSource) ExtractText(path string) string {
	return f[filepath.Base(path)]
}

type testEnv struct {
	server    *Server
	citations string
	output    string
}

// fakeModel records the prompts it receives and answers with fixed text
type fakeModel struct {
	answer  string
	prompts []string
}

func (f *fakeModel) Generate(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.answer, nil
}

func newTestEnv(t *testing.T, texts fakeSource) *testEnv {
	t.Helper()
	return newTestEnvWithModel(t, texts, nil)
}

func newTestEnvWithModel(t *testing.T, texts fakeSource, model questions.TextGenerator) *testEnv {
	t.Helper()

	root := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Mode = config.ModeStdio
	cfg.ServerName = "test-server"
	cfg.CitationsDir = filepath.Join(root, "Citaciones")
	cfg.OutputDir = filepath.Join(root, "ActasGeneradas")
	cfg.TemplatePath = filepath.Join(root, "missing.docx")

	if err := os.MkdirAll(cfg.CitationsDir, 0o755); err != nil {
		t.Fatalf("failed to create citations dir: %v", err)
	}
	for name := range texts {
		if err := os.WriteFile(filepath.Join(cfg.CitationsDir, name), []byte("%PDF-1.4 stub"), 0o644); err != nil {
			t.Fatalf("failed to create %s: %v", name, err)
		}
	}

	pdfService, err := pdf.NewService(cfg.MaxFileSize, cfg.CitationsDir, nil)
	if err != nil {
		t.Fatalf("failed to create PDF service: %v", err)
	}

	apiKey := ""
	if model != nil {
		apiKey = "test-key"
	}

	generator := acta.NewGenerator(
		texts,
		questions.NewGenerator(questions.Config{APIKey: apiKey, MaxQuestions: cfg.MaxQuestions}, model, nil),
		acta.NewRenderer(cfg.TemplatePath, cfg.OutputDir, nil),
		cfg.MinTextLength,
		nil,
	)

	server, err := NewServer(cfg, pdfService, generator, nil)
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}

	return &testEnv{server: server, citations: cfg.CitationsDir, output: cfg.OutputDir}
}

func toolRequest(args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

func TestNewServer(t *testing.T) {
	env := newTestEnv(t, fakeSource{})
	cfg := config.DefaultConfig()

	tests := []struct {
		name       string
		cfg        *config.Config
		pdfService *pdf.Service
		generator  *acta.Generator
	}{
		{name: "nil config", pdfService: env.server.pdfService, generator: env.server.generator},
		{name: "nil pdf service", cfg: cfg, generator: env.server.generator},
		{name: "nil generator", cfg: cfg, pdfService: env.server.pdfService},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, err := NewServer(tt.cfg, tt.pdfService, tt.generator, nil)
			if err == nil {
				t.Error("expected error but got none")
			}
			if server != nil {
				t.Error("expected nil server on error")
			}
		})
	}

	if env.server.mcpServer == nil {
		t.Error("mcpServer should be initialized")
	}
	if env.server.logger == nil {
		t.Error("logger should default to a no-op logger")
	}
}

func TestServer_HandleCitationList(t *testing.T) {
	env := newTestEnv(t, fakeSource{"ruiz.pdf": citationText, "gomez.pdf": citationText})

	result, err := env.server.handleCitationList(context.Background(), toolRequest(map[string]interface{}{}))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	text := extractTextFromResult(result)
	if !strings.Contains(text, "Found 2 citation PDF(s)") {
		t.Errorf("expected two citations, got: %s", text)
	}
	if strings.Index(text, "gomez.pdf") > strings.Index(text, "ruiz.pdf") {
		t.Errorf("citations should be sorted by name: %s", text)
	}

	result, err = env.server.handleCitationList(context.Background(), toolRequest(map[string]interface{}{"query": "lopez"}))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if text := extractTextFromResult(result); !strings.Contains(text, "No citation PDFs found") {
		t.Errorf("expected no matches, got: %s", text)
	}
}

func TestServer_HandleCitationValidate(t *testing.T) {
	env := newTestEnv(t, fakeSource{"ruiz.pdf": citationText})

	result, err := env.server.handleCitationValidate(context.Background(),
		toolRequest(map[string]interface{}{"path": "ruiz.pdf"}))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if text := extractTextFromResult(result); !strings.Contains(text, "PDF validation failed") {
		t.Errorf("stub file should fail validation, got: %s", text)
	}
}

func TestServer_HandleCitationExtract(t *testing.T) {
	env := newTestEnv(t, fakeSource{"ruiz.pdf": citationText})

	result, err := env.server.handleCitationExtract(context.Background(),
		toolRequest(map[string]interface{}{"path": "ruiz.pdf"}))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", extractTextFromResult(result))
	}

	text := extractTextFromResult(result)
	for _, want := range []string{
		"Nombre del colaborador: Pedro Antonio Ruiz",
		"Cédula: 80123456",
		"Fecha del hecho: 2025-10-06",
		citation.OffenseTardiness.Label(),
	} {
		if !strings.Contains(text, want) {
			t.Errorf("expected %q in response, got: %s", want, text)
		}
	}
	if strings.Contains(text, "Fields not found") {
		t.Errorf("all fields should be found: %s", text)
	}
}

func TestServer_HandleCitationExtract_JSON(t *testing.T) {
	env := newTestEnv(t, fakeSource{"ruiz.pdf": citationText})

	result, err := env.server.handleCitationExtract(context.Background(),
		toolRequest(map[string]interface{}{"path": "ruiz.pdf", "format": "json"}))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}

	var decoded struct {
		Record citation.Record `json:"record"`
	}
	if err := json.Unmarshal([]byte(extractTextFromResult(result)), &decoded); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if decoded.Record.Name != "Pedro Antonio Ruiz" {
		t.Errorf("Record.Name = %q", decoded.Record.Name)
	}
	if decoded.Record.OffenseType != citation.OffenseTardiness {
		t.Errorf("Record.OffenseType = %q", decoded.Record.OffenseType)
	}
}

func TestServer_HandleActaQuestions(t *testing.T) {
	env := newTestEnv(t, fakeSource{"ruiz.pdf": citationText})

	result, err := env.server.handleActaQuestions(context.Background(),
		toolRequest(map[string]interface{}{"path": "ruiz.pdf"}))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}

	text := extractTextFromResult(result)
	if !strings.Contains(text, "Question source: static") {
		t.Errorf("expected static questions without a credential, got: %s", text)
	}
	if !strings.Contains(text, "1. ") {
		t.Errorf("expected a numbered list, got: %s", text)
	}
}

func TestServer_HandleActaGenerate(t *testing.T) {
	env := newTestEnv(t, fakeSource{"ruiz.pdf": citationText})

	result, err := env.server.handleActaGenerate(context.Background(), toolRequest(map[string]interface{}{
		"path":                   "ruiz.pdf",
		"questions":              "1. ¿A qué hora llegó al turno?\n2. ¿Avisó a su supervisor?",
		citation.KeyName:         "Pedro A. Ruiz",
		citation.KeyOffenseType:  "absence",
		citation.KeyIncidentDate: "  ",
	}))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", extractTextFromResult(result))
	}

	text := extractTextFromResult(result)
	if !strings.Contains(text, "Question source: edited") {
		t.Errorf("expected edited questions, got: %s", text)
	}

	outputPath := filepath.Join(env.output, "Acta_Pedro_A._Ruiz.docx")
	if !strings.Contains(text, outputPath) {
		t.Errorf("expected output path %s in response: %s", outputPath, text)
	}

	content := readActa(t, outputPath)

	for _, want := range []string{
		"Pedro A. Ruiz",
		"2025-10-06",
		citation.OffenseAbsence.Label(),
		"¿A qué hora llegó al turno?",
		"¿Avisó a su supervisor?",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("expected %q in generated acta", want)
		}
	}
}

func readActa(t *testing.T, path string) string {
	t.Helper()
	doc, err := docx.ReadDocxFile(path)
	if err != nil {
		t.Fatalf("failed to open generated acta: %v", err)
	}
	defer doc.Close()
	return doc.Editable().GetContent()
}

func TestServer_HandleActaGenerate_OffenseOverrideSelectsQuestions(t *testing.T) {
	env := newTestEnv(t, fakeSource{"ruiz.pdf": citationText})

	result, err := env.server.handleActaGenerate(context.Background(), toolRequest(map[string]interface{}{
		"path":                  "ruiz.pdf",
		citation.KeyOffenseType: string(citation.OffenseSubstanceUse),
	}))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", extractTextFromResult(result))
	}

	text := extractTextFromResult(result)
	if !strings.Contains(text, "Question source: static") {
		t.Errorf("expected static questions, got: %s", text)
	}
	substance := questions.Base(citation.OffenseSubstanceUse)
	tardiness := questions.Base(citation.OffenseTardiness)
	if !strings.Contains(text, substance[0]) {
		t.Errorf("expected substance use questions, got: %s", text)
	}
	if strings.Contains(text, tardiness[0]) {
		t.Errorf("questions of the extracted category should not be used: %s", text)
	}

	content := readActa(t, filepath.Join(env.output, "Acta_Pedro_Antonio_Ruiz.docx"))
	if !strings.Contains(content, "bebidas alcohólicas") {
		t.Error("expected substance use questions in generated acta")
	}
	if !strings.Contains(content, citation.OffenseSubstanceUse.Label()) {
		t.Error("expected overridden offense label in generated acta")
	}
}

func TestServer_HandleActaGenerate_OverridesReachModel(t *testing.T) {
	model := &fakeModel{answer: "1. ¿Quién le suministró la sustancia durante el turno?"}
	env := newTestEnvWithModel(t, fakeSource{"ruiz.pdf": citationText}, model)

	result, err := env.server.handleActaGenerate(context.Background(), toolRequest(map[string]interface{}{
		"path":                  "ruiz.pdf",
		citation.KeyName:        "Pedro A. Ruiz",
		citation.KeyNarrative:   "Se presentó con aliento alcohólico al turno.",
		citation.KeyOffenseType: string(citation.OffenseSubstanceUse),
	}))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", extractTextFromResult(result))
	}

	if len(model.prompts) != 1 {
		t.Fatalf("expected one model call, got %d", len(model.prompts))
	}
	prompt := model.prompts[0]
	for _, want := range []string{
		"Colaborador: Pedro A. Ruiz",
		"Detalle del caso: Se presentó con aliento alcohólico al turno.",
		"Tipo de falta: " + citation.OffenseSubstanceUse.Label(),
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("expected %q in prompt: %s", want, prompt)
		}
	}

	text := extractTextFromResult(result)
	if !strings.Contains(text, "Question source: llm") {
		t.Errorf("expected model questions, got: %s", text)
	}
	if !strings.Contains(text, "¿Quién le suministró la sustancia durante el turno?") {
		t.Errorf("expected model question in response: %s", text)
	}
}

func TestServer_HandleActaGenerate_EditedQuestionsVerbatim(t *testing.T) {
	model := &fakeModel{answer: "1. ¿Pregunta que no debe aparecer en el acta?"}
	env := newTestEnvWithModel(t, fakeSource{"ruiz.pdf": citationText}, model)

	result, err := env.server.handleActaGenerate(context.Background(), toolRequest(map[string]interface{}{
		"path":      "ruiz.pdf",
		"questions": "24 horas después, ¿avisó?\n2. ¿Sí?",
	}))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", extractTextFromResult(result))
	}
	if len(model.prompts) != 0 {
		t.Errorf("model should not be called for edited questions")
	}

	text := extractTextFromResult(result)
	for _, want := range []string{"Question source: edited", "1. 24 horas después, ¿avisó?", "2. ¿Sí?"} {
		if !strings.Contains(text, want) {
			t.Errorf("expected %q in response: %s", want, text)
		}
	}
}

func TestServer_InsufficientText(t *testing.T) {
	env := newTestEnv(t, fakeSource{"escaneo.pdf": ""})

	handlers := map[string]func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error){
		"extract":   env.server.handleCitationExtract,
		"questions": env.server.handleActaQuestions,
		"generate":  env.server.handleActaGenerate,
	}

	for name, handler := range handlers {
		t.Run(name, func(t *testing.T) {
			result, err := handler(context.Background(), toolRequest(map[string]interface{}{"path": "escaneo.pdf"}))
			if err != nil {
				t.Fatalf("handler failed: %v", err)
			}
			if !result.IsError {
				t.Fatal("expected tool error")
			}
			if text := extractTextFromResult(result); !strings.Contains(text, "insufficient text") {
				t.Errorf("expected insufficient text error, got: %s", text)
			}
		})
	}
}

func TestServer_InvalidArguments(t *testing.T) {
	env := newTestEnv(t, fakeSource{})

	handlers := map[string]func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error){
		"validate":  env.server.handleCitationValidate,
		"extract":   env.server.handleCitationExtract,
		"questions": env.server.handleActaQuestions,
		"generate":  env.server.handleActaGenerate,
	}

	requests := map[string]mcp.CallToolRequest{
		"missing path":  toolRequest(map[string]interface{}{}),
		"outside root":  toolRequest(map[string]interface{}{"path": "../../etc/passwd.pdf"}),
		"absolute path": toolRequest(map[string]interface{}{"path": "/etc/passwd.pdf"}),
	}

	for handlerName, handler := range handlers {
		for requestName, request := range requests {
			t.Run(handlerName+"/"+requestName, func(t *testing.T) {
				result, err := handler(context.Background(), request)
				if err != nil {
					t.Fatalf("handlers should not return Go errors: %v", err)
				}
				if result == nil || !result.IsError {
					t.Errorf("expected tool error result")
				}
			})
		}
	}
}

func TestApplyOverrides(t *testing.T) {
	record := citation.Extract("")

	applyOverrides(&record, toolRequest(map[string]interface{}{
		citation.KeyName:          " Ana María ",
		citation.KeyIDNumber:      "123456",
		citation.KeyNarrative:     "",
		citation.KeyCitedArticles: "Artículo 60",
		citation.KeyOffenseType:   "unknown-category",
	}))

	if record.Name != "Ana María" {
		t.Errorf("Name = %q", record.Name)
	}
	if record.IDNumber != "123456" {
		t.Errorf("IDNumber = %q", record.IDNumber)
	}
	if record.Narrative != citation.NarrativeNotFound {
		t.Errorf("empty override should keep the extracted value, got %q", record.Narrative)
	}
	if record.CitedArticles != "Artículo 60" {
		t.Errorf("CitedArticles = %q", record.CitedArticles)
	}
	if record.OffenseType != citation.OffenseGeneral {
		t.Errorf("OffenseType = %q, want general", record.OffenseType)
	}
}

// extractTextFromResult returns the first text content of a tool result
func extractTextFromResult(result *mcp.CallToolResult) string {
	if result == nil {
		return ""
	}
	for _, content := range result.Content {
		if textContent, ok := content.(mcp.TextContent); ok {
			return textContent.Text
		}
		if textContentPtr, ok := content.(*mcp.TextContent); ok {
			return textContentPtr.Text
		}
	}
	return ""
}
