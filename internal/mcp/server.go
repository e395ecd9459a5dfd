package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/a3tai/acta-generator/internal/acta"
	"github.com/a3tai/acta-generator/internal/citation"
	"github.com/a3tai/acta-generator/internal/config"
	"github.com/a3tai/acta-generator/internal/descriptions"
	"github.com/a3tai/acta-generator/internal/pdf"
	"github.com/a3tai/acta-generator/internal/questions"
)

// Server exposes the acta pipeline as MCP tools
type Server struct {
	config     *config.Config
	pdfService *pdf.Service
	generator  *acta.Generator
	mcpServer  *server.MCPServer
	logger     *zap.Logger
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, pdfService *pdf.Service, generator *acta.Generator, logger *zap.Logger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if pdfService == nil {
		return nil, fmt.Errorf("pdfService cannot be nil")
	}
	if generator == nil {
		return nil, fmt.Errorf("generator cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false),
	)

	s := &Server{
		config:     cfg,
		pdfService: pdfService,
		generator:  generator,
		mcpServer:  mcpServer,
		logger:     logger,
	}

	s.registerTools()

	return s, nil
}

// fieldArguments are the record fields acta_generate accepts as overrides
var fieldArguments = []struct {
	key         string
	description string
}{
	{citation.KeyName, "Worker name override"},
	{citation.KeyIDNumber, "ID number override"},
	{citation.KeyCitationDate, "Hearing date override"},
	{citation.KeyIncidentDate, "Incident date override"},
	{citation.KeyNarrative, "Narrative override"},
	{citation.KeyCitedArticles, "Cited articles override, one article per line"},
	{citation.KeyOffenseType, "Offense category override (tardiness, absence, safety_equipment, substance_use, " +
		"misconduct, property_damage, procedure, general)"},
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool(
		descriptions.CitationList,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.CitationList)),
		mcp.WithString("query",
			mcp.Description("Optional words matched against the file names"),
		),
	), s.handleCitationList)

	s.mcpServer.AddTool(mcp.NewTool(
		descriptions.CitationValidate,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.CitationValidate)),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Citation PDF, absolute or relative to the citations directory"),
		),
	), s.handleCitationValidate)

	s.mcpServer.AddTool(mcp.NewTool(
		descriptions.CitationExtract,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.CitationExtract)),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Citation PDF, absolute or relative to the citations directory"),
		),
		mcp.WithString("format",
			mcp.Description("Response format: text (default) or json"),
			mcp.Enum("text", "json"),
		),
	), s.handleCitationExtract)

	s.mcpServer.AddTool(mcp.NewTool(
		descriptions.ActaQuestions,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.ActaQuestions)),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Citation PDF, absolute or relative to the citations directory"),
		),
	), s.handleActaQuestions)

	generateOptions := []mcp.ToolOption{
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.ActaGenerate)),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Citation PDF, absolute or relative to the citations directory"),
		),
		mcp.WithString("questions",
			mcp.Description("Edited question list, one question per line"),
		),
	}
	for _, arg := range fieldArguments {
		generateOptions = append(generateOptions, mcp.WithString(arg.key, mcp.Description(arg.description)))
	}
	s.mcpServer.AddTool(mcp.NewTool(descriptions.ActaGenerate, generateOptions...), s.handleActaGenerate)
}

// Handler functions
func (s *Server) handleCitationList(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.pdfService.PDFSearchDirectory(pdf.PDFSearchDirectoryRequest{
		Query: request.GetString("query", ""),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatCitationList(result)), nil
}

func (s *Server) handleCitationValidate(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pdfService.PDFValidateFile(pdf.PDFValidateFileRequest{Path: path})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if !result.Valid {
		return mcp.NewToolResultText(fmt.Sprintf("PDF validation failed for %s: %s", result.Path, result.Message)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("PDF file %s is valid and readable (%d pages, PDF %s)",
		result.Path, result.Pages, result.Version)), nil
}

func (s *Server) handleCitationExtract(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := s.requirePath(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.generator.Extract(path)
	if err != nil {
		return s.pipelineError(err), nil
	}

	if request.GetString("format", "text") == "json" {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	}

	return mcp.NewToolResultText(s.formatRecord(result)), nil
}

func (s *Server) handleActaQuestions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := s.requirePath(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.generator.Prepare(ctx, path)
	if err != nil {
		return s.pipelineError(err), nil
	}

	return mcp.NewToolResultText(s.formatQuestions(result.Record, result.Questions)), nil
}

func (s *Server) handleActaGenerate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := s.requirePath(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.generator.Extract(path)
	if err != nil {
		return s.pipelineError(err), nil
	}

	applyOverrides(&result.Record, request)
	result.Missing = result.Record.Missing()

	if edited := questions.SplitEdited(request.GetString("questions", "")); len(edited) > 0 {
		result.Questions = questions.Set{
			Offense:   result.Record.OffenseType,
			Questions: edited,
			Source:    questions.SourceEdited,
		}
	} else {
		result.Questions = s.generator.Questions(ctx, result.Record)
	}

	outputPath, err := s.generator.Render(result.Record, result.Questions.Questions)
	if err != nil {
		s.logger.Error("acta generation failed", zap.String("path", path), zap.Error(err))
		return mcp.NewToolResultError(err.Error()), nil
	}
	result.OutputPath = outputPath

	text := fmt.Sprintf("Acta generated: %s\n\n", outputPath)
	text += s.formatQuestions(result.Record, result.Questions)
	return mcp.NewToolResultText(text), nil
}

// requirePath reads the path argument and confines it to the citations directory
func (s *Server) requirePath(request mcp.CallToolRequest) (string, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return "", err
	}
	return s.pdfService.ResolvePath(path)
}

// pipelineError turns a pipeline failure into a tool error
func (s *Server) pipelineError(err error) *mcp.CallToolResult {
	if errors.Is(err, acta.ErrInsufficientText) {
		return mcp.NewToolResultError(err.Error() +
			". The citation is probably a scanned image without a text layer; run OCR on it first.")
	}
	s.logger.Error("citation processing failed", zap.Error(err))
	return mcp.NewToolResultError(err.Error())
}

// applyOverrides replaces record fields with the non-empty arguments given
func applyOverrides(record *citation.Record, request mcp.CallToolRequest) {
	targets := map[string]*string{
		citation.KeyName:          &record.Name,
		citation.KeyIDNumber:      &record.IDNumber,
		citation.KeyCitationDate:  &record.CitationDate,
		citation.KeyIncidentDate:  &record.IncidentDate,
		citation.KeyNarrative:     &record.Narrative,
		citation.KeyCitedArticles: &record.CitedArticles,
	}
	for key, target := range targets {
		if value := strings.TrimSpace(request.GetString(key, "")); value != "" {
			*target = value
		}
	}
	if value := strings.TrimSpace(request.GetString(citation.KeyOffenseType, "")); value != "" {
		record.OffenseType = citation.ParseOffenseType(value)
	}
}

func (s *Server) formatCitationList(result *pdf.PDFSearchDirectoryResult) string {
	if result.TotalCount == 0 {
		text := fmt.Sprintf("No citation PDFs found in %s", result.Directory)
		if result.SearchQuery != "" {
			text += fmt.Sprintf(" matching '%s'", result.SearchQuery)
		}
		return text
	}

	text := fmt.Sprintf("Found %d citation PDF(s) in %s:\n\n", result.TotalCount, result.Directory)
	for i, file := range result.Files {
		text += fmt.Sprintf("%d. %s\n", i+1, file.Name)
		text += fmt.Sprintf("   Path: %s\n", file.Path)
		text += fmt.Sprintf("   Size: %d bytes\n", file.Size)
		text += fmt.Sprintf("   Modified: %s\n\n", file.ModifiedTime)
	}
	return text
}

func (s *Server) formatRecord(result *acta.Result) string {
	text := fmt.Sprintf("Citation: %s\n", result.SourcePath)
	text += fmt.Sprintf("Text length: %d characters\n\n", result.TextLength)

	for _, f := range result.Record.Fields() {
		if strings.Contains(f.Value, "\n") {
			text += fmt.Sprintf("%s:\n%s\n", f.Label, f.Value)
			continue
		}
		text += fmt.Sprintf("%s: %s\n", f.Label, f.Value)
	}

	if len(result.Missing) > 0 {
		text += fmt.Sprintf("\nFields not found: %s\n", strings.Join(result.Missing, ", "))
		text += "Pass them to acta_generate as overrides.\n"
	}
	return text
}

func (s *Server) formatQuestions(record citation.Record, set questions.Set) string {
	text := fmt.Sprintf("Worker: %s\n", record.Name)
	text += fmt.Sprintf("Offense: %s (%s)\n", record.OffenseType.Label(), record.OffenseType)
	text += fmt.Sprintf("Question source: %s\n\n", set.Source)
	text += questions.Format(set.Questions)
	return text
}

// Run serves MCP over stdio until the context is cancelled or stdin closes
func (s *Server) Run(ctx context.Context) error {
	s.logger.Debug("starting MCP server in stdio mode",
		zap.String("citations", s.pdfService.CitationsDir()),
		zap.String("output", s.config.OutputDir))

	stdio := server.NewStdioServer(s.mcpServer)
	stdio.SetErrorLogger(zap.NewStdLog(s.logger))

	if err := stdio.Listen(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}
