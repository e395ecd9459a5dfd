package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/a3tai/acta-generator/internal/acta"
	"github.com/a3tai/acta-generator/internal/config"
	"github.com/a3tai/acta-generator/internal/llm"
	"github.com/a3tai/acta-generator/internal/logging"
	"github.com/a3tai/acta-generator/internal/mcp"
	"github.com/a3tai/acta-generator/internal/pdf"
	"github.com/a3tai/acta-generator/internal/questions"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// citationFinder lists the citations waiting to be processed
type citationFinder interface {
	FindCitations() ([]pdf.FileInfo, error)
}

// citationProcessor turns one citation into an acta
type citationProcessor interface {
	Process(ctx context.Context, path string) (*acta.Result, error)
}

// newQuestionGenerator wires the Gemini client when a credential is set.
// A client that cannot be created leaves the static question bank in charge.
func newQuestionGenerator(ctx context.Context, cfg *config.Config, logger *zap.Logger) *questions.Generator {
	var client questions.TextGenerator
	if cfg.HasAPIKey() {
		gemini, err := llm.NewGemini(ctx, cfg.APIKey, cfg.Model)
		if err != nil {
			logger.Warn("Gemini client unavailable, using the question bank only", zap.Error(err))
		} else {
			client = gemini
		}
	}

	return questions.NewGenerator(questions.Config{
		APIKey:       cfg.APIKey,
		Model:        cfg.Model,
		MaxQuestions: cfg.MaxQuestions,
	}, client, logger)
}

// resolveCitation returns the configured file, or the first citation found
func resolveCitation(cfg *config.Config, finder citationFinder) (string, error) {
	if cfg.File != "" {
		return cfg.File, nil
	}

	files, err := finder.FindCitations()
	if err != nil {
		return "", err
	}
	return files[0].Path, nil
}

// runCLIMode processes one citation and prints a summary
func runCLIMode(ctx context.Context, cfg *config.Config, finder citationFinder, processor citationProcessor, out io.Writer) error {
	path, err := resolveCitation(cfg, finder)
	if err != nil {
		return err
	}

	result, err := processor.Process(ctx, path)
	if err != nil {
		return err
	}

	printResult(out, result)
	return nil
}

func printResult(out io.Writer, result *acta.Result) {
	fmt.Fprintf(out, "Citación: %s\n\n", result.SourcePath)
	for _, f := range result.Record.Fields() {
		fmt.Fprintf(out, "%s: %s\n", f.Label, f.Value)
	}
	if len(result.Missing) > 0 {
		fmt.Fprintf(out, "\nCampos no encontrados: %s\n", strings.Join(result.Missing, ", "))
	}

	fmt.Fprintf(out, "\nPreguntas (%s):\n%s\n", result.Questions.Source, questions.Format(result.Questions.Questions))
	fmt.Fprintf(out, "\nActa generada: %s\n", result.OutputPath)
}

// runStdioMode handles stdio mode execution
func runStdioMode(ctx context.Context, server *mcp.Server, logger *zap.Logger) {
	// In stdio mode, the parent process controls our lifecycle
	if err := server.Run(ctx); err != nil {
		logger.Error("server error", zap.Error(err))
		os.Exit(1)
	}
}

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			printVersion()
			return
		}
	}

	cfg, err := config.LoadFromFlags()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if version != "dev" {
		cfg.Version = version
	}

	logger, err := logging.New(cfg.LogLevel, cfg.Mode)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Debug("starting", zap.String("config", cfg.String()))

	if cfg.InitTemplate {
		if err := acta.WriteDefaultTemplate(cfg.TemplatePath); err != nil {
			logger.Fatal("failed to write template", zap.Error(err))
		}
		fmt.Printf("Plantilla escrita en %s\n", cfg.TemplatePath)
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	pdfService, err := pdf.NewService(cfg.MaxFileSize, cfg.CitationsDir, logger)
	if err != nil {
		logger.Fatal("failed to create PDF service", zap.Error(err))
	}

	generator := acta.NewGenerator(
		pdfService,
		newQuestionGenerator(ctx, cfg, logger),
		acta.NewRenderer(cfg.TemplatePath, cfg.OutputDir, logger),
		cfg.MinTextLength,
		logger,
	)

	if cfg.IsStdioMode() {
		server, err := mcp.NewServer(cfg, pdfService, generator, logger)
		if err != nil {
			logger.Fatal("failed to create MCP server", zap.Error(err))
		}
		runStdioMode(ctx, server, logger)
		return
	}

	if err := runCLIMode(ctx, cfg, pdfService, generator, os.Stdout); err != nil {
		logger.Error("citation processing failed", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

// printVersion prints version information
func printVersion() {
	fmt.Printf("Acta Generator\n")
	fmt.Printf("Version: %s\n", version)
	fmt.Printf("Build Time: %s\n", buildTime)
	fmt.Printf("Git Commit: %s\n", gitCommit)
	fmt.Printf("Built with: %s\n", runtime.Version())
}
