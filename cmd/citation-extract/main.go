package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/a3tai/acta-generator/internal/citation"
	"github.com/a3tai/acta-generator/internal/pdf"
)

var (
	outputFormat = flag.String("format", "text", "Output format: text, json")
	showRaw      = flag.Bool("raw", false, "Print the flattened transcript as well")
	maxFileSize  = flag.Int64("maxfilesize", 100*1024*1024, "Maximum PDF file size in bytes")
	help         = flag.Bool("help", false, "Show help message")
)

// ExtractionResult is the debug dump of one citation
type ExtractionResult struct {
	FilePath    string          `json:"file_path"`
	Pages       int             `json:"pages"`
	ContentType string          `json:"content_type"`
	TextLength  int             `json:"text_length"`
	Record      citation.Record `json:"record"`
	OffenseName string          `json:"offense_label"`
	Articles    []string        `json:"article_numbers"`
	Missing     []string        `json:"missing,omitempty"`
	Transcript  string          `json:"transcript,omitempty"`
}

func main() {
	flag.Parse()

	if *help {
		printHelp()
		return
	}

	if flag.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "Error: PDF file path required\n\n")
		printUsage()
		os.Exit(1)
	}

	result, err := extractCitation(flag.Arg(0), *maxFileSize, *showRaw)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := outputResults(os.Stdout, result, *outputFormat); err != nil {
		fmt.Fprintf(os.Stderr, "Error outputting results: %v\n", err)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println("Citation Extract - show what the field extractor reads from a citation PDF")
	fmt.Println()
	printUsage()
	fmt.Println()
	fmt.Println("OPTIONS:")
	fmt.Println("  -format        Output format: text (default), json")
	fmt.Println("  -raw           Print the flattened transcript")
	fmt.Println("  -maxfilesize   Maximum PDF file size in bytes")
	fmt.Println("  -help          Show this help message")
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("  citation-extract Citaciones/perez.pdf")
	fmt.Println("  citation-extract -format json -raw Citaciones/perez.pdf")
}

func printUsage() {
	fmt.Println("USAGE:")
	fmt.Println("  citation-extract [OPTIONS] <pdf_file>")
}

func extractCitation(path string, maxSize int64, raw bool) (*ExtractionResult, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	read, err := pdf.NewReader(maxSize).ReadFile(pdf.PDFReadFileRequest{Path: absPath})
	if err != nil {
		return nil, err
	}

	return buildResult(absPath, read, raw), nil
}

func buildResult(path string, read *pdf.PDFReadFileResult, raw bool) *ExtractionResult {
	record := citation.Extract(read.Content)

	result := &ExtractionResult{
		FilePath:    path,
		Pages:       read.Pages,
		ContentType: read.ContentType,
		TextLength:  len(read.Content),
		Record:      record,
		OffenseName: record.OffenseType.Label(),
		Articles:    citation.ArticleNumbers(record.CitedArticles),
		Missing:     record.Missing(),
	}
	if raw {
		result.Transcript = read.Content
	}
	return result
}

func outputResults(w io.Writer, result *ExtractionResult, format string) error {
	switch format {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	case "text":
		return outputText(w, result)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func outputText(w io.Writer, result *ExtractionResult) error {
	fmt.Fprintf(w, "File: %s\n", result.FilePath)
	fmt.Fprintf(w, "Pages: %d, content: %s, text length: %d\n\n", result.Pages, result.ContentType, result.TextLength)

	for _, f := range result.Record.Fields() {
		fmt.Fprintf(w, "%-24s %s\n", f.Label+":", f.Value)
	}

	if len(result.Articles) > 0 {
		fmt.Fprintf(w, "\nArticle numbers: %v\n", result.Articles)
	}
	if len(result.Missing) > 0 {
		fmt.Fprintf(w, "\nNot found: %v\n", result.Missing)
	}
	if result.Transcript != "" {
		fmt.Fprintf(w, "\nTranscript:\n%s\n", result.Transcript)
	}
	return nil
}
