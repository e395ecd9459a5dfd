package pdf

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/a3tai/acta-generator/internal/pdf/security"
)

// Service exposes the citation PDF operations, confined to the citations
// directory
type Service struct {
	maxFileSize   int64
	reader        *Reader
	validator     *Validator
	search        *Search
	pathValidator *security.PathValidator
	logger        *zap.Logger
}

// NewService creates a PDF service rooted at citationsDir
func NewService(maxFileSize int64, citationsDir string, logger *zap.Logger) (*Service, error) {
	if maxFileSize <= 0 {
		return nil, fmt.Errorf("max file size must be positive")
	}

	pathValidator, err := security.NewPathValidator(citationsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create path validator: %w", err)
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		maxFileSize:   maxFileSize,
		reader:        NewReader(maxFileSize),
		validator:     NewValidator(maxFileSize),
		search:        NewSearch(maxFileSize),
		pathValidator: pathValidator,
		logger:        logger,
	}, nil
}

// CitationsDir returns the absolute citations directory
func (s *Service) CitationsDir() string {
	return s.pathValidator.Root()
}

// GetMaxFileSize returns the largest PDF the service accepts
func (s *Service) GetMaxFileSize() int64 {
	return s.maxFileSize
}

// ResolvePath resolves a tool-supplied path against the citations directory
func (s *Service) ResolvePath(path string) (string, error) {
	resolved, err := s.pathValidator.Resolve(path)
	if err != nil {
		return "", fmt.Errorf("security validation failed: %w", err)
	}
	return resolved, nil
}

// PDFReadFile reads the transcript of a PDF inside the citations directory
func (s *Service) PDFReadFile(req PDFReadFileRequest) (*PDFReadFileResult, error) {
	path, err := s.ResolvePath(req.Path)
	if err != nil {
		return nil, err
	}
	req.Path = path
	return s.reader.ReadFile(req)
}

// PDFValidateFile validates a PDF inside the citations directory
func (s *Service) PDFValidateFile(req PDFValidateFileRequest) (*PDFValidateFileResult, error) {
	path, err := s.ResolvePath(req.Path)
	if err != nil {
		return nil, err
	}
	req.Path = path
	return s.validator.ValidateFile(req)
}

// PDFSearchDirectory lists the citation PDFs. An empty directory means the
// citations directory.
func (s *Service) PDFSearchDirectory(req PDFSearchDirectoryRequest) (*PDFSearchDirectoryResult, error) {
	if req.Directory == "" {
		req.Directory = s.pathValidator.Root()
	}

	dir, err := s.ResolvePath(req.Directory)
	if err != nil {
		return nil, err
	}
	req.Directory = dir
	return s.search.SearchDirectory(req)
}

// FindCitations returns the citation PDFs waiting in the citations directory
func (s *Service) FindCitations() ([]FileInfo, error) {
	return s.search.FindCitations(s.pathValidator.Root())
}

// IsValidPDF reports whether path is a structurally sound PDF
func (s *Service) IsValidPDF(path string) bool {
	return s.validator.IsValidPDF(path)
}

// ExtractText returns the flattened transcript of the PDF at path. Any
// failure is logged and yields an empty transcript.
func (s *Service) ExtractText(path string) string {
	result, err := s.reader.ReadFile(PDFReadFileRequest{Path: path})
	if err != nil {
		s.logger.Error("failed to extract PDF text",
			zap.String("path", path), zap.Error(err))
		return ""
	}

	if result.ContentType == ContentTypeScannedImages {
		s.logger.Warn("PDF looks like a scanned image without a text layer",
			zap.String("path", path), zap.Int("images", result.ImageCount))
	}

	s.logger.Debug("extracted PDF text",
		zap.String("path", path),
		zap.Int("pages", result.Pages),
		zap.Int("length", len(result.Content)))
	return result.Content
}
