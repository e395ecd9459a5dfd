package pdf

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// minMeaningfulTextLength is the shortest transcript treated as real text
const minMeaningfulTextLength = 50

var whitespacePattern = regexp.MustCompile(`\s+`)

// Reader extracts the text layer of citation PDFs
type Reader struct {
	maxFileSize int64
	maxTextSize int
	validator   *Validator
}

// NewReader creates a new PDF reader with the specified constraints
func NewReader(maxFileSize int64) *Reader {
	return &Reader{
		maxFileSize: maxFileSize,
		maxTextSize: 10 * 1024 * 1024, // 10MB text limit
		validator:   NewValidator(maxFileSize),
	}
}

// ReadFile extracts the flattened transcript of a PDF file: the text of
// every page joined, with each whitespace run collapsed to one space
func (r *Reader) ReadFile(req PDFReadFileRequest) (*PDFReadFileResult, error) {
	if req.Path == "" {
		return nil, fmt.Errorf("path cannot be empty")
	}

	fileInfo, err := os.Stat(req.Path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("file does not exist: %s", req.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot access file: %w", err)
	}

	if err := r.validator.ValidateFileInfo(req.Path, fileInfo); err != nil {
		return nil, err
	}

	f, pdfReader, err := pdf.Open(req.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	content := Flatten(r.extractTextContent(pdfReader))
	hasImages, imageCount := r.detectImages(pdfReader)

	return &PDFReadFileResult{
		Content:     content,
		Path:        req.Path,
		Pages:       pdfReader.NumPage(),
		Size:        fileInfo.Size(),
		ContentType: contentType(content, hasImages),
		HasImages:   hasImages,
		ImageCount:  imageCount,
	}, nil
}

// Flatten collapses every whitespace run to a single space and trims
func Flatten(text string) string {
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(text, " "))
}

// extractTextContent returns the plain text of every page, one page per line.
// Pages that fail to decode are skipped.
func (r *Reader) extractTextContent(pdfReader *pdf.Reader) string {
	var builder strings.Builder
	totalLength := 0

	for pageNum := 1; pageNum <= pdfReader.NumPage(); pageNum++ {
		content, ok := r.pageText(pdfReader, pageNum)
		if !ok {
			continue
		}

		if totalLength+len(content) > r.maxTextSize {
			remaining := r.maxTextSize - totalLength
			if remaining > 0 {
				builder.WriteString(truncateUTF8(content, remaining))
			}
			break
		}

		builder.WriteString(content)
		builder.WriteString("\n")
		totalLength += len(content) + 1
	}

	return builder.String()
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune
func truncateUTF8(s string, n int) string {
	if n >= len(s) {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// pageText guards against panics raised by malformed content streams
func (r *Reader) pageText(pdfReader *pdf.Reader, pageNum int) (text string, ok bool) {
	defer func() {
		if recover() != nil {
			text, ok = "", false
		}
	}()

	page := pdfReader.Page(pageNum)
	if page.V.IsNull() {
		return "", false
	}

	content, err := page.GetPlainText(nil)
	if err != nil {
		return "", false
	}
	return content, true
}

// contentType classifies a transcript; an image-only scan yields little or no text
func contentType(text string, hasImages bool) string {
	if len(text) < minMeaningfulTextLength {
		if hasImages {
			return ContentTypeScannedImages
		}
		return ContentTypeNoContent
	}
	if hasImages {
		return ContentTypeMixed
	}
	return ContentTypeText
}

// detectImages scans the PDF for image objects
func (r *Reader) detectImages(pdfReader *pdf.Reader) (bool, int) {
	imageCount := 0
	for pageNum := 1; pageNum <= pdfReader.NumPage(); pageNum++ {
		imageCount += r.countImagesOnPage(pdfReader, pageNum)
	}
	return imageCount > 0, imageCount
}

// countImagesOnPage counts image XObjects on a specific page
func (r *Reader) countImagesOnPage(pdfReader *pdf.Reader, pageNum int) (count int) {
	defer func() {
		if recover() != nil {
			count = 0
		}
	}()

	page := pdfReader.Page(pageNum)
	if page.V.IsNull() {
		return 0
	}

	resources := page.V.Key("Resources")
	if resources.IsNull() {
		return 0
	}

	xObjects := resources.Key("XObject")
	if xObjects.IsNull() || xObjects.Kind() != pdf.Dict {
		return 0
	}

	for _, key := range xObjects.Keys() {
		subtype := xObjects.Key(key).Key("Subtype")
		if subtype.IsNull() || subtype.Name() != "Image" {
			continue
		}
		count++
	}

	return count
}
