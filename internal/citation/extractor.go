// Package citation extracts structured fields from the flattened text of a
// disciplinary citation and infers the offense category.
package citation

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// minArticlesLength is the shortest article block accepted as valid
const minArticlesLength = 20

var (
	namePattern = regexp.MustCompile(
		`(?i:señor)\s*\((?i:a)\)\s*[:\-]?\s*((?:(?:[A-ZÁÉÍÓÚÑÜ]{2,}|[A-ZÁÉÍÓÚÑÜ]\.)\s+)*[A-ZÁÉÍÓÚÑÜ]{2,})(?:[^a-záéíóúñü]|$)`)

	citationDatePattern = regexp.MustCompile(
		`(?i)el\s+d[ií]a\s+(\d{1,2}\s+de\s+[a-zñ]+\s+(?:de\s+|del\s+)?\d{4}\s+a\s+las\s+\d{1,2}(?:[:.]\d{2})?(?:\s*[ap]\.?\s?m\.?)?)`)

	incidentDatePattern = regexp.MustCompile(
		`(?i)cometidos?\s+el\s+d[ií]a[:\s]+([0-9]+(?:[\-/][0-9]+)+)`)

	narrativePattern = regexp.MustCompile(
		`(?is)compañ[ií]a[:\-]?\s*(.+?)cometidos?\s+el\s+d[ií]a`)

	idNumberPattern = regexp.MustCompile(
		`(?i)(?:c\.\s?c\.?|\bcc\b|c[eé]dula(?:\s+de\s+ciudadan[ií]a)?)\s*(?:no\.?|n[°º]\.?|#)?\s*[:\-]?\s*(\d{1,3}(?:[.,]\d{3})+|\d{5,12})`)

	articlesStartPattern = regexp.MustCompile(
		`(?i)Las\s+conductas\s+que\s+se\s+le\s+imputan\s+se\s+han\s+calificado\s+provisionalmente\s+como\s+Falta\s+Grave[\s\S]*?empresa:*`)

	articlesEndPattern = regexp.MustCompile(
		`(?i)Se\s+le\s+informa\s+al\s+trabajador\s+sobre\s+la\s+oportunidad\s+de\s+presentar`)

	articleHeadingPattern = regexp.MustCompile(`(?i)\s*(Art[ií]culo\s+\d+)`)
	articleNumberPattern  = regexp.MustCompile(`(?i)art[ií]culo\s+(\d+)`)
	multiSpacePattern     = regexp.MustCompile(`\s{2,}`)
	separatorPattern      = regexp.MustCompile(`[.,\s]`)

	// idMarkers end a name run: "ANA ROJAS CC 1.023.456" or "... NIT 900..."
	idMarkers = map[string]bool{"CC": true, "CE": true, "NIT": true, "TI": true}

	nameCaser = cases.Title(language.Spanish)
)

// Normalize joins the transcript into a single line
func Normalize(text string) string {
	t := strings.ReplaceAll(text, "\r", " ")
	t = strings.ReplaceAll(t, "\n", " ")
	return strings.TrimSpace(t)
}

// Extract runs every field extractor over the transcript
func Extract(text string) Record {
	t := Normalize(text)

	record := Record{
		Name:          ExtractName(t),
		CitationDate:  ExtractCitationDate(t),
		IncidentDate:  ExtractIncidentDate(t),
		Narrative:     ExtractNarrative(t),
		CitedArticles: ExtractArticles(t),
		IDNumber:      ExtractIDNumber(t),
	}
	record.OffenseType = classifyRecord(record, t)

	return record
}

// ExtractName returns the worker's name in title case
func ExtractName(text string) string {
	m := namePattern.FindStringSubmatch(Normalize(text))
	if m == nil {
		return NameNotFound
	}
	words := strings.Fields(m[1])
	for i, w := range words {
		if idMarkers[w] {
			words = words[:i]
			break
		}
	}
	if len(words) == 0 {
		return NameNotFound
	}
	return nameCaser.String(strings.Join(words, " "))
}

// ExtractCitationDate returns the hearing date, e.g. "25 de septiembre 2025 a las 4:00 p.m."
func ExtractCitationDate(text string) string {
	m := citationDatePattern.FindStringSubmatch(Normalize(text))
	if m == nil {
		return DateNotFound
	}
	return strings.TrimSpace(m[1])
}

// ExtractIncidentDate returns the date the facts took place, e.g. "2025-09-22"
func ExtractIncidentDate(text string) string {
	m := incidentDatePattern.FindStringSubmatch(Normalize(text))
	if m == nil {
		return DateNotFound
	}
	return strings.TrimSpace(m[1])
}

// ExtractNarrative returns the case description
func ExtractNarrative(text string) string {
	m := narrativePattern.FindStringSubmatch(Normalize(text))
	if m == nil {
		return NarrativeNotFound
	}
	narrative := strings.TrimSpace(m[1])
	if narrative == "" {
		return NarrativeNotFound
	}
	return narrative
}

// ExtractIDNumber returns the identity document number without separators
func ExtractIDNumber(text string) string {
	m := idNumberPattern.FindStringSubmatch(Normalize(text))
	if m == nil {
		return IDNotFound
	}
	return separatorPattern.ReplaceAllString(m[1], "")
}

// ExtractArticles returns the block of cited rules, one "Artículo N" per line
func ExtractArticles(text string) string {
	t := Normalize(text)

	start := articlesStartPattern.FindStringIndex(t)
	if start == nil {
		return ArticlesNotFound
	}
	end := articlesEndPattern.FindStringIndex(t[start[1]:])
	if end == nil {
		return ArticlesNotFound
	}

	block := strings.TrimSpace(t[start[1] : start[1]+end[0]])
	block = multiSpacePattern.ReplaceAllString(block, " ")
	block = articleHeadingPattern.ReplaceAllString(block, "\n${1}")
	block = strings.TrimSpace(block)

	if utf8.RuneCountInString(block) <= minArticlesLength {
		return ArticlesInvalid
	}
	return block
}

// ArticleNumbers lists the distinct article numbers cited in a block, in order
func ArticleNumbers(block string) []string {
	var numbers []string
	seen := make(map[string]bool)
	for _, m := range articleNumberPattern.FindAllStringSubmatch(block, -1) {
		if seen[m[1]] {
			continue
		}
		seen[m[1]] = true
		numbers = append(numbers, m[1])
	}
	return numbers
}
