package descriptions

import "sort"

// Tool names exposed by the MCP server
const (
	CitationList     = "citation_list"
	CitationValidate = "citation_validate"
	CitationExtract  = "citation_extract"
	ActaQuestions    = "acta_questions"
	ActaGenerate     = "acta_generate"
)

// Tool descriptions with practical examples and use cases

const (
	CitationListDescription = `List the disciplinary citation PDFs waiting in the citations directory.

**When to use:** At the start of a session, to see which citations can be turned into actas.

**Why it's useful:** Shows the files in the same order the command line tool processes them, with size and modification time.

**Examples:**
• "Which citations are pending?"
• "Find the citation for Pérez" (query: "perez")

**Common workflows:**
1. citation_list → citation_extract → review fields → acta_generate

**Best practices:** Paths returned here can be passed as-is to the other tools.`

	CitationValidateDescription = `Check that a citation PDF is structurally readable before extracting from it.

**When to use:** A citation fails extraction, or it was received from an unknown scanner or mailbox.

**Why it's useful:** Reports the page count and PDF version, and explains why a damaged file cannot be read.

**Examples:**
• "Is Citaciones/perez.pdf a readable PDF?"

**Best practices:** A valid PDF can still be an image-only scan; citation_extract reports that case as insufficient text.`

	CitationExtractDescription = `Extract the fields of a disciplinary citation: worker name, ID number, hearing date, incident date, narrative, cited articles and offense category.

**When to use:** To review what the tool read from a citation before generating the acta.

**Why it's useful:** Lists every field that could not be found so it can be supplied by hand to acta_generate. No model is called.

**Examples:**
• "What is citation perez.pdf about?"
• "Extract the cited articles from Citaciones/gomez.pdf"

**Common workflows:**
1. citation_extract → correct missing fields → acta_generate with overrides

**Best practices:** Scanned citations without a text layer are rejected with an insufficient text error.`

	ActaQuestionsDescription = `Propose the hearing questions for a citation.

**When to use:** To prepare the descargos interview or to review the questions before the acta is written.

**Why it's useful:** Starts from the question bank of the detected offense category and, when a Gemini key is configured, adds case-specific questions up to the configured maximum.

**Examples:**
• "What should we ask in the hearing for perez.pdf?"

**Common workflows:**
1. acta_questions → edit the list → acta_generate with questions

**Best practices:** The response states whether questions came from the bank, the model, or the bank after a model failure.`

	ActaGenerateDescription = `Generate the Word acta for a citation.

**When to use:** Once the extracted fields and questions are acceptable.

**Why it's useful:** Fills the acta template and writes Acta_<Name>.docx into the output directory. Any field and the question list can be overridden.

**Examples:**
• "Generate the acta for perez.pdf"
• "Generate the acta for perez.pdf with nombre 'Juan Pérez' and these questions: ..."

**Common workflows:**
1. citation_extract → acta_questions → acta_generate

**Best practices:** Pass questions one per line; when questions are given no model is called.`
)

// ToolDescriptions maps tool names to their descriptions
var ToolDescriptions = map[string]string{
	CitationList:     CitationListDescription,
	CitationValidate: CitationValidateDescription,
	CitationExtract:  CitationExtractDescription,
	ActaQuestions:    ActaQuestionsDescription,
	ActaGenerate:     ActaGenerateDescription,
}

// GetToolDescription returns the description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns the sorted names of all tools
func GetAllToolNames() []string {
	names := make([]string, 0, len(ToolDescriptions))
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
