package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lexdraft/lexdraft/internal/server/models"
)

// maxContextChars bounds the combined source-document context fed to the
// model; anything beyond it is truncated with a marker.
const maxContextChars = 48000

const generationSystemPrompt = `You are an expert legal writer specializing in personal injury demand letters.
Your role is to draft professional, persuasive demand letters that attorneys can use in settlement negotiations.
You have access to source documents (medical records, police reports, bills, etc.) and a firm-specific template
that defines the structure and style for the letter.

Analyze the source documents, follow the template's section organization exactly, and only include information
supported by the provided documents. Use specific facts and figures: dates, dollar amounts, diagnoses.
Maintain a formal, assertive but respectful tone.

OUTPUT FORMAT:
- Generate HTML content only (no markdown, no explanations)
- Use semantic HTML tags: <h1>, <h2>, <h3> for headings; <p> for paragraphs; <strong>, <em> for emphasis; <ul>, <ol>, <li> for lists
- Ensure proper document structure following the template's organization
- Make the letter ready for attorney review and finalization`

// templateInstructions renders the template structure block of the user
// prompt. Sections is stored as raw JSON; a non-array payload is passed
// through verbatim rather than rejected.
func templateInstructions(t *models.Template) string {
	var b strings.Builder
	b.WriteString("## TEMPLATE STRUCTURE\n\n")

	if t.LetterheadText != "" {
		fmt.Fprintf(&b, "**Letterhead:**\n%s\n\n", t.LetterheadText)
	}
	if t.OpeningParagraph != "" {
		fmt.Fprintf(&b, "**Opening Paragraph:**\n%s\n\n", t.OpeningParagraph)
	}
	if len(t.Sections) > 0 {
		var sections []string
		if err := json.Unmarshal(t.Sections, &sections); err == nil {
			b.WriteString("**Sections to include:**\n")
			for _, s := range sections {
				fmt.Fprintf(&b, "- %s\n", s)
			}
			b.WriteString("\n")
		} else {
			fmt.Fprintf(&b, "**Sections:** %s\n\n", string(t.Sections))
		}
	}
	if t.ClosingParagraph != "" {
		fmt.Fprintf(&b, "**Closing Paragraph:**\n%s\n\n", t.ClosingParagraph)
	}
	return b.String()
}

// documentContext renders the labelled source documents, truncated to
// maxContextChars.
func documentContext(docs []*models.Document) string {
	var b strings.Builder
	for i, doc := range docs {
		fmt.Fprintf(&b, "### Document %d (%s)\n\n", i+1, doc.Filename)
		b.WriteString(doc.ExtractedText)
		b.WriteString("\n\n---\n\n")
	}

	context := b.String()
	if len(context) > maxContextChars {
		context = context[:maxContextChars] + "\n\n[Content truncated due to length limits...]"
	}
	return context
}

// buildGenerationPrompt assembles the user message: template instructions,
// source documents and the output contract.
func buildGenerationPrompt(t *models.Template, docs []*models.Document) string {
	var b strings.Builder
	b.WriteString(templateInstructions(t))
	b.WriteString("\n## SOURCE DOCUMENTS\n\n")
	b.WriteString(documentContext(docs))
	b.WriteString(`
## OUTPUT REQUIREMENTS

Generate a complete demand letter in HTML format. The letter should:
1. Follow the template structure provided above
2. Extract and incorporate relevant information from the source documents
3. Be formatted as clean HTML with appropriate tags (p, h1, h2, h3, strong, em, ul, ol, li)
4. Include the letterhead, opening paragraph, all required sections, and closing paragraph
5. Be professional and legally appropriate

Output only the HTML content of the letter, without any additional explanation or markdown formatting.`)
	return b.String()
}
