package prompt

import "strings"

// GroundedBuilder composes the grounding prompt for answering a news question
// from retrieved article context only.
type GroundedBuilder struct {
	query   string
	context string
}

func NewGroundedBuilder(query, context string) *GroundedBuilder {
	return &GroundedBuilder{
		query:   query,
		context: context,
	}
}

// Build creates a prompt that instructs the model to answer strictly from the
// retrieved articles and to admit when the context is insufficient.
func (b *GroundedBuilder) Build() string {
	var prompt strings.Builder

	b.writeReferenceMaterial(&prompt)
	b.writeTask(&prompt)
	b.writeGuidelines(&prompt)
	b.writeUserQuery(&prompt)

	return prompt.String()
}

func (b *GroundedBuilder) writeReferenceMaterial(prompt *strings.Builder) {
	prompt.WriteString("<reference_material>\n")
	prompt.WriteString(b.context)
	prompt.WriteString("\n</reference_material>\n\n")
}

func (b *GroundedBuilder) writeTask(prompt *strings.Builder) {
	prompt.WriteString("<task>\n")
	prompt.WriteString("You are a news assistant answering questions about recent events.\n")
	prompt.WriteString("Your only source of truth is the reference material above: a ranked list of news articles.\n")
	prompt.WriteString("</task>\n\n")
}

func (b *GroundedBuilder) writeGuidelines(prompt *strings.Builder) {
	prompt.WriteString("<guidelines>\n")
	prompt.WriteString("1. Base your answer strictly on the reference material provided\n")
	prompt.WriteString("2. If the articles don't contain enough information to answer, say so explicitly\n")
	prompt.WriteString("3. Never invent facts, dates, numbers, or attributions that are not in the articles\n")
	prompt.WriteString("4. When articles disagree, mention the disagreement rather than picking a side\n")
	prompt.WriteString("5. Be concise and well-organized; lead with the direct answer\n")
	prompt.WriteString("</guidelines>\n\n")
}

func (b *GroundedBuilder) writeUserQuery(prompt *strings.Builder) {
	prompt.WriteString("<user_question>\n")
	prompt.WriteString(b.query)
	prompt.WriteString("\n</user_question>\n\n")
	prompt.WriteString("Now provide your answer based on the reference material:")
}
