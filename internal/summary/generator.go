package summary

import "context"

// Completer is the LLM call shape shared by the OpenAI and Ollama clients.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Generator turns extracted pages into French watch summaries.
type Generator struct {
	llm    Completer
	system string
}

// NewGenerator wires a Generator. A non-empty systemPrompt replaces
// DefaultSystemPrompt.
func NewGenerator(llm Completer, systemPrompt string) *Generator {
	if systemPrompt == "" {
		systemPrompt = DefaultSystemPrompt
	}
	return &Generator{llm: llm, system: systemPrompt}
}

func (g *Generator) Summarize(ctx context.Context, title, content string) (string, error) {
	return g.llm.Complete(ctx, g.system, SummaryPrompt(title, content))
}
