package diagnosis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"text/template"

	"github.com/abhisek/studyzone/internal/llm"
)

// ExplainerConfig tunes the LLM request.
type ExplainerConfig struct {
	MaxTokens   int
	Temperature float64
}

func DefaultExplainerConfig() ExplainerConfig {
	return ExplainerConfig{MaxTokens: 300, Temperature: 0.3}
}

// Explainer asks an LLM why the learner's choice is wrong.
type Explainer struct {
	provider llm.Provider
	cfg      ExplainerConfig
}

func NewExplainer(provider llm.Provider, cfg ExplainerConfig) *Explainer {
	return &Explainer{provider: provider, cfg: cfg}
}

// ExplanationSchema is the structured output requested from the provider.
var ExplanationSchema = &llm.Schema{
	Name:        "answer-explanation",
	Description: "A short, friendly explanation of an English learner's mistake",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"explanation": map[string]any{
				"type":        "string",
				"minLength":   1,
				"description": "Two or three sentences on why the chosen answer is wrong and the correct one is right",
			},
			"tip": map[string]any{
				"type":        "string",
				"description": "One practical tip to avoid this mistake next time",
			},
		},
		"required":             []any{"explanation", "tip"},
		"additionalProperties": false,
	},
}

type explanationOutput struct {
	Explanation string `json:"explanation"`
	Tip         string `json:"tip"`
}

// Explain returns an LLM-sourced Result for in. category is the rule-based
// category, if any, passed to the model as a hint.
func (e *Explainer) Explain(ctx context.Context, in *Input, category string) (*Result, error) {
	ctx = llm.WithPurpose(ctx, "diagnosis")

	prompt, err := renderPrompt(in, category)
	if err != nil {
		return nil, fmt.Errorf("build explanation prompt: %w", err)
	}
	req := llm.UserPrompt(systemPrompt, prompt)
	req.Schema = ExplanationSchema
	req.MaxTokens = e.cfg.MaxTokens
	req.Temperature = e.cfg.Temperature

	resp, err := e.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("llm explanation: %w", err)
	}
	var out explanationOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse explanation: %w", err)
	}
	return &Result{
		RecordID:    in.Record.ID,
		Category:    category,
		Label:       labelFor(category),
		Explanation: out.Explanation,
		Tip:         out.Tip,
		Source:      SourceLLM,
	}, nil
}

const systemPrompt = `You are Ms. Tammy, a warm and patient English teacher for young learners preparing for Cambridge Flyers-style tests.
A student chose a wrong answer to a multiple-choice grammar or vocabulary question.
- Explain in two or three short, simple sentences why their choice is wrong and why the correct answer is right.
- Use plain words a 10-year-old understands. Do not use grammar jargon without explaining it.
- Give one short practical tip.
- Never invent a different correct answer.`

var promptTemplate = template.Must(template.New("explain").Parse(`{{if .Topic}}Topic: {{.Topic}}
{{end}}Question: {{.Prompt}}
Options:
{{range .Options}}- {{.}}
{{end}}Student's answer: {{.Chosen}}
Correct answer: {{.Correct}}
{{if .Category}}Error type: {{.Category}}
{{end}}`))

func renderPrompt(in *Input, category string) (string, error) {
	var buf bytes.Buffer
	err := promptTemplate.Execute(&buf, map[string]any{
		"Topic":    in.Record.Topic,
		"Prompt":   in.Record.Prompt,
		"Options":  in.Record.RealOptions(),
		"Chosen":   in.Chosen,
		"Correct":  in.CorrectText,
		"Category": category,
	})
	return buf.String(), err
}
