package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/quizforge/backend/internal/domain/questionbank"
)

// OpenAIGenerator calls an OpenAI-compatible chat completion endpoint
// (OpenAI, Ollama, LM Studio, vLLM, etc.) using tool calls for structured
// output.
type OpenAIGenerator struct {
	client *openai.Client
	model  string
}

// Compile-time check: *OpenAIGenerator satisfies the Generator interface.
var _ Generator = (*OpenAIGenerator)(nil)

// NewOpenAIGenerator creates a generator for the endpoint at baseURL, e.g.
// "http://localhost:1234". An empty apiKey is fine for local servers.
func NewOpenAIGenerator(baseURL, apiKey, model string) *OpenAIGenerator {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/") + "/v1"
	}
	return &OpenAIGenerator{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

const maxAttempts = 2

const (
	toolSubmitTopics    = "submit_topics"
	toolSubmitQuestions = "submit_questions"
)

// ============================================================================
// Topics
// ============================================================================

func (g *OpenAIGenerator) ExtractTopics(ctx context.Context, text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &GenerationError{Reason: "source text is empty"}
	}

	prompt := "List the main study topics covered by the following material. " +
		"Use short topic names of one to four words. Return between 3 and 8 topics " +
		"using the submit_topics tool.\n\n" + text

	params := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"topics": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
		"required": []string{"topics"},
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		args, err := g.callTool(ctx, prompt, toolSubmitTopics, "Submit the extracted topics", params)
		if err != nil {
			lastErr = err
			continue
		}

		var out struct {
			Topics []string `json:"topics"`
		}
		if err := json.Unmarshal([]byte(args), &out); err != nil {
			lastErr = &GenerationError{Reason: "invalid topics JSON", Wrapped: err}
			continue
		}

		topics := dedupeTopics(out.Topics)
		if len(topics) == 0 {
			lastErr = &GenerationError{Reason: "model returned no topics"}
			continue
		}
		return topics, nil
	}

	return nil, &GenerationError{
		Reason:  fmt.Sprintf("topic extraction failed after %d attempts", maxAttempts),
		Wrapped: lastErr,
	}
}

func dedupeTopics(raw []string) []string {
	seen := make(map[string]bool)
	var topics []string
	for _, t := range raw {
		t = strings.TrimSpace(t)
		key := strings.ToLower(t)
		if t == "" || seen[key] {
			continue
		}
		seen[key] = true
		topics = append(topics, t)
	}
	return topics
}

// ============================================================================
// Questions
// ============================================================================

type generatedQuestion struct {
	Question      string   `json:"question"`
	Difficulty    string   `json:"difficulty"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
}

func (g *OpenAIGenerator) GenerateQuestions(ctx context.Context, req Request) ([]questionbank.Question, error) {
	if req.Count <= 0 {
		return nil, &GenerationError{Reason: "count must be positive"}
	}
	if strings.TrimSpace(req.Topic) == "" {
		return nil, &GenerationError{Reason: "topic is required"}
	}

	prompt := buildQuestionPrompt(req)

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		args, err := g.callTool(ctx, prompt, toolSubmitQuestions, "Submit generated quiz questions", questionSchema())
		if err != nil {
			lastErr = err
			continue
		}

		var out struct {
			Questions []generatedQuestion `json:"questions"`
		}
		if err := json.Unmarshal([]byte(args), &out); err != nil {
			lastErr = &GenerationError{Reason: "invalid questions JSON", Wrapped: err}
			continue
		}

		questions := toQuestions(req, out.Questions)
		if len(questions) == 0 {
			lastErr = &GenerationError{Reason: "model returned no valid questions"}
			continue
		}
		return questions, nil
	}

	return nil, &GenerationError{
		Reason:  fmt.Sprintf("question generation failed after %d attempts", maxAttempts),
		Wrapped: lastErr,
	}
}

// toQuestions converts the model output, dropping anything that does not
// validate as a multiple choice question.
func toQuestions(req Request, raw []generatedQuestion) []questionbank.Question {
	questions := make([]questionbank.Question, 0, len(raw))
	for _, r := range raw {
		if r.CorrectAnswer < 0 || r.CorrectAnswer >= len(r.Options) {
			continue
		}

		d := questionbank.Difficulty(strings.ToLower(strings.TrimSpace(r.Difficulty)))
		if req.Difficulty != "" {
			d = req.Difficulty
		}

		q := questionbank.Question{
			Topic:       req.Topic,
			Difficulty:  d,
			Kind:        questionbank.KindMultipleChoice,
			Prompt:      strings.TrimSpace(r.Question),
			Options:     r.Options,
			Answer:      r.Options[r.CorrectAnswer],
			Explanation: r.Explanation,
		}
		if q.Validate() != nil {
			continue
		}
		questions = append(questions, q)
		if len(questions) == req.Count {
			break
		}
	}
	return questions
}

func buildQuestionPrompt(req Request) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Generate %d multiple choice questions about: %s\n\n", req.Count, req.Topic))

	if req.SourceText != "" {
		sb.WriteString("Use the following source material as reference:\n")
		sb.WriteString(req.SourceText)
		sb.WriteString("\n\n")
	}

	if req.Difficulty != "" {
		sb.WriteString(fmt.Sprintf("Every question must be of %s difficulty.\n\n", req.Difficulty))
	} else {
		sb.WriteString("Mix easy, medium and hard questions evenly.\n\n")
	}

	if req.BloomFocus != "" && req.BloomFocus != "Mixed" {
		sb.WriteString(fmt.Sprintf("Focus on the %q level of Bloom's taxonomy.\n\n", req.BloomFocus))
	}

	sb.WriteString("Requirements:\n")
	sb.WriteString("- Each question must have exactly 4 options\n")
	sb.WriteString("- correct_answer is the 0-based index of the right option\n")
	sb.WriteString("- difficulty is one of easy, medium, hard\n")
	sb.WriteString("- Incorrect options should be plausible but clearly wrong\n")
	sb.WriteString("- Do not give the answer away in the question text\n")
	sb.WriteString("- Use the submit_questions tool to return your questions\n")

	return sb.String()
}

func questionSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question":       map[string]any{"type": "string"},
						"difficulty":     map[string]any{"type": "string", "enum": []string{"easy", "medium", "hard"}},
						"options":        map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
						"correct_answer": map[string]any{"type": "integer"},
						"explanation":    map[string]any{"type": "string"},
					},
					"required": []string{"question", "difficulty", "options", "correct_answer"},
				},
			},
		},
		"required": []string{"questions"},
	}
}

// ============================================================================
// LLM communication
// ============================================================================

// callTool forces a single tool call and returns its raw JSON arguments.
func (g *OpenAIGenerator) callTool(ctx context.Context, prompt, tool, description string, params map[string]any) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are an expert teacher writing quiz material from study notes.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		Tools: []openai.Tool{
			{
				Type: openai.ToolTypeFunction,
				Function: &openai.FunctionDefinition{
					Name:        tool,
					Description: description,
					Parameters:  params,
				},
			},
		},
		ToolChoice: openai.ToolChoice{
			Type:     openai.ToolTypeFunction,
			Function: openai.ToolFunction{Name: tool},
		},
	})
	if err != nil {
		return "", &GenerationError{Reason: "LLM request failed", Wrapped: err}
	}

	if len(resp.Choices) == 0 {
		return "", &GenerationError{Reason: "LLM returned no choices"}
	}

	calls := resp.Choices[0].Message.ToolCalls
	if len(calls) == 0 {
		return "", &GenerationError{Reason: "no tool calls in response"}
	}
	if calls[0].Function.Name != tool {
		return "", &GenerationError{Reason: fmt.Sprintf("unexpected tool call %q", calls[0].Function.Name)}
	}
	return calls[0].Function.Arguments, nil
}
