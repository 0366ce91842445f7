package ai

import "encoding/json"

// Anthropic messages wire format, as accepted by Bedrock InvokeModel for the
// coach role.

const anthropicVersion = "bedrock-2023-05-31"

const (
	roleUser      = "user"
	roleAssistant = "assistant"
)

const (
	blockText       = "text"
	blockToolUse    = "tool_use"
	blockToolResult = "tool_result"
)

const stopReasonToolUse = "tool_use"

type coachRequest struct {
	AnthropicVersion string     `json:"anthropic_version"`
	MaxTokens        int        `json:"max_tokens"`
	Temperature      float64    `json:"temperature"`
	System           string     `json:"system,omitempty"`
	Messages         []message  `json:"messages"`
	Tools            []toolSpec `json:"tools,omitempty"`
}

type message struct {
	Role    string         `json:"role"`
	Content []contentBlock `json:"content"`
}

// contentBlock is the union of the typed blocks the coach model exchanges:
// text, tool_use (model asks for a tool) and tool_result (our reply).
type contentBlock struct {
	Type      string          `json:"type"`
	Text      string          `json:"text,omitempty"`
	ID        string          `json:"id,omitempty"`
	Name      string          `json:"name,omitempty"`
	Input     json.RawMessage `json:"input,omitempty"`
	ToolUseID string          `json:"tool_use_id,omitempty"`
	Content   string          `json:"content,omitempty"`
}

type toolSpec struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"input_schema"`
}

type coachResponse struct {
	Content    []contentBlock `json:"content"`
	StopReason string         `json:"stop_reason"`
}

// analystToolInput is the payload the coach supplies when delegating to the
// analyst.
type analystToolInput struct {
	Query       string `json:"query"`
	ContextJSON string `json:"context_json"`
}

// Analyst wire format (DeepSeek on Bedrock).

type analystRequest struct {
	Messages    []analystMessage `json:"messages"`
	MaxTokens   int              `json:"max_tokens"`
	Temperature float64          `json:"temperature"`
}

type analystMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// analystResponse covers the two shapes the analyst backend returns.
type analystResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Outputs []struct {
		Text string `json:"text"`
	} `json:"outputs"`
}

// text extracts the analyst's answer from whichever shape was returned; the
// raw body is the fallback.
func (r *analystResponse) text(raw []byte) string {
	if len(r.Choices) > 0 {
		return r.Choices[0].Message.Content
	}
	if len(r.Outputs) > 0 {
		return r.Outputs[0].Text
	}
	return string(raw)
}
