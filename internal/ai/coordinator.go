// Package ai coordinates the two model roles: a conversational coach that can
// delegate sub-queries to a one-shot analyst through a tool call.
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"lol-coach/internal/config"
	"lol-coach/internal/constants"
	"lol-coach/internal/domain"
)

// ErrAgentLimit is returned when the coach keeps requesting tool calls past
// the turn cap.
var ErrAgentLimit = errors.New("agent turn limit exceeded")

const askAnalystTool = "ask_analyst"

const coachSystemPrompt = "You are an elite League of Legends coach. You have access to a Senior Data Analyst " +
	"who can crunch numbers and provide deep insights. " +
	"If the user asks a question that requires statistical proof or deep analysis, use the 'ask_analyst' tool. " +
	"Otherwise, answer directly with your coaching wisdom. " +
	"Always be constructive, specific, and helpful."

// agentState tracks the tool-calling loop explicitly so each transition is
// observable in traces.
type agentState string

const (
	stateAwaitingModelTurn agentState = "awaiting_model_turn"
	stateToolCallRequested agentState = "tool_call_requested"
	stateToolExecuting     agentState = "tool_executing"
	stateFinalAnswerReady  agentState = "final_answer_ready"
)

type Coordinator struct {
	invoker        ModelInvoker
	coachModelID   string
	analystModelID string
	logger         zerolog.Logger
}

func NewCoordinator(invoker ModelInvoker, cfg *config.Config, logger zerolog.Logger) *Coordinator {
	return &Coordinator{
		invoker:        invoker,
		coachModelID:   cfg.CoachModelID,
		analystModelID: cfg.AnalystModelID,
		logger:         logger,
	}
}

// GenerateRating asks the analyst for a single JSON object rating the
// snapshot. Parse failures never propagate: the caller always gets a usable
// result, falling back to a fixed default payload.
func (c *Coordinator) GenerateRating(ctx context.Context, snapshot *domain.PlayerSnapshot) domain.AnalysisResult {
	snapshotJSON, err := json.Marshal(snapshot)
	if err != nil {
		c.logger.Error().Err(err).Msg("snapshot serialization failed")
		return defaultRating()
	}

	prompt := fmt.Sprintf(
		"Analyze these stats and output a single JSON object with: "+
			"1. 'rating' (0-100) "+
			"2. 'percentile' (float) "+
			"3. 'summary' (string): A concise 2-sentence explanation of WHY they got this rating. "+
			"Only output JSON.\n\nStats: %s",
		snapshotJSON,
	)

	content, err := c.askAnalyst(ctx, prompt)
	if err != nil {
		c.logger.Error().Err(err).Msg("rating invocation failed")
		return defaultRating()
	}

	result, err := parseRating(content)
	if err != nil {
		c.logger.Warn().Err(err).Str("raw", truncate(content, 200)).Msg("rating response not parseable, using default")
		return defaultRating()
	}
	return result
}

// Converse runs the coach agent loop: the model either answers or requests
// the ask_analyst tool, whose result is appended before the next turn. The
// loop is capped at MaxAgentTurns.
func (c *Coordinator) Converse(ctx context.Context, userMessage string, snapshot *domain.PlayerSnapshot, history []domain.ChatTurn) (string, error) {
	snapshotJSON, err := json.Marshal(snapshot)
	if err != nil {
		return "", fmt.Errorf("serialize snapshot: %w", err)
	}

	messages := historyMessages(history)
	messages = append(messages, message{
		Role: roleUser,
		Content: []contentBlock{{
			Type: blockText,
			Text: fmt.Sprintf("Player Context: %s\n\nUser Message: %s", snapshotJSON, userMessage),
		}},
	})

	state := stateAwaitingModelTurn
	for turn := 0; turn < constants.MaxAgentTurns; turn++ {
		resp, err := c.invokeCoach(ctx, messages)
		if err != nil {
			return "", err
		}

		toolUse := firstToolUse(resp.Content)
		if resp.StopReason == stopReasonToolUse && toolUse != nil {
			state = c.transition(state, stateToolCallRequested, turn)
			var input analystToolInput
			if err := json.Unmarshal(toolUse.Input, &input); err != nil {
				return "", fmt.Errorf("decode tool input: %w", err)
			}

			state = c.transition(state, stateToolExecuting, turn)
			c.logger.Debug().Int("turn", turn).Str("query", input.Query).Msg("coach delegating to analyst")

			result, err := c.askAnalyst(ctx, fmt.Sprintf(
				"Context: %s\n\nQuery: %s\n\nProvide a detailed, reasoning-based analysis.",
				input.ContextJSON, input.Query,
			))
			if err != nil {
				// the coach still gets a turn to answer without the analyst
				result = fmt.Sprintf("Analyst unavailable: %v", err)
				c.logger.Warn().Err(err).Msg("analyst tool call failed")
			}

			messages = append(messages,
				message{Role: roleAssistant, Content: resp.Content},
				message{Role: roleUser, Content: []contentBlock{{
					Type:      blockToolResult,
					ToolUseID: toolUse.ID,
					Content:   result,
				}}},
			)
			state = c.transition(state, stateAwaitingModelTurn, turn)
			continue
		}

		c.transition(state, stateFinalAnswerReady, turn)
		return concatText(resp.Content), nil
	}

	c.logger.Error().Int("max_turns", constants.MaxAgentTurns).Msg("coach never produced a final answer")
	return "", ErrAgentLimit
}

func (c *Coordinator) transition(from, to agentState, turn int) agentState {
	c.logger.Trace().Int("turn", turn).Str("from", string(from)).Str("to", string(to)).Msg("agent state")
	return to
}

func (c *Coordinator) invokeCoach(ctx context.Context, messages []message) (*coachResponse, error) {
	body, err := json.Marshal(coachRequest{
		AnthropicVersion: anthropicVersion,
		MaxTokens:        constants.CoachMaxTokens,
		Temperature:      constants.CoachTemperature,
		System:           coachSystemPrompt,
		Messages:         messages,
		Tools: []toolSpec{{
			Name: askAnalystTool,
			Description: "Consult the Senior Data Analyst for deep statistical analysis. " +
				"Use this when you need to understand complex patterns, itemization efficiency, " +
				"or specific performance metrics.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query":        map[string]any{"type": "string", "description": "The specific question to ask the analyst."},
					"context_json": map[string]any{"type": "string", "description": "The full player stats JSON."},
				},
				"required": []string{"query", "context_json"},
			},
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("encode coach request: %w", err)
	}

	invokeCtx, cancel := context.WithTimeout(ctx, constants.ModelInvokeTimeout)
	defer cancel()

	raw, err := c.invoker.InvokeModel(invokeCtx, c.coachModelID, body)
	if err != nil {
		return nil, err
	}

	var resp coachResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decode coach response: %w", err)
	}
	return &resp, nil
}

func (c *Coordinator) askAnalyst(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(analystRequest{
		Messages:    []analystMessage{{Role: roleUser, Content: prompt}},
		MaxTokens:   constants.AnalystMaxTokens,
		Temperature: constants.AnalystTemperature,
	})
	if err != nil {
		return "", fmt.Errorf("encode analyst request: %w", err)
	}

	invokeCtx, cancel := context.WithTimeout(ctx, constants.ModelInvokeTimeout)
	defer cancel()

	raw, err := c.invoker.InvokeModel(invokeCtx, c.analystModelID, body)
	if err != nil {
		return "", err
	}

	var resp analystResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return string(raw), nil
	}
	return resp.text(raw), nil
}

// parseRating locates the first {...} span in the raw text and parses it; if
// that fails, the whole text is tried.
func parseRating(content string) (domain.AnalysisResult, error) {
	var result domain.AnalysisResult

	candidate := content
	if start := strings.Index(content, "{"); start >= 0 {
		if end := strings.LastIndex(content, "}"); end > start {
			candidate = content[start : end+1]
		}
	}

	if err := json.Unmarshal([]byte(candidate), &result); err == nil {
		return result, nil
	}
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("parse rating: %w", err)
	}
	return result, nil
}

func defaultRating() domain.AnalysisResult {
	percentile := 50.0
	return domain.AnalysisResult{
		Rating:     50,
		Percentile: &percentile,
		Summary:    "Analysis unavailable.",
	}
}

func historyMessages(history []domain.ChatTurn) []message {
	messages := make([]message, 0, len(history)*2+1)
	for _, turn := range history {
		messages = append(messages,
			message{Role: roleUser, Content: []contentBlock{{Type: blockText, Text: turn.User}}},
			message{Role: roleAssistant, Content: []contentBlock{{Type: blockText, Text: turn.Coach}}},
		)
	}
	return messages
}

func firstToolUse(blocks []contentBlock) *contentBlock {
	for i := range blocks {
		if blocks[i].Type == blockToolUse {
			return &blocks[i]
		}
	}
	return nil
}

// concatText joins every text block in order, discarding non-textual blocks.
func concatText(blocks []contentBlock) string {
	var sb strings.Builder
	for _, b := range blocks {
		if b.Type == blockText {
			sb.WriteString(b.Text)
		}
	}
	return sb.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
