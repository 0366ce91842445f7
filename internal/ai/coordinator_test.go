package ai

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lol-coach/internal/config"
	"lol-coach/internal/domain"
)

const (
	testCoachModel   = "coach-model"
	testAnalystModel = "analyst-model"
)

// cannedInvoker replays scripted responses per model id and records every
// request body.
type cannedInvoker struct {
	responses map[string][]string
	requests  map[string][][]byte
}

func newCannedInvoker() *cannedInvoker {
	return &cannedInvoker{
		responses: map[string][]string{},
		requests:  map[string][][]byte{},
	}
}

func (c *cannedInvoker) queue(modelID, response string) {
	c.responses[modelID] = append(c.responses[modelID], response)
}

func (c *cannedInvoker) InvokeModel(_ context.Context, modelID string, body []byte) ([]byte, error) {
	c.requests[modelID] = append(c.requests[modelID], body)
	queued := c.responses[modelID]
	if len(queued) == 0 {
		panic("no canned response for " + modelID)
	}
	resp := queued[0]
	c.responses[modelID] = queued[1:]
	return []byte(resp), nil
}

func testCoordinator(invoker ModelInvoker) *Coordinator {
	return NewCoordinator(invoker, &config.Config{
		CoachModelID:   testCoachModel,
		AnalystModelID: testAnalystModel,
	}, zerolog.Nop())
}

func testSnapshot() *domain.PlayerSnapshot {
	return &domain.PlayerSnapshot{
		GameName:        "Player",
		TagLine:         "NA1",
		Region:          "na1",
		SummonerLevel:   100,
		Tier:            "GOLD",
		ExperienceLevel: domain.ExperienceIntermediate,
	}
}

func analystReply(text string) string {
	body, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{{"message": map[string]any{"content": text}}},
	})
	return string(body)
}

func TestGenerateRatingParsesEmbeddedJSON(t *testing.T) {
	invoker := newCannedInvoker()
	invoker.queue(testAnalystModel, analystReply(
		"Here is my assessment:\n{\"rating\": 72, \"percentile\": 81.5, \"summary\": \"Strong laner.\"}\nHope that helps.",
	))

	result := testCoordinator(invoker).GenerateRating(context.Background(), testSnapshot())

	assert.Equal(t, 72.0, result.Rating)
	require.NotNil(t, result.Percentile)
	assert.Equal(t, 81.5, *result.Percentile)
	assert.Equal(t, "Strong laner.", result.Summary)
}

func TestGenerateRatingFallsBackOnUnparseableResponse(t *testing.T) {
	invoker := newCannedInvoker()
	invoker.queue(testAnalystModel, analystReply("I cannot rate this player right now."))

	result := testCoordinator(invoker).GenerateRating(context.Background(), testSnapshot())

	assert.Equal(t, 50.0, result.Rating)
	require.NotNil(t, result.Percentile)
	assert.Equal(t, 50.0, *result.Percentile)
	assert.Equal(t, "Analysis unavailable.", result.Summary)
}

func TestGenerateRatingOutputsShapeFallback(t *testing.T) {
	invoker := newCannedInvoker()
	body, _ := json.Marshal(map[string]any{
		"outputs": []map[string]any{{"text": `{"rating": 40, "percentile": 33.0, "summary": "Needs work."}`}},
	})
	invoker.queue(testAnalystModel, string(body))

	result := testCoordinator(invoker).GenerateRating(context.Background(), testSnapshot())
	assert.Equal(t, 40.0, result.Rating)
	assert.Equal(t, "Needs work.", result.Summary)
}

func TestGenerateRatingEmbedsSnapshot(t *testing.T) {
	invoker := newCannedInvoker()
	invoker.queue(testAnalystModel, analystReply(`{"rating": 60, "percentile": 50.0, "summary": "ok"}`))

	testCoordinator(invoker).GenerateRating(context.Background(), testSnapshot())

	require.Len(t, invoker.requests[testAnalystModel], 1)
	var req analystRequest
	require.NoError(t, json.Unmarshal(invoker.requests[testAnalystModel][0], &req))
	require.Len(t, req.Messages, 1)
	assert.Contains(t, req.Messages[0].Content, `"gameName":"Player"`)
	assert.Contains(t, req.Messages[0].Content, "Only output JSON.")
	assert.Equal(t, 4096, req.MaxTokens)
}

func coachTextReply(texts ...string) string {
	blocks := make([]map[string]any, 0, len(texts))
	for _, text := range texts {
		blocks = append(blocks, map[string]any{"type": "text", "text": text})
	}
	body, _ := json.Marshal(map[string]any{"content": blocks, "stop_reason": "end_turn"})
	return string(body)
}

func coachToolCall(id, query, contextJSON string) string {
	body, _ := json.Marshal(map[string]any{
		"content": []map[string]any{
			{"type": "text", "text": "Let me check with the analyst."},
			{"type": "tool_use", "id": id, "name": "ask_analyst", "input": map[string]any{
				"query":        query,
				"context_json": contextJSON,
			}},
		},
		"stop_reason": "tool_use",
	})
	return string(body)
}

func TestConverseDirectAnswer(t *testing.T) {
	invoker := newCannedInvoker()
	invoker.queue(testCoachModel, coachTextReply("Focus on your CS in the first ten minutes."))

	reply, err := testCoordinator(invoker).Converse(context.Background(), "How do I improve?", testSnapshot(), nil)
	require.NoError(t, err)
	assert.Equal(t, "Focus on your CS in the first ten minutes.", reply)
	assert.Empty(t, invoker.requests[testAnalystModel])
}

func TestConverseConcatenatesTextBlocks(t *testing.T) {
	invoker := newCannedInvoker()
	invoker.queue(testCoachModel, coachTextReply("First part. ", "Second part."))

	reply, err := testCoordinator(invoker).Converse(context.Background(), "Tips?", testSnapshot(), nil)
	require.NoError(t, err)
	assert.Equal(t, "First part. Second part.", reply)
}

func TestConverseDelegatesToAnalyst(t *testing.T) {
	invoker := newCannedInvoker()
	invoker.queue(testCoachModel, coachToolCall("toolu_1", "Is their gold at 10 above average?", `{"goldAt10":3200}`))
	invoker.queue(testAnalystModel, analystReply("Gold at 10 is slightly above the tier median."))
	invoker.queue(testCoachModel, coachTextReply("The analyst confirms your early gold is fine; work on mid-game instead."))

	reply, err := testCoordinator(invoker).Converse(context.Background(), "Is my early game ok?", testSnapshot(), nil)
	require.NoError(t, err)
	assert.Equal(t, "The analyst confirms your early gold is fine; work on mid-game instead.", reply)

	// analyst saw the supplied context and sub-query
	require.Len(t, invoker.requests[testAnalystModel], 1)
	var analystReq analystRequest
	require.NoError(t, json.Unmarshal(invoker.requests[testAnalystModel][0], &analystReq))
	assert.Contains(t, analystReq.Messages[0].Content, `Context: {"goldAt10":3200}`)
	assert.Contains(t, analystReq.Messages[0].Content, "Query: Is their gold at 10 above average?")

	// second coach turn carries the tool result back
	require.Len(t, invoker.requests[testCoachModel], 2)
	var second coachRequest
	require.NoError(t, json.Unmarshal(invoker.requests[testCoachModel][1], &second))
	last := second.Messages[len(second.Messages)-1]
	require.Len(t, last.Content, 1)
	assert.Equal(t, blockToolResult, last.Content[0].Type)
	assert.Equal(t, "toolu_1", last.Content[0].ToolUseID)
	assert.Contains(t, last.Content[0].Content, "tier median")
}

func TestConverseIncludesHistory(t *testing.T) {
	invoker := newCannedInvoker()
	invoker.queue(testCoachModel, coachTextReply("As I said, ward more."))

	history := []domain.ChatTurn{{User: "What about vision?", Coach: "Ward more."}}
	_, err := testCoordinator(invoker).Converse(context.Background(), "Remind me?", testSnapshot(), history)
	require.NoError(t, err)

	var req coachRequest
	require.NoError(t, json.Unmarshal(invoker.requests[testCoachModel][0], &req))
	require.Len(t, req.Messages, 3)
	assert.Equal(t, roleUser, req.Messages[0].Role)
	assert.Equal(t, "What about vision?", req.Messages[0].Content[0].Text)
	assert.Equal(t, roleAssistant, req.Messages[1].Role)
	assert.Equal(t, "Ward more.", req.Messages[1].Content[0].Text)
}

func TestConverseStopsAtTurnCap(t *testing.T) {
	invoker := newCannedInvoker()
	for i := 0; i < 10; i++ {
		invoker.queue(testCoachModel, coachToolCall("toolu_n", "again", "{}"))
		invoker.queue(testAnalystModel, analystReply("same answer"))
	}

	_, err := testCoordinator(invoker).Converse(context.Background(), "Loop forever", testSnapshot(), nil)
	assert.ErrorIs(t, err, ErrAgentLimit)
}

func TestConverseRegistersAnalystTool(t *testing.T) {
	invoker := newCannedInvoker()
	invoker.queue(testCoachModel, coachTextReply("ok"))

	_, err := testCoordinator(invoker).Converse(context.Background(), "hi", testSnapshot(), nil)
	require.NoError(t, err)

	var req coachRequest
	require.NoError(t, json.Unmarshal(invoker.requests[testCoachModel][0], &req))
	require.Len(t, req.Tools, 1)
	assert.Equal(t, "ask_analyst", req.Tools[0].Name)
	assert.Equal(t, anthropicVersion, req.AnthropicVersion)
	assert.NotEmpty(t, req.System)
}
