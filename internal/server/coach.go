// Package server exposes the coaching API: analyze a player, read the
// resulting insights, and chat with the coach about them.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"lol-coach/internal/config"
	"lol-coach/internal/constants"
	"lol-coach/internal/domain"
	"lol-coach/internal/riot"
	"lol-coach/internal/session"
)

// SnapshotBuilder is the slice of the snapshot service the handlers consume.
type SnapshotBuilder interface {
	Build(ctx context.Context, gameName, tagLine, region string) (*domain.PlayerSnapshot, error)
}

// Advisor is the slice of the AI coordinator the handlers consume.
type Advisor interface {
	GenerateRating(ctx context.Context, snapshot *domain.PlayerSnapshot) domain.AnalysisResult
	Converse(ctx context.Context, userMessage string, snapshot *domain.PlayerSnapshot, history []domain.ChatTurn) (string, error)
}

type CoachServer struct {
	builder    SnapshotBuilder
	advisor    Advisor
	store      session.Store
	sessionTTL time.Duration
	validator  *validator.Validate
	logger     zerolog.Logger
}

func NewCoachServer(builder SnapshotBuilder, advisor Advisor, store session.Store, cfg *config.Config, logger zerolog.Logger) *CoachServer {
	return &CoachServer{
		builder:    builder,
		advisor:    advisor,
		store:      store,
		sessionTTL: cfg.SessionTTL,
		validator:  validator.New(),
		logger:     logger,
	}
}

// Routes mounts the API onto a chi router.
func (s *CoachServer) Routes(r chi.Router) {
	r.Post("/api/analyze", s.handleAnalyze)
	r.Get("/api/insights/{sessionID}", s.handleInsights)
	r.Post("/api/chat", s.handleChat)
}

type analyzeRequest struct {
	GameName string `json:"gameName" validate:"required"`
	TagLine  string `json:"tagLine" validate:"required"`
	Region   string `json:"region"`
}

type analyzeResponse struct {
	SessionID string `json:"session_id"`
	Status    string `json:"status"`
	Player    string `json:"player"`
}

type insightsResponse struct {
	SessionID string                `json:"session_id"`
	Snapshot  domain.PlayerSnapshot `json:"snapshot"`
	Analysis  domain.AnalysisResult `json:"analysis"`
}

type chatRequest struct {
	SessionID string `json:"session_id" validate:"required"`
	Message   string `json:"message" validate:"required"`
}

type chatResponse struct {
	Response string `json:"response"`
}

func (s *CoachServer) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	if req.Region == "" {
		req.Region = "na1"
	}

	ctx, cancel := context.WithTimeout(r.Context(), constants.RequestTimeout)
	defer cancel()

	snapshot, err := s.builder.Build(ctx, req.GameName, req.TagLine, req.Region)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	analysis := s.advisor.GenerateRating(ctx, snapshot)

	tipPrompt := "The analyst provided this summary: '" + analysis.Summary + "'. Give me a starting coaching tip based on this."
	tip, err := s.advisor.Converse(ctx, tipPrompt, snapshot, nil)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	analysis.CoachingTip = tip

	now := time.Now()
	sess := &domain.Session{
		ID:          uuid.New().String(),
		Snapshot:    *snapshot,
		Analysis:    analysis,
		ChatHistory: []domain.ChatTurn{},
		CreatedAt:   now,
		ExpiresAt:   now.Add(s.sessionTTL),
	}
	if err := s.store.Put(ctx, sess); err != nil {
		s.respondError(w, r, err)
		return
	}

	s.logger.Info().
		Str("session_id", sess.ID).
		Str("player", snapshot.GameName+"#"+snapshot.TagLine).
		Float64("rating", analysis.Rating).
		Msg("analysis completed")

	s.writeJSON(w, http.StatusOK, analyzeResponse{
		SessionID: sess.ID,
		Status:    "completed",
		Player:    req.GameName + "#" + req.TagLine,
	})
}

func (s *CoachServer) handleInsights(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	sess, err := s.store.Get(r.Context(), sessionID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, insightsResponse{
		SessionID: sess.ID,
		Snapshot:  sess.Snapshot,
		Analysis:  sess.Analysis,
	})
}

func (s *CoachServer) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), constants.RequestTimeout)
	defer cancel()

	sess, err := s.store.Get(ctx, req.SessionID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	reply, err := s.advisor.Converse(ctx, req.Message, &sess.Snapshot, sess.ChatHistory)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	turn := domain.ChatTurn{User: req.Message, Coach: reply}
	if err := s.store.AppendChat(ctx, req.SessionID, turn); err != nil {
		s.logger.Warn().Err(err).Str("session_id", req.SessionID).Msg("failed to append chat turn")
	}

	s.writeJSON(w, http.StatusOK, chatResponse{Response: reply})
}

func (s *CoachServer) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	if err := s.validator.Struct(dst); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// respondError keeps the caller-facing distinction between "not found",
// upstream failures and internal errors.
func (s *CoachServer) respondError(w http.ResponseWriter, r *http.Request, err error) {
	var upstream *riot.UpstreamError

	switch {
	case errors.Is(err, riot.ErrNotFound):
		s.writeError(w, http.StatusNotFound, "player not found")
	case errors.Is(err, session.ErrNotFound):
		s.writeError(w, http.StatusNotFound, "session not found")
	case errors.As(err, &upstream):
		s.logger.Error().Err(err).Str("path", r.URL.Path).Msg("upstream api failure")
		s.writeError(w, http.StatusBadGateway, "stats provider unavailable")
	case errors.Is(err, riot.ErrTimeout):
		s.logger.Error().Err(err).Str("path", r.URL.Path).Msg("upstream api timeout")
		s.writeError(w, http.StatusGatewayTimeout, "stats provider timed out")
	default:
		s.logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		s.writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func (s *CoachServer) writeError(w http.ResponseWriter, status int, detail string) {
	s.writeJSON(w, status, map[string]string{"detail": detail})
}

func (s *CoachServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error().Err(err).Msg("failed to encode response")
	}
}
