// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neobot Contributors

package relay

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/jackeddaniel/neobot/internal/store"
	neoerr "github.com/jackeddaniel/neobot/pkg/errors"
)

func (s *Server) registerRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "start-session",
		Method:      http.MethodPost,
		Path:        "/start_session",
		Summary:     "Start a session for a document",
		Tags:        []string{"sessions"},
	}, s.handleStartSession)

	huma.Register(s.api, huma.Operation{
		OperationID: "explain",
		Method:      http.MethodPost,
		Path:        "/explain",
		Summary:     "Explain a code snippet",
		Tags:        []string{"assist"},
	}, s.handleExplain)

	huma.Register(s.api, huma.Operation{
		OperationID: "fix",
		Method:      http.MethodPost,
		Path:        "/fix",
		Summary:     "Fix bugs in a code snippet",
		Tags:        []string{"assist"},
	}, s.handleFix)

	huma.Register(s.api, huma.Operation{
		OperationID: "method-completion",
		Method:      http.MethodPost,
		Path:        "/method_completion",
		Summary:     "Complete a partial method",
		Tags:        []string{"assist"},
	}, s.handleMethodCompletion)

	huma.Register(s.api, huma.Operation{
		OperationID: "get-full-explanation",
		Method:      http.MethodPost,
		Path:        "/get_full_explanation",
		Summary:     "Join all assistant replies of a session",
		Tags:        []string{"sessions"},
	}, s.handleFullExplanation)
}

// --- Request/Response types for huma ---

type startSessionInput struct {
	Body struct {
		FileName string `json:"file_name" minLength:"1" doc:"Name of the document"`
		FullFile string `json:"full_file" doc:"Full document text at session start"`
	}
}
type startSessionOutput struct {
	Body struct {
		SessionID string `json:"session_id" doc:"Identifier for subsequent requests"`
	}
}

type snippetInput struct {
	Body struct {
		SessionID       string `json:"session_id" minLength:"1" doc:"Session identifier"`
		Snippet         string `json:"snippet" doc:"Selected code"`
		Question        string `json:"question,omitempty" doc:"Optional focussing question"`
		ProgrammingLang string `json:"programming_lang,omitempty" doc:"Language hint"`
	}
}

type explainOutput struct {
	Body struct {
		Explanation string `json:"explanation"`
	}
}

type fixOutput struct {
	Body struct {
		FixedCode string `json:"fixed_code"`
	}
}

type completionOutput struct {
	Body struct {
		CompletedMethod string `json:"completed_method"`
	}
}

type fullExplanationInput struct {
	SessionID string `query:"session_id" required:"true" doc:"Session identifier"`
}
type fullExplanationOutput struct {
	Body struct {
		FullExplanation string `json:"full_explanation"`
	}
}

// --- Handlers ---

func (s *Server) handleStartSession(ctx context.Context, input *startSessionInput) (*startSessionOutput, error) {
	session := &store.Session{
		ID:        uuid.New().String(),
		FileName:  input.Body.FileName,
		FullFile:  input.Body.FullFile,
		CreatedAt: time.Now(),
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		slog.Error("failed to create session", "file", input.Body.FileName, "error", err)
		return nil, huma.Error500InternalServerError("creating session", err)
	}

	slog.Info("started session", "session_id", session.ID, "file", session.FileName)

	out := &startSessionOutput{}
	out.Body.SessionID = session.ID
	return out, nil
}

func (s *Server) handleExplain(ctx context.Context, input *snippetInput) (*explainOutput, error) {
	session, err := s.getSession(ctx, input.Body.SessionID)
	if err != nil {
		return nil, err
	}

	history, err := s.sessions.History(ctx, session.ID)
	if err != nil {
		return nil, huma.Error500InternalServerError("loading session history", err)
	}

	prompt := explainPrompt(
		input.Body.Snippet,
		input.Body.Question,
		input.Body.ProgrammingLang,
		session.FullFile,
		history,
	)

	explanation, err := s.generate(ctx, prompt, explainTimeout)
	if err != nil {
		return nil, err
	}

	s.recordExchange(ctx, session.ID, input.Body.Snippet, explanation)
	slog.Info("returned explanation", "session_id", session.ID)

	out := &explainOutput{}
	out.Body.Explanation = explanation
	return out, nil
}

func (s *Server) handleFix(ctx context.Context, input *snippetInput) (*fixOutput, error) {
	session, err := s.getSession(ctx, input.Body.SessionID)
	if err != nil {
		return nil, err
	}

	prompt := fixPrompt(input.Body.Snippet, input.Body.ProgrammingLang)

	fixed, err := s.generate(ctx, prompt, mutationTimeout)
	if err != nil {
		return nil, err
	}

	s.recordExchange(ctx, session.ID, input.Body.Snippet, fixed)
	slog.Info("returned fix", "session_id", session.ID)

	out := &fixOutput{}
	out.Body.FixedCode = fixed
	return out, nil
}

func (s *Server) handleMethodCompletion(ctx context.Context, input *snippetInput) (*completionOutput, error) {
	session, err := s.getSession(ctx, input.Body.SessionID)
	if err != nil {
		return nil, err
	}

	prompt := completionPrompt(input.Body.Snippet, input.Body.ProgrammingLang, session.FullFile)

	completed, err := s.generate(ctx, prompt, mutationTimeout)
	if err != nil {
		return nil, err
	}

	s.recordExchange(ctx, session.ID, input.Body.Snippet, completed)
	slog.Info("returned method completion", "session_id", session.ID)

	out := &completionOutput{}
	out.Body.CompletedMethod = completed
	return out, nil
}

func (s *Server) handleFullExplanation(ctx context.Context, input *fullExplanationInput) (*fullExplanationOutput, error) {
	if _, err := s.getSession(ctx, input.SessionID); err != nil {
		return nil, err
	}

	history, err := s.sessions.History(ctx, input.SessionID)
	if err != nil {
		return nil, huma.Error500InternalServerError("loading session history", err)
	}

	var replies []string
	for _, turn := range history {
		if turn.Role == store.RoleAssistant {
			replies = append(replies, turn.Content)
		}
	}

	out := &fullExplanationOutput{}
	out.Body.FullExplanation = strings.Join(replies, "\n\n")
	return out, nil
}

// getSession loads a session, mapping a missing id to the protocol's 404.
func (s *Server) getSession(ctx context.Context, id string) (*store.Session, error) {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		if neoerr.IsNotFound(err) {
			return nil, huma.Error404NotFound("Session not found")
		}
		return nil, huma.Error500InternalServerError("loading session", err)
	}
	return session, nil
}

// generate calls the assistant backend under a deadline and maps failures to
// HTTP errors.
func (s *Server) generate(ctx context.Context, prompt string, timeout time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	reply, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		slog.Error("upstream generation failed", "provider", s.generator.Name(), "error", err)
		if errors.Is(err, context.DeadlineExceeded) {
			return "", huma.Error504GatewayTimeout("assistant request timed out")
		}
		return "", huma.Error502BadGateway("assistant request failed", err)
	}
	return reply, nil
}

// recordExchange appends the user snippet and the assistant reply to the
// session history. History is advisory context; failures are logged, not
// surfaced, so the caller still gets its reply.
func (s *Server) recordExchange(ctx context.Context, sessionID, snippet, reply string) {
	now := time.Now()
	if err := s.sessions.AppendTurn(ctx, sessionID, &store.Turn{
		Role: store.RoleUser, Content: snippet, CreatedAt: now,
	}); err != nil {
		slog.Warn("failed to record user turn", "session_id", sessionID, "error", err)
		return
	}
	if err := s.sessions.AppendTurn(ctx, sessionID, &store.Turn{
		Role: store.RoleAssistant, Content: reply, CreatedAt: now,
	}); err != nil {
		slog.Warn("failed to record assistant turn", "session_id", sessionID, "error", err)
	}
}
