package chat

import (
	"context"
	"fmt"

	"golang.org/x/text/unicode/norm"

	"legal-chat/internal/backend"
	"legal-chat/internal/logging"
	"legal-chat/internal/models"
)

// Backend is the one call the dispatcher needs; *backend.Client satisfies it
type Backend interface {
	Chat(ctx context.Context, req backend.ChatRequest) (*backend.ChatResponse, error)
}

// Dispatcher turns a submitted query into exactly one backend request and
// exactly one TurnResult. It never retries.
type Dispatcher struct {
	backend Backend
}

func NewDispatcher(b Backend) *Dispatcher {
	return &Dispatcher{backend: b}
}

// BuildRequest maps a query and the caller's parameters onto the wire request.
// Vietnamese text typed on different keyboards may arrive decomposed, so the
// query is sent in NFC. Conversation stores user messages in NFC too, so the
// thread shows exactly the bytes that were sent.
func BuildRequest(query string, params models.GenerationParameters) backend.ChatRequest {
	return backend.ChatRequest{
		Query:  norm.NFC.String(query),
		Mode:   backend.ModeHybrid,
		TopK:   params.TopK,
		Alpha:  params.SemanticWeight,
		Model:  params.Model,
		Prompt: params.SystemPrompt,
	}
}

// Dispatch performs the turn. Failures are logged and returned as a failed
// TurnResult; they never escape as errors.
func (d *Dispatcher) Dispatch(ctx context.Context, query string, params models.GenerationParameters) TurnResult {
	req := BuildRequest(query, params)
	logging.Debug("Dispatching chat turn: model=%s top_k=%d alpha=%.2f query_len=%d",
		req.Model, req.TopK, req.Alpha, len(req.Query))

	resp, err := d.backend.Chat(ctx, req)
	if err != nil {
		if se, ok := backend.AsStatusError(err); ok {
			logging.Logger().Error().
				Int("status", se.StatusCode).
				Str("body", se.Body).
				Msg("Chat turn rejected by backend")
		} else {
			logging.Error("Chat turn failed: %v", err)
		}
		return Failure(err)
	}

	sources, err := resp.SourceLabels()
	if err != nil {
		err = fmt.Errorf("invalid sources in chat response: %w", err)
		logging.Error("Chat turn failed: %v", err)
		return Failure(err)
	}

	answer := resp.AnswerText(NoResponseText)
	logging.Info("Chat turn settled: answer_len=%d sources=%d", len(answer), len(sources))
	return Success(answer, sources)
}
