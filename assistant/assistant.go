// Package assistant binds the dialog runner to session persistence: one
// inbound message in, the bot's replies out, with the conversation stack
// loaded before the turn and written back after it.
package assistant

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tripdesk/flightbot/dialog"
	"github.com/tripdesk/flightbot/store"
)

// Session is the persisted state of one conversation.
type Session struct {
	Stack dialog.Stack `json:"stack"`
}

// Assistant processes turns for any number of conversations. Each
// conversation is identified by a caller-supplied key; turns for the same
// key must not run concurrently.
type Assistant struct {
	runner   *dialog.Runner
	sessions store.Store[Session]
	logger   *slog.Logger
}

func New(runner *dialog.Runner, sessions store.Store[Session], logger *slog.Logger) *Assistant {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assistant{runner: runner, sessions: sessions, logger: logger}
}

// Respond handles one inbound message and returns the outbound replies in
// send order. A conversation with no active dialog starts at the main
// dialog; otherwise the message resumes whatever is suspended. The session
// is written back once, after the turn.
func (a *Assistant) Respond(ctx context.Context, conversationID, message string) ([]string, dialog.Status, error) {
	session, _, err := a.sessions.Get(ctx, conversationID)
	if err != nil {
		return nil, dialog.Status{}, fmt.Errorf("load session %q: %w", conversationID, err)
	}

	var replies []string
	turn := &dialog.Turn{
		Stack: &session.Stack,
		Sender: dialog.SenderFunc(func(_ context.Context, text string) error {
			replies = append(replies, text)
			return nil
		}),
	}

	var status dialog.Status
	if session.Stack.Depth() == 0 {
		status, err = a.runner.BeginTurn(ctx, turn, dialog.IDMain, nil)
	} else {
		status, err = a.runner.ContinueTurn(ctx, turn, message)
	}
	if err != nil {
		a.logger.ErrorContext(ctx, "turn failed",
			"conversation", conversationID, "error", err)
	}

	if saveErr := a.save(ctx, conversationID, session); saveErr != nil {
		if err == nil {
			err = saveErr
		}
		a.logger.ErrorContext(ctx, "session not persisted",
			"conversation", conversationID, "error", saveErr)
	}

	a.logger.DebugContext(ctx, "turn processed",
		"conversation", conversationID,
		"status", string(status.Code),
		"depth", session.Stack.Depth(),
		"replies", len(replies),
	)
	return replies, status, err
}

// Reset drops a conversation's persisted state.
func (a *Assistant) Reset(ctx context.Context, conversationID string) error {
	return a.sessions.Del(ctx, conversationID)
}

// save persists the post-turn stack, dropping the entry entirely once the
// conversation has no active dialog left.
func (a *Assistant) save(ctx context.Context, conversationID string, session Session) error {
	if session.Stack.Depth() == 0 {
		if err := a.sessions.Del(ctx, conversationID); err != nil {
			return fmt.Errorf("drop session %q: %w", conversationID, err)
		}
		return nil
	}
	if err := a.sessions.Set(ctx, conversationID, session); err != nil {
		return fmt.Errorf("save session %q: %w", conversationID, err)
	}
	return nil
}
