package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// ConfirmRequest is one pending confirmation. Each request keeps its own id
// and action, so several can be outstanding at once and resolve in any order
// without clobbering each other.
type ConfirmRequest struct {
	ID          int
	Title       string
	Description string
	action      func(ctx context.Context)
}

// ConfirmGate queues confirmation requests for one session. All methods are
// called from the session worker only, so no locking is needed.
type ConfirmGate struct {
	nextID  int
	pending []*ConfirmRequest
}

// Add enqueues a confirmation. The action runs only when the request is
// resolved with yes; resolving with no discards it silently.
func (g *ConfirmGate) Add(title, description string, action func(ctx context.Context)) *ConfirmRequest {
	g.nextID++
	req := &ConfirmRequest{
		ID:          g.nextID,
		Title:       title,
		Description: description,
		action:      action,
	}
	g.pending = append(g.pending, req)
	return req
}

// Resolve removes the request with the given id from the queue. It returns
// the action to run when ok is true, or nil when the request was declined or
// is not pending (already resolved, or from a stale keyboard).
func (g *ConfirmGate) Resolve(id int, ok bool) func(ctx context.Context) {
	for i, req := range g.pending {
		if req.ID == id {
			g.pending = append(g.pending[:i], g.pending[i+1:]...)
			if ok {
				return req.action
			}
			return nil
		}
	}
	return nil
}

// Has reports whether the request with the given id is still pending.
func (g *ConfirmGate) Has(id int) bool {
	for _, req := range g.pending {
		if req.ID == id {
			return true
		}
	}
	return false
}

// PendingCount returns the number of unresolved requests.
func (g *ConfirmGate) PendingCount() int {
	return len(g.pending)
}

// confirmKeyboard builds the Yes/No inline keyboard for a request.
func confirmKeyboard(req *ConfirmRequest) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(BtnConfirmYes, fmt.Sprintf("confirm:%d:yes", req.ID)),
			tgbotapi.NewInlineKeyboardButtonData(BtnConfirmNo, fmt.Sprintf("confirm:%d:no", req.ID)),
		),
	)
}
