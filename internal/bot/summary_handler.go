package bot

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// SummaryHandler renders the /summary screen. The three counts are fetched
// concurrently since they hit independent endpoints.
type SummaryHandler struct {
	tg BotAPI
}

func NewSummaryHandler(tg BotAPI) *SummaryHandler {
	return &SummaryHandler{tg: tg}
}

// HandleSummaryCommand handles /summary.
// Called from session worker - no locking needed.
func (h *SummaryHandler) HandleSummaryCommand(ctx context.Context, session *UserSession) {
	var categories, stores, items int

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := session.api.CountCategories(gctx)
		categories = n
		return err
	})
	g.Go(func() error {
		n, err := session.api.CountStores(gctx)
		stores = n
		return err
	})
	g.Go(func() error {
		n, err := session.api.CountItems(gctx)
		items = n
		return err
	})

	if err := g.Wait(); err != nil {
		session.replyWithError(err)
		return
	}

	session.reply(MsgSummary, categories, stores, items)
}
