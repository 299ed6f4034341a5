package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/grabsync/admin-bot/internal/grab"
)

const orderPageSize = 10

// OrderHandler drives the order list screen.
type OrderHandler struct {
	tg BotAPI
}

func NewOrderHandler(tg BotAPI) *OrderHandler {
	return &OrderHandler{tg: tg}
}

// HandleOrdersCommand handles /orders [store_code] [date].
// Called from session worker - no locking needed.
func (h *OrderHandler) HandleOrdersCommand(ctx context.Context, session *UserSession, args []string) {
	session.pages.OrderPage = 1
	session.pages.OrderStore = ""
	session.pages.OrderDate = ""
	if len(args) > 0 {
		session.pages.OrderStore = args[0]
	}
	if len(args) > 1 {
		session.pages.OrderDate = args[1]
	}
	h.showPage(ctx, session)
}

// HandleCallback routes or:* callbacks.
// Called from session worker - no locking needed.
func (h *OrderHandler) HandleCallback(ctx context.Context, session *UserSession, query *tgbotapi.CallbackQuery) {
	parts := strings.SplitN(query.Data, ":", 3)
	if len(parts) != 3 {
		return
	}

	switch parts[1] {
	case "p":
		page, err := strconv.Atoi(parts[2])
		if err != nil || page < 1 {
			return
		}
		session.pages.OrderPage = page
		h.showPage(ctx, session)
	case "fin":
		h.confirmFinish(session, parts[2])
	}
}

func (h *OrderHandler) showPage(ctx context.Context, session *UserSession) {
	page := session.pages.OrderPage
	result, err := session.api.ListOrders(ctx, grab.OrderFilter{
		StoreCode: session.pages.OrderStore,
		Date:      session.pages.OrderDate,
		Page:      page,
	})
	if err != nil {
		session.replyWithError(err)
		return
	}

	if len(result.Orders) == 0 {
		session.reply(MsgOrdersEmpty)
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "*Orders* (page %d, %d total)\n", page, result.Total)
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, order := range result.Orders {
		fmt.Fprintf(&sb, "`%s` %s — %s, %d\n",
			escapeMarkdown(order.OrderID), escapeMarkdown(order.StoreCode), escapeMarkdown(order.State), order.Amount)
		// Terminal states have nothing left to finish.
		if order.State != "DELIVERED" && order.State != "CANCELLED" {
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("✔ finish "+order.OrderID, "or:fin:"+order.ID),
			))
		}
	}
	rows = append(rows, pageNavRow("or:p", page, result.Total, orderPageSize))

	msg := tgbotapi.NewMessage(session.userId, sb.String())
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	session.replyWithMessage(msg)
}

func (h *OrderHandler) confirmFinish(session *UserSession, id string) {
	req := session.confirm.Add("Finish order", "Manually move this order to its terminal state?", func(ctx context.Context) {
		msg, err := session.api.FinishOrder(ctx, id)
		if err != nil {
			session.replyWithError(err)
			return
		}
		session.reply(MsgOrderFinished, escapeMarkdown(msg))
	})

	msg := tgbotapi.NewMessage(session.userId, req.Description)
	msg.ReplyMarkup = confirmKeyboard(req)
	session.replyWithMessage(msg)
}
