package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/grabsync/admin-bot/internal/grab"
)

const itemPageSize = 10

// ItemForm tracks an open item add/edit form.
type ItemForm struct {
	Adding bool
	EditID string
}

func (f *ItemForm) active() bool {
	return f.Adding || f.EditID != ""
}

func (f *ItemForm) reset() {
	f.Adding = false
	f.EditID = ""
}

// ItemHandler drives the item list screen.
type ItemHandler struct {
	tg BotAPI
}

func NewItemHandler(tg BotAPI) *ItemHandler {
	return &ItemHandler{tg: tg}
}

// HandleItemsCommand handles /items [query].
// Called from session worker - no locking needed.
func (h *ItemHandler) HandleItemsCommand(ctx context.Context, session *UserSession, args []string) {
	session.pages.ItemPage = 1
	session.pages.ItemQuery = strings.Join(args, " ")
	h.showPage(ctx, session)
}

// HandleAddItemCommand handles /additem, which opens a guided form.
// Called from session worker - no locking needed.
func (h *ItemHandler) HandleAddItemCommand(session *UserSession) {
	session.itemForm.reset()
	session.itemForm.Adding = true
	session.reply(MsgItemFormPrompt)
}

// HandleCallback routes it:* callbacks.
// Called from session worker - no locking needed.
func (h *ItemHandler) HandleCallback(ctx context.Context, session *UserSession, query *tgbotapi.CallbackQuery) {
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
		session.pages.ItemPage = page
		h.showPage(ctx, session)
	case "edit":
		session.itemForm.reset()
		session.itemForm.EditID = parts[2]
		session.reply(MsgItemEditPrompt)
	case "profit":
		h.confirmProfitSync(session, parts[2])
	case "del":
		h.confirmDelete(session, parts[2])
	}
}

// HandleFormInput consumes item form text while an add or edit form is open.
// Returns true if the message was consumed.
// Called from session worker - no locking needed.
func (h *ItemHandler) HandleFormInput(ctx context.Context, session *UserSession, text string) bool {
	if !session.itemForm.active() {
		return false
	}

	if text == "/cancel" {
		session.itemForm.reset()
		session.reply(MsgCancelled)
		return true
	}
	if strings.HasPrefix(text, "/") {
		return false
	}

	if session.itemForm.Adding {
		fields, ok := parsePipeFields(text, 3)
		if !ok {
			session.reply(MsgItemFormInvalid)
			return true
		}
		price, err := strconv.Atoi(fields[2])
		if err != nil {
			session.reply(MsgItemFormInvalid)
			return true
		}
		h.confirmCreate(session, fields[0], fields[1], price)
		return true
	}

	fields, ok := parsePipeFields(text, 2)
	if !ok {
		session.reply(MsgItemEditInvalid)
		return true
	}
	price, err := strconv.Atoi(fields[1])
	if err != nil {
		session.reply(MsgItemEditInvalid)
		return true
	}
	h.confirmEdit(session, session.itemForm.EditID, fields[0], price)
	return true
}

func (h *ItemHandler) showPage(ctx context.Context, session *UserSession) {
	page := session.pages.ItemPage
	result, err := session.api.ListItems(ctx, page, session.pages.ItemQuery)
	if err != nil {
		session.replyWithError(err)
		return
	}

	if len(result.Items) == 0 {
		session.reply(MsgItemsEmpty)
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "*Items* (page %d, %d total)", page, result.Total)
	if session.pages.ItemQuery != "" {
		fmt.Fprintf(&sb, " matching `%s`", escapeMarkdown(session.pages.ItemQuery))
	}
	sb.WriteString("\n")

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, item := range result.Items {
		status := ""
		if item.IsActive == 0 {
			status = " _(inactive)_"
		}
		fmt.Fprintf(&sb, "`%s` %s — %d%s\n", escapeMarkdown(item.Code), escapeMarkdown(item.Name), item.Price, status)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✎ "+item.Code, "it:edit:"+item.ID),
			tgbotapi.NewInlineKeyboardButtonData("⇅ profit", "it:profit:"+item.Code),
			tgbotapi.NewInlineKeyboardButtonData("🗑", "it:del:"+item.ID),
		))
	}
	rows = append(rows, pageNavRow("it:p", page, result.Total, itemPageSize))

	msg := tgbotapi.NewMessage(session.userId, sb.String())
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	session.replyWithMessage(msg)
}

func (h *ItemHandler) confirmCreate(session *UserSession, code, name string, price int) {
	desc := fmt.Sprintf("Create item `%s` %s at %d?", escapeMarkdown(code), escapeMarkdown(name), price)
	req := session.confirm.Add("Create item", desc, func(ctx context.Context) {
		msg, err := session.api.CreateItem(ctx, grab.NewItem{
			Code:     code,
			Name:     name,
			Price:    price,
			IsActive: 1,
		})
		if err != nil {
			session.replyWithError(err)
			return
		}
		session.itemForm.reset()
		session.reply("%s", escapeMarkdown(msg))
	})
	h.sendConfirm(session, req)
}

func (h *ItemHandler) confirmEdit(session *UserSession, id, name string, price int) {
	desc := fmt.Sprintf("Update item to %s at %d?", escapeMarkdown(name), price)
	req := session.confirm.Add("Edit item", desc, func(ctx context.Context) {
		msg, err := session.api.UpdateItem(ctx, id, grab.UpdateItemParams{
			Name:  &name,
			Price: &price,
		})
		if err != nil {
			session.replyWithError(err)
			return
		}
		session.itemForm.reset()
		session.reply("%s", escapeMarkdown(msg))
	})
	h.sendConfirm(session, req)
}

// confirmProfitSync pushes one item's cost data to the profit service,
// keyed by SKU the way the connector expects.
func (h *ItemHandler) confirmProfitSync(session *UserSession, sku string) {
	desc := fmt.Sprintf("Sync profit data for `%s`?", escapeMarkdown(sku))
	req := session.confirm.Add("Sync profit", desc, func(ctx context.Context) {
		msg, err := session.api.SyncItemProfit(ctx, sku)
		if err != nil {
			session.replyWithError(err)
			return
		}
		session.reply(MsgProfitSynced, escapeMarkdown(msg))
	})
	h.sendConfirm(session, req)
}

func (h *ItemHandler) confirmDelete(session *UserSession, id string) {
	req := session.confirm.Add("Delete item", "Delete this item from the catalog?", func(ctx context.Context) {
		msg, err := session.api.DeleteItem(ctx, id)
		if err != nil {
			session.replyWithError(err)
			return
		}
		session.reply("%s", escapeMarkdown(msg))
	})
	h.sendConfirm(session, req)
}

func (h *ItemHandler) sendConfirm(session *UserSession, req *ConfirmRequest) {
	msg := tgbotapi.NewMessage(session.userId, req.Description)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = confirmKeyboard(req)
	session.replyWithMessage(msg)
}
