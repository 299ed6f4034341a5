package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/grabsync/admin-bot/internal/grab"
)

const storePageSize = 5

// StoreForm tracks an open store add/edit form. Adding and EditID are
// mutually exclusive.
type StoreForm struct {
	Adding bool
	EditID string
}

func (f *StoreForm) active() bool {
	return f.Adding || f.EditID != ""
}

func (f *StoreForm) reset() {
	f.Adding = false
	f.EditID = ""
}

// StoreHandler drives the store list and detail screens.
type StoreHandler struct {
	tg BotAPI
}

func NewStoreHandler(tg BotAPI) *StoreHandler {
	return &StoreHandler{tg: tg}
}

// HandleStoresCommand handles /stores.
// Called from session worker - no locking needed.
func (h *StoreHandler) HandleStoresCommand(ctx context.Context, session *UserSession) {
	session.pages.StorePage = 1
	h.showPage(ctx, session)
}

// HandleAddStoreCommand handles /addstore, which opens a guided form.
// Called from session worker - no locking needed.
func (h *StoreHandler) HandleAddStoreCommand(session *UserSession) {
	session.storeForm.reset()
	session.storeForm.Adding = true
	session.reply(MsgStoreFormPrompt)
}

// HandleCallback routes st:* callbacks.
// Called from session worker - no locking needed.
func (h *StoreHandler) HandleCallback(ctx context.Context, session *UserSession, query *tgbotapi.CallbackQuery) {
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
		session.pages.StorePage = page
		h.showPage(ctx, session)
	case "view":
		h.showDetail(ctx, session, parts[2])
	case "edit":
		session.storeForm.reset()
		session.storeForm.EditID = parts[2]
		session.reply(MsgStoreEditPrompt)
	case "del":
		h.confirmDelete(session, parts[2])
	case "sync":
		h.confirmResync(session, parts[2])
	case "menu":
		h.showMenu(ctx, session, parts[2])
	case "mdel":
		h.confirmRemoveMenuItem(session, parts[2])
	}
}

// HandleFormInput consumes store form text while an add or edit form is open.
// Returns true if the message was consumed.
// Called from session worker - no locking needed.
func (h *StoreHandler) HandleFormInput(ctx context.Context, session *UserSession, text string) bool {
	if !session.storeForm.active() {
		return false
	}

	if text == "/cancel" {
		session.storeForm.reset()
		session.reply(MsgCancelled)
		return true
	}
	if strings.HasPrefix(text, "/") {
		return false
	}

	if session.storeForm.Adding {
		fields, ok := parsePipeFields(text, 3)
		if !ok {
			session.reply(MsgStoreFormInvalid)
			return true
		}
		h.confirmCreate(session, fields[0], fields[1], fields[2])
		return true
	}

	fields, ok := parsePipeFields(text, 2)
	if !ok {
		session.reply(MsgStoreEditInvalid)
		return true
	}
	h.confirmEdit(session, session.storeForm.EditID, fields[0], fields[1])
	return true
}

func (h *StoreHandler) showPage(ctx context.Context, session *UserSession) {
	page := session.pages.StorePage
	result, err := session.api.ListStores(ctx, page, storePageSize)
	if err != nil {
		session.replyWithError(err)
		return
	}

	if len(result.Stores) == 0 {
		session.reply(MsgStoresEmpty)
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "*Stores* (page %d, %d total)\n", page, result.Total)
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, store := range result.Stores {
		status := ""
		if store.IsActive == 0 {
			status = " _(inactive)_"
		}
		fmt.Fprintf(&sb, "`%s` %s%s\n", escapeMarkdown(store.Code), escapeMarkdown(store.Name), status)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("ℹ "+store.Code, "st:view:"+store.ID),
			tgbotapi.NewInlineKeyboardButtonData("⟳", "st:sync:"+store.ID),
			tgbotapi.NewInlineKeyboardButtonData("menu", "st:menu:"+store.MerchantID),
		))
	}
	rows = append(rows, pageNavRow("st:p", page, result.Total, storePageSize))

	msg := tgbotapi.NewMessage(session.userId, sb.String())
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	session.replyWithMessage(msg)
}

// showDetail renders one store with its edit and delete actions.
func (h *StoreHandler) showDetail(ctx context.Context, session *UserSession, id string) {
	store, err := session.api.GetStore(ctx, id)
	if err != nil {
		session.replyWithError(err)
		return
	}
	if store.ID == "" {
		session.reply(MsgStoreNotFound)
		return
	}

	active := "active"
	if store.IsActive == 0 {
		active = "inactive"
	}
	text := formatReplyText(`
		*%s*
		Code: `+"`%s`"+`
		Merchant: `+"`%s`"+`
		Address: %s
		Status: %s
	`, escapeMarkdown(store.Name), escapeMarkdown(store.Code),
		escapeMarkdown(store.MerchantID), escapeMarkdown(store.Address), active)

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Edit", "st:edit:"+store.ID),
			tgbotapi.NewInlineKeyboardButtonData("Delete", "st:del:"+store.ID),
		),
	)

	msg := tgbotapi.NewMessage(session.userId, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = keyboard
	session.replyWithMessage(msg)
}

func (h *StoreHandler) confirmCreate(session *UserSession, code, name, merchantID string) {
	desc := fmt.Sprintf("Create store `%s` %s for merchant `%s`?",
		escapeMarkdown(code), escapeMarkdown(name), escapeMarkdown(merchantID))
	req := session.confirm.Add("Create store", desc, func(ctx context.Context) {
		msg, err := session.api.CreateStore(ctx, grab.NewStore{
			Code:       code,
			Name:       name,
			MerchantID: merchantID,
			IsActive:   1,
		})
		if err != nil {
			session.replyWithError(err)
			return
		}
		session.storeForm.reset()
		session.reply("%s", escapeMarkdown(msg))
	})
	h.sendConfirm(session, req)
}

func (h *StoreHandler) confirmEdit(session *UserSession, id, name, address string) {
	desc := fmt.Sprintf("Update store to %s, %s?", escapeMarkdown(name), escapeMarkdown(address))
	req := session.confirm.Add("Edit store", desc, func(ctx context.Context) {
		msg, err := session.api.UpdateStore(ctx, id, grab.UpdateStoreParams{
			Name:    &name,
			Address: &address,
		})
		if err != nil {
			session.replyWithError(err)
			return
		}
		session.storeForm.reset()
		session.reply("%s", escapeMarkdown(msg))
	})
	h.sendConfirm(session, req)
}

func (h *StoreHandler) confirmDelete(session *UserSession, id string) {
	req := session.confirm.Add("Delete store", "Delete this store from the connector?", func(ctx context.Context) {
		msg, err := session.api.DeleteStore(ctx, id)
		if err != nil {
			session.replyWithError(err)
			return
		}
		session.reply("%s", escapeMarkdown(msg))
	})
	h.sendConfirm(session, req)
}

func (h *StoreHandler) confirmResync(session *UserSession, id string) {
	req := session.confirm.Add("Resync store", "Push this store's catalog to Grab again?", func(ctx context.Context) {
		msg, err := session.api.ResyncStore(ctx, id)
		if err != nil {
			session.replyWithError(err)
			return
		}
		session.reply(MsgResyncDone, escapeMarkdown(msg))
	})
	h.sendConfirm(session, req)
}

// confirmRemoveMenuItem drops a store-scoped item override.
func (h *StoreHandler) confirmRemoveMenuItem(session *UserSession, id string) {
	req := session.confirm.Add("Remove menu item", "Remove this item from the store's Grab menu?", func(ctx context.Context) {
		msg, err := session.api.DeleteStoreItem(ctx, id)
		if err != nil {
			session.replyWithError(err)
			return
		}
		session.reply("%s", escapeMarkdown(msg))
	})
	h.sendConfirm(session, req)
}

func (h *StoreHandler) showMenu(ctx context.Context, session *UserSession, merchantID string) {
	items, err := session.api.GetStoreMenu(ctx, merchantID)
	if err != nil {
		session.replyWithError(err)
		return
	}

	if len(items) == 0 {
		session.reply(MsgItemsEmpty)
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "*Grab menu* for `%s`\n", escapeMarkdown(merchantID))
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, item := range items {
		marker := "✓"
		if !item.Available {
			marker = "✗"
		}
		fmt.Fprintf(&sb, "%s %s — %d\n", marker, escapeMarkdown(item.Name), item.Price)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("remove "+item.Name, "st:mdel:"+item.ID),
		))
	}

	msg := tgbotapi.NewMessage(session.userId, sb.String())
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	session.replyWithMessage(msg)
}

func (h *StoreHandler) sendConfirm(session *UserSession, req *ConfirmRequest) {
	msg := tgbotapi.NewMessage(session.userId, req.Description)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = confirmKeyboard(req)
	session.replyWithMessage(msg)
}

// pageNavRow builds a ‹ page › navigation row for list screens.
func pageNavRow(prefix string, page, total, pageSize int) []tgbotapi.InlineKeyboardButton {
	var row []tgbotapi.InlineKeyboardButton
	if page > 1 {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("‹", fmt.Sprintf("%s:%d", prefix, page-1)))
	}
	row = append(row, tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("· %d ·", page), fmt.Sprintf("%s:%d", prefix, page)))
	if total == 0 || page*pageSize < total {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("›", fmt.Sprintf("%s:%d", prefix, page+1)))
	}
	return row
}
