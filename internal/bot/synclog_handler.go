package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/grabsync/admin-bot/internal/grab"
)

const logPageSize = 10

// validLogTypes are the sync journals the connector keeps.
var validLogTypes = map[string]bool{
	"menu":    true,
	"order":   true,
	"webhook": true,
}

// SyncLogHandler drives the sync log and GrabMart log screens.
type SyncLogHandler struct {
	tg BotAPI
}

func NewSyncLogHandler(tg BotAPI) *SyncLogHandler {
	return &SyncLogHandler{tg: tg}
}

// HandleLogsCommand handles /logs <type>.
// Called from session worker - no locking needed.
func (h *SyncLogHandler) HandleLogsCommand(ctx context.Context, session *UserSession, args []string) {
	if len(args) == 0 || !validLogTypes[args[0]] {
		session.reply(MsgLogsUsage)
		return
	}
	session.pages.LogType = args[0]
	session.pages.LogPage = 1
	h.showLogPage(ctx, session)
}

// HandleMartLogsCommand handles /martlogs.
// Called from session worker - no locking needed.
func (h *SyncLogHandler) HandleMartLogsCommand(ctx context.Context, session *UserSession) {
	session.pages.MartPage = 1
	session.pages.MartMerchant = ""
	h.showMartPage(ctx, session)
}

// HandleLogCallback routes lg:* callbacks.
// Called from session worker - no locking needed.
func (h *SyncLogHandler) HandleLogCallback(ctx context.Context, session *UserSession, query *tgbotapi.CallbackQuery) {
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
		session.pages.LogPage = page
		h.showLogPage(ctx, session)
	case "names":
		h.showLogNames(ctx, session)
	}
}

// HandleMartCallback routes ml:* callbacks.
// Called from session worker - no locking needed.
func (h *SyncLogHandler) HandleMartCallback(ctx context.Context, session *UserSession, query *tgbotapi.CallbackQuery) {
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
		session.pages.MartPage = page
		h.showMartPage(ctx, session)
	case "merch":
		h.showMerchantFilter(ctx, session)
	case "pm":
		merchant := parts[2]
		if merchant == "-" {
			merchant = ""
		}
		session.pages.MartMerchant = merchant
		session.pages.MartPage = 1
		h.showMartPage(ctx, session)
	case "res":
		h.confirmResolve(session, parts[2])
	}
}

func (h *SyncLogHandler) showLogPage(ctx context.Context, session *UserSession) {
	logType := session.pages.LogType
	page := session.pages.LogPage
	result, err := session.api.ListSyncLogs(ctx, logType, grab.SyncLogFilter{
		Page:     page,
		PageSize: logPageSize,
	})
	if err != nil {
		session.replyWithError(err)
		return
	}

	if len(result.Logs) == 0 {
		session.reply(MsgLogsEmpty)
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "*%s logs* (page %d, %d total)\n", logType, page, result.Total)
	for _, entry := range result.Logs {
		fmt.Fprintf(&sb, "%s `%s` %s\n",
			escapeMarkdown(entry.CreatedAt), escapeMarkdown(entry.Status), escapeMarkdown(entry.Name))
	}

	rows := [][]tgbotapi.InlineKeyboardButton{
		pageNavRow("lg:p", page, result.Total, logPageSize),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("filter by name", "lg:names:-"),
		),
	}

	msg := tgbotapi.NewMessage(session.userId, sb.String())
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	session.replyWithMessage(msg)
}

func (h *SyncLogHandler) showLogNames(ctx context.Context, session *UserSession) {
	names, err := session.api.ListSyncLogNames(ctx, session.pages.LogType)
	if err != nil {
		session.replyWithError(err)
		return
	}

	if len(names) == 0 {
		session.reply(MsgLogsEmpty)
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "*Entry names in %s logs*\n", session.pages.LogType)
	for _, name := range names {
		fmt.Fprintf(&sb, "• `%s`\n", escapeMarkdown(name))
	}
	session.reply("%s", sb.String())
}

// showMerchantFilter lists the partner merchants present in the logs so the
// operator can narrow the listing to one of them.
func (h *SyncLogHandler) showMerchantFilter(ctx context.Context, session *UserSession) {
	merchants, err := session.api.ListPartnerMerchants(ctx)
	if err != nil {
		session.replyWithError(err)
		return
	}

	if len(merchants) == 0 {
		session.reply(MsgMerchantsEmpty)
		return
	}

	rows := [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("all merchants", "ml:pm:-"),
		),
	}
	for _, merchant := range merchants {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(merchant, "ml:pm:"+merchant),
		))
	}

	msg := tgbotapi.NewMessage(session.userId, "Filter GrabMart logs by partner merchant:")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	session.replyWithMessage(msg)
}

func (h *SyncLogHandler) showMartPage(ctx context.Context, session *UserSession) {
	page := session.pages.MartPage
	result, err := session.api.ListMartLogs(ctx, page, "", session.pages.MartMerchant)
	if err != nil {
		session.replyWithError(err)
		return
	}

	if len(result.Logs) == 0 {
		session.reply(MsgLogsEmpty)
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "*GrabMart logs* (page %d, %d total)", page, result.Total)
	if session.pages.MartMerchant != "" {
		fmt.Fprintf(&sb, " for merchant `%s`", escapeMarkdown(session.pages.MartMerchant))
	}
	sb.WriteString("\n")
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, entry := range result.Logs {
		fmt.Fprintf(&sb, "%s `%s` merchant %s\n",
			escapeMarkdown(entry.CreatedAt), escapeMarkdown(entry.Status), escapeMarkdown(entry.PartnerMerchantID))
		if entry.Status != "resolved" {
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("resolve "+entry.ID, "ml:res:"+entry.ID),
			))
		}
	}
	rows = append(rows, pageNavRow("ml:p", page, result.Total, logPageSize))
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("filter by merchant", "ml:merch:-"),
	))

	msg := tgbotapi.NewMessage(session.userId, sb.String())
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	session.replyWithMessage(msg)
}

func (h *SyncLogHandler) confirmResolve(session *UserSession, id string) {
	req := session.confirm.Add("Resolve log entry", "Mark this log entry as resolved?", func(ctx context.Context) {
		msg, err := session.api.ResolveMartLog(ctx, id)
		if err != nil {
			session.replyWithError(err)
			return
		}
		session.reply(MsgMartLogUpdated, escapeMarkdown(msg))
	})

	msg := tgbotapi.NewMessage(session.userId, req.Description)
	msg.ReplyMarkup = confirmKeyboard(req)
	session.replyWithMessage(msg)
}
