package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"github.com/grabsync/admin-bot/internal/bulkimport"
)

// ImportFlow tracks an in-progress /import conversation.
type ImportFlow struct {
	awaiting bool
}

func (f *ImportFlow) reset() {
	f.awaiting = false
}

// ImportHandler drives the bulk CSV import flow: template → upload → parse →
// validate → confirm → one batch create → report.
type ImportHandler struct {
	tg         BotAPI
	downloader *FileDownloader
	catHandler *CategoryHandler
}

func NewImportHandler(tg BotAPI, catHandler *CategoryHandler) *ImportHandler {
	return &ImportHandler{
		tg:         tg,
		downloader: NewFileDownloader(),
		catHandler: catHandler,
	}
}

// HandleImportCommand starts the import flow.
// Called from session worker - no locking needed.
func (h *ImportHandler) HandleImportCommand(session *UserSession) {
	session.importFlow.awaiting = true
	session.reply(MsgImportTemplate)
}

// HandleDocument processes an uploaded CSV document.
// Called from session worker - no locking needed.
func (h *ImportHandler) HandleDocument(ctx context.Context, session *UserSession, message *tgbotapi.Message) {
	if !session.importFlow.awaiting {
		session.reply(MsgImportNotAwaiting)
		return
	}

	data, err := h.downloader.DownloadFromTelegramFileID(ctx, h.tg.GetFileDirectURL, message.Document.FileID)
	if err != nil {
		log.Error().Err(err).Int64("userId", session.userId).Msg("document download failed")
		session.reply(MsgImportDownloadFail, err)
		return
	}

	h.process(session, string(data))
}

// HandleTextInput consumes pasted CSV text while an import is awaited.
// Returns true if the message was consumed.
// Called from session worker - no locking needed.
func (h *ImportHandler) HandleTextInput(session *UserSession, text string) bool {
	if !session.importFlow.awaiting {
		return false
	}
	if text == "/cancel" {
		session.importFlow.reset()
		session.reply(MsgCancelled)
		return true
	}
	if strings.HasPrefix(text, "/") {
		return false
	}

	h.process(session, text)
	return true
}

// process runs parse → validate → order. A single bad row rejects the whole
// batch with no connector call; a clean batch goes behind the confirmation
// gate and is submitted in one create.
func (h *ImportHandler) process(session *UserSession, text string) {
	result := bulkimport.Parse(text)
	if len(result.Rows) == 0 {
		session.reply(MsgImportEmptyFile)
		return
	}

	valid, rejected := bulkimport.Validate(result.Rows, bulkimport.RequiredCategoryFields)
	if len(rejected) > 0 {
		var sb strings.Builder
		for _, r := range rejected {
			fmt.Fprintf(&sb, "line %d: %s\n", r.Line, strings.Join(r.Messages, ", "))
		}
		session.reply(MsgImportRejected, escapeMarkdown(sb.String()))
		return
	}

	ordered := bulkimport.Order(valid)
	session.importFlow.reset()

	desc := formatReplyText(MsgImportPreview, len(ordered))
	req := session.confirm.Add("Bulk import", desc, func(ctx context.Context) {
		batch, err := session.api.CreateCategories(ctx, ordered)
		if err != nil {
			session.replyWithError(err)
			return
		}

		var sb strings.Builder
		sb.WriteString(formatReplyText(MsgImportResult, len(batch.Success), len(batch.Failed)))
		for _, row := range batch.Failed {
			fmt.Fprintf(&sb, "\n• `%s`: %s", escapeMarkdown(row.Code), escapeMarkdown(row.Reason))
		}
		session.reply("%s", sb.String())

		// Created rows stay created even when some failed; show the new state.
		if session.catView.msgID != 0 {
			if err := h.catHandler.refetch(ctx, session); err != nil {
				session.replyWithError(err)
				return
			}
			h.catHandler.render(session)
		}
	})

	msg := tgbotapi.NewMessage(session.userId, desc)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = confirmKeyboard(req)
	session.replyWithMessage(msg)
}
