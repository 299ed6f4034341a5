package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"github.com/grabsync/admin-bot/internal/storage"
)

// BotAPI defines the interface for Telegram bot API operations.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFileDirectURL(fileID string) (string, error)
}

// Bot is the main Telegram bot handler.
type Bot struct {
	tg           BotAPI
	state        BotState
	sessionStore storage.SessionStore
	adminID      int64
	apiURL       string

	// Handlers
	authHandler     *AuthHandler
	categoryHandler *CategoryHandler
	importHandler   *ImportHandler
	storeHandler    *StoreHandler
	itemHandler     *ItemHandler
	orderHandler    *OrderHandler
	syncLogHandler  *SyncLogHandler
	summaryHandler  *SummaryHandler
}

// NewBot creates a new Bot instance.
func NewBot(tg BotAPI, sessionStore storage.SessionStore, adminID int64, apiURL string) *Bot {
	bot := &Bot{
		tg:           tg,
		sessionStore: sessionStore,
		adminID:      adminID,
		apiURL:       apiURL,
	}

	bot.state = bot.NewBotState()
	bot.authHandler = NewAuthHandler()
	bot.categoryHandler = NewCategoryHandler(tg)
	bot.importHandler = NewImportHandler(tg, bot.categoryHandler)
	bot.storeHandler = NewStoreHandler(tg)
	bot.itemHandler = NewItemHandler(tg)
	bot.orderHandler = NewOrderHandler(tg)
	bot.syncLogHandler = NewSyncLogHandler(tg)
	bot.summaryHandler = NewSummaryHandler(tg)

	return bot
}

// Shutdown stops all session workers gracefully.
func (b *Bot) Shutdown() {
	b.state.Shutdown()
}

// HandleUpdate is the main message router.
// It dispatches messages to the appropriate session worker for sequential processing.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	b.dispatchUpdate(ctx, update, false)
}

// handleUpdateSync is like HandleUpdate but waits for message processing to complete.
// Used in tests where we need synchronous behavior.
func (b *Bot) handleUpdateSync(ctx context.Context, update tgbotapi.Update) {
	b.dispatchUpdate(ctx, update, true)
}

// dispatchUpdate routes updates to the appropriate session worker.
// If sync is true, it waits for message processing to complete.
func (b *Bot) dispatchUpdate(ctx context.Context, update tgbotapi.Update, sync bool) {
	var userId int64

	if update.CallbackQuery != nil {
		userId = update.CallbackQuery.From.ID
	} else if update.Message != nil {
		userId = update.Message.From.ID
	} else {
		return
	}

	// Check if user is allowed (admin always allowed)
	// MUST be before getUserSession to prevent memory exhaustion from random user IDs
	if userId != b.adminID {
		allowed, err := b.sessionStore.IsUserAllowed(userId)
		if err != nil {
			log.Error().Err(err).Int64("user_id", userId).Msg("whitelist check failed")
			return // Fail closed
		}
		if !allowed {
			return // Silent drop
		}
	}

	session, err := b.state.getUserSession(userId)
	if err != nil {
		log.Error().Err(err).Send()
		return
	}

	send := func(msg SessionMessage) {
		if sync {
			session.SendSync(msg)
		} else {
			session.Send(msg)
		}
	}

	if update.CallbackQuery != nil {
		send(SessionMessage{
			Type:          "callback",
			Ctx:           ctx,
			CallbackQuery: update.CallbackQuery,
		})
		return
	}

	if update.Message != nil {
		log.Info().Str("text", update.Message.Text).Msg("got message")

		if update.Message.Document != nil {
			send(SessionMessage{
				Type:    "document",
				Ctx:     ctx,
				Message: update.Message,
			})
		} else {
			send(SessionMessage{
				Type:    "text",
				Ctx:     ctx,
				Message: update.Message,
			})
		}
	}
}

// HandleSessionMessage implements MessageHandler interface.
// This is called by the session worker goroutine for sequential processing.
// No mutex locking is needed here since only one goroutine accesses session state.
func (b *Bot) HandleSessionMessage(ctx context.Context, session *UserSession, msg SessionMessage) {
	switch msg.Type {
	case "callback":
		b.handleCallbackQuery(ctx, session, msg.CallbackQuery)
	case "document":
		b.handleDocumentMessage(ctx, session, msg.Message)
	case "text":
		b.handleTextMessage(ctx, session, msg.Message)
	}
}

// handleDocumentMessage processes uploaded documents (bulk import CSVs).
// Called from session worker - no locking needed.
func (b *Bot) handleDocumentMessage(ctx context.Context, session *UserSession, message *tgbotapi.Message) {
	if !session.isLoggedIn() {
		session.reply(MsgLoginRequired)
		return
	}
	b.importHandler.HandleDocument(ctx, session, message)
}

// handleTextMessage processes text messages.
// Called from session worker - no locking needed.
func (b *Bot) handleTextMessage(ctx context.Context, session *UserSession, message *tgbotapi.Message) {
	// Handle auth flow
	if b.authHandler.HandleMessage(ctx, session, message.Text) {
		return
	}

	// Pasted CSV while an import is awaited
	if b.importHandler.HandleTextInput(session, message.Text) {
		return
	}

	// Open category add/edit forms
	if b.categoryHandler.HandleFormInput(ctx, session, message.Text) {
		return
	}

	// Open store and item forms
	if b.storeHandler.HandleFormInput(ctx, session, message.Text) {
		return
	}
	if b.itemHandler.HandleFormInput(ctx, session, message.Text) {
		return
	}

	b.handleCommand(ctx, session, message)
}

// handleCommand processes bot commands.
// Called from session worker - no locking needed.
func (b *Bot) handleCommand(ctx context.Context, session *UserSession, message *tgbotapi.Message) {
	command, args := parseCommand(message.Text)
	switch command {
	case "/start":
		if !session.isLoggedIn() {
			session.reply(MsgLoginRequired)
		} else {
			session.reply(MsgStartPrompt)
		}
	case "/help":
		session.reply(MsgHelp)
	case "/login":
		b.authHandler.HandleLoginCommand(session)
	case "/logout":
		b.authHandler.HandleLogoutCommand(session)
	case "/cancel":
		session.reset()
		session.reply(MsgOk)
	case "/categories":
		if b.requireLogin(session) {
			b.categoryHandler.HandleCategoriesCommand(ctx, session, args)
		}
	case "/addcat":
		if b.requireLogin(session) {
			b.categoryHandler.HandleAddCatCommand(ctx, session, args)
		}
	case "/import":
		if b.requireLogin(session) {
			b.importHandler.HandleImportCommand(session)
		}
	case "/stores":
		if b.requireLogin(session) {
			b.storeHandler.HandleStoresCommand(ctx, session)
		}
	case "/addstore":
		if b.requireLogin(session) {
			b.storeHandler.HandleAddStoreCommand(session)
		}
	case "/items":
		if b.requireLogin(session) {
			b.itemHandler.HandleItemsCommand(ctx, session, args)
		}
	case "/additem":
		if b.requireLogin(session) {
			b.itemHandler.HandleAddItemCommand(session)
		}
	case "/orders":
		if b.requireLogin(session) {
			b.orderHandler.HandleOrdersCommand(ctx, session, args)
		}
	case "/logs":
		if b.requireLogin(session) {
			b.syncLogHandler.HandleLogsCommand(ctx, session, args)
		}
	case "/martlogs":
		if b.requireLogin(session) {
			b.syncLogHandler.HandleMartLogsCommand(ctx, session)
		}
	case "/summary":
		if b.requireLogin(session) {
			b.summaryHandler.HandleSummaryCommand(ctx, session)
		}
	case "/admin":
		b.handleAdminCommand(session, strings.Join(args, " "))
	default:
		if !session.isLoggedIn() {
			session.reply(MsgLoginRequired)
			return
		}
		session.reply(MsgStartPrompt)
	}
}

func (b *Bot) requireLogin(session *UserSession) bool {
	if !session.isLoggedIn() {
		session.reply(MsgLoginRequired)
		return false
	}
	return true
}

// handleCallbackQuery handles inline keyboard button presses.
// Called from session worker - no locking needed.
func (b *Bot) handleCallbackQuery(ctx context.Context, session *UserSession, query *tgbotapi.CallbackQuery) {
	// Answer the callback to remove the loading state
	callback := tgbotapi.NewCallback(query.ID, "")
	b.tg.Request(callback)

	if strings.HasPrefix(query.Data, "confirm:") {
		b.handleConfirmCallback(ctx, session, query)
		return
	}

	// Data screens need a live login; stale keyboards can outlive a logout.
	if !session.isLoggedIn() {
		session.reply(MsgLoginRequired)
		return
	}

	switch {
	case strings.HasPrefix(query.Data, "ct:"):
		b.categoryHandler.HandleCallback(ctx, session, query)
	case strings.HasPrefix(query.Data, "st:"):
		b.storeHandler.HandleCallback(ctx, session, query)
	case strings.HasPrefix(query.Data, "it:"):
		b.itemHandler.HandleCallback(ctx, session, query)
	case strings.HasPrefix(query.Data, "or:"):
		b.orderHandler.HandleCallback(ctx, session, query)
	case strings.HasPrefix(query.Data, "lg:"):
		b.syncLogHandler.HandleLogCallback(ctx, session, query)
	case strings.HasPrefix(query.Data, "ml:"):
		b.syncLogHandler.HandleMartCallback(ctx, session, query)
	}
}

// handleConfirmCallback resolves confirm:<id>:yes|no presses. Each pending
// request resolves independently; a declined request is dropped without any
// connector call.
func (b *Bot) handleConfirmCallback(ctx context.Context, session *UserSession, query *tgbotapi.CallbackQuery) {
	parts := strings.SplitN(query.Data, ":", 3)
	if len(parts) != 3 {
		return
	}
	id, err := strconv.Atoi(parts[1])
	if err != nil {
		return
	}
	confirmed := parts[2] == "yes"

	if !session.confirm.Has(id) {
		session.reply(MsgConfirmExpired)
		return
	}

	// Remove the Yes/No keyboard so the request cannot be answered twice.
	if query.Message != nil {
		edit := tgbotapi.NewEditMessageReplyMarkup(
			query.Message.Chat.ID,
			query.Message.MessageID,
			tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}},
		)
		b.tg.Request(edit)
	}

	action := session.confirm.Resolve(id, confirmed)
	if action == nil {
		// Declined: silent abandonment.
		return
	}
	action(ctx)
}

// handleAdminCommand handles /admin command with subcommands.
// Only the admin user can use this command (defense in depth check).
func (b *Bot) handleAdminCommand(session *UserSession, args string) {
	// Defense in depth: verify caller is admin even though whitelist check passed
	if session.userId != b.adminID {
		return // Silent drop for non-admin users
	}

	parts := strings.Fields(args)
	if len(parts) == 0 {
		session.reply(MsgAdminUsage)
		return
	}

	switch parts[0] {
	case "users":
		if len(parts) < 2 {
			session.reply(MsgAdminUsage)
			return
		}
		b.handleAdminUsersCommand(session, parts[1], parts[2:])
	default:
		session.reply(MsgAdminUsage)
	}
}

// handleAdminUsersCommand handles /admin users subcommands.
func (b *Bot) handleAdminUsersCommand(session *UserSession, action string, args []string) {
	switch action {
	case "add":
		if len(args) < 1 {
			session.reply(MsgAdminUserAddUsage)
			return
		}
		userID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			session.reply(MsgAdminUserInvalidID)
			return
		}
		if err := b.sessionStore.AddAllowedUser(userID, session.userId); err != nil {
			session.replyWithError(err)
			return
		}
		session.reply(MsgAdminUserAdded, userID)

	case "remove":
		if len(args) < 1 {
			session.reply(MsgAdminUserRemoveUsage)
			return
		}
		userID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			session.reply(MsgAdminUserInvalidID)
			return
		}
		if err := b.sessionStore.RemoveAllowedUser(userID); err != nil {
			session.replyWithError(err)
			return
		}
		session.reply(MsgAdminUserRemoved, userID)

	case "list":
		users, err := b.sessionStore.GetAllowedUsers()
		if err != nil {
			session.replyWithError(err)
			return
		}
		if len(users) == 0 {
			session.reply(MsgAdminNoUsers)
			return
		}
		var sb strings.Builder
		sb.WriteString(MsgAdminAllowedUsers)
		for _, u := range users {
			sb.WriteString(fmt.Sprintf("• `%d` (added %s)\n", u.TelegramID, u.AddedAt.Format("2006-01-02")))
		}
		session.reply("%s", sb.String())

	default:
		session.reply(MsgAdminUsage)
	}
}
