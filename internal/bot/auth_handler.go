package bot

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/grabsync/admin-bot/internal/storage"
)

// AuthState represents the login flow state.
type AuthState int

const (
	AuthStateNone AuthState = iota
	AuthStateAwaitingEmail
	AuthStateAwaitingPassword
)

// authFlowTimeout is how long a login flow may sit idle before it is
// abandoned.
const authFlowTimeout = 5 * time.Minute

// AuthFlow tracks an in-progress /login conversation.
type AuthFlow struct {
	State        AuthState
	Email        string
	LastActivity time.Time
}

func NewAuthFlow() *AuthFlow {
	return &AuthFlow{}
}

func (f *AuthFlow) IsActive() bool {
	return f.State != AuthStateNone
}

func (f *AuthFlow) IsTimedOut() bool {
	return f.IsActive() && time.Since(f.LastActivity) > authFlowTimeout
}

func (f *AuthFlow) Touch() {
	f.LastActivity = time.Now()
}

func (f *AuthFlow) Reset() {
	f.State = AuthStateNone
	f.Email = ""
}

// AuthHandler handles the operator login flow. Persistence goes through the
// session's own store so restarts restore the operator's token.
type AuthHandler struct{}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

// HandleLoginCommand starts the login flow.
// Called from session worker - no locking needed.
func (h *AuthHandler) HandleLoginCommand(session *UserSession) {
	if session.isLoggedIn() {
		session.reply(MsgLoginAlreadyLoggedIn, session.email)
		return
	}

	session.authFlow.State = AuthStateAwaitingEmail
	session.authFlow.Touch()
	session.reply(MsgLoginPromptEmail)
}

// HandleLogoutCommand clears the stored session.
// Called from session worker - no locking needed.
func (h *AuthHandler) HandleLogoutCommand(session *UserSession) {
	session.api.SetAuth("")
	session.email = ""
	if session.store != nil {
		if err := session.store.Delete(session.userId); err != nil {
			session.replyWithError(err)
			return
		}
	}
	session.reply(MsgLoggedOut)
}

// HandleMessage handles text input during the login flow.
// Returns true if the message was consumed by the flow.
// Called from session worker - no locking needed.
func (h *AuthHandler) HandleMessage(ctx context.Context, session *UserSession, text string) bool {
	if session.authFlow.IsTimedOut() {
		session.authFlow.Reset()
		session.reply(MsgLoginCancelled)
		return true
	}

	if !session.authFlow.IsActive() {
		return false
	}

	if text == "/cancel" {
		session.authFlow.Reset()
		session.reply(MsgLoginCancelled)
		return true
	}

	session.authFlow.Touch()

	switch session.authFlow.State {
	case AuthStateAwaitingEmail:
		session.authFlow.Email = text
		session.authFlow.State = AuthStateAwaitingPassword
		session.reply(MsgLoginPromptPassword)
	case AuthStateAwaitingPassword:
		h.finishLogin(ctx, session, text)
	}

	return true
}

func (h *AuthHandler) finishLogin(ctx context.Context, session *UserSession, password string) {
	email := session.authFlow.Email
	session.authFlow.Reset()

	token, err := session.api.Login(ctx, email, password)
	if err != nil {
		log.Error().Err(err).Int64("userId", session.userId).Msg("login failed")
		session.reply(MsgLoginFailed, err)
		return
	}

	session.api.SetAuth(token)
	session.email = email

	if session.store != nil {
		err := session.store.Save(&storage.StoredSession{
			TelegramID: session.userId,
			Email:      email,
			Token:      token,
		})
		if err != nil {
			log.Error().Err(err).Int64("userId", session.userId).Msg("failed to persist session")
		}
	}

	log.Info().Int64("userId", session.userId).Str("email", email).Msg("operator logged in")
	session.reply(MsgLoginSuccess, escapeMarkdown(email))
}
