package bot

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/grabsync/admin-bot/internal/storage"
)

const testAdminID = int64(1)

type botApiMock struct {
	mock.Mock
}

func (m *botApiMock) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	args := m.Called(c)
	return args.Get(0).(tgbotapi.Message), args.Error(1)
}

func (m *botApiMock) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	args := m.Called(c)
	return args.Get(0).(*tgbotapi.APIResponse), args.Error(1)
}

func (m *botApiMock) GetFileDirectURL(fileID string) (string, error) {
	args := m.Called(fileID)
	return args.Get(0).(string), args.Error(1)
}

// mockSessionStore implements storage.SessionStore for testing
type mockSessionStore struct {
	sessions map[int64]*storage.StoredSession
	allowed  map[int64]bool
}

func newMockSessionStore() *mockSessionStore {
	return &mockSessionStore{
		sessions: make(map[int64]*storage.StoredSession),
		allowed:  make(map[int64]bool),
	}
}

func (m *mockSessionStore) Get(telegramID int64) (*storage.StoredSession, error) {
	if s, ok := m.sessions[telegramID]; ok {
		return s, nil
	}
	return nil, nil
}

func (m *mockSessionStore) Save(session *storage.StoredSession) error {
	m.sessions[session.TelegramID] = session
	return nil
}

func (m *mockSessionStore) Delete(telegramID int64) error {
	delete(m.sessions, telegramID)
	return nil
}

func (m *mockSessionStore) Close() error {
	return nil
}

func (m *mockSessionStore) IsUserAllowed(telegramID int64) (bool, error) {
	return m.allowed[telegramID], nil
}

func (m *mockSessionStore) AddAllowedUser(telegramID, addedBy int64) error {
	m.allowed[telegramID] = true
	return nil
}

func (m *mockSessionStore) RemoveAllowedUser(telegramID int64) error {
	delete(m.allowed, telegramID)
	return nil
}

func (m *mockSessionStore) GetAllowedUsers() ([]storage.AllowedUser, error) {
	var users []storage.AllowedUser
	for id := range m.allowed {
		users = append(users, storage.AllowedUser{TelegramID: id})
	}
	return users, nil
}

// fakeConnector is an httptest server standing in for the connector API. It
// records every request so tests can assert which calls were (not) made.
type fakeConnector struct {
	ts *httptest.Server
	mu sync.Mutex

	requests []string
	handler  http.HandlerFunc
}

func newFakeConnector(t *testing.T, handler http.HandlerFunc) *fakeConnector {
	t.Helper()
	fc := &fakeConnector{handler: handler}
	fc.ts = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fc.mu.Lock()
		fc.requests = append(fc.requests, r.Method+" "+r.URL.Path)
		fc.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		fc.handler(w, r)
	}))
	t.Cleanup(fc.ts.Close)
	return fc
}

func (fc *fakeConnector) Requests() []string {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return append([]string(nil), fc.requests...)
}

func (fc *fakeConnector) CountRequests(methodAndPath string) int {
	n := 0
	for _, r := range fc.Requests() {
		if r == methodAndPath {
			n++
		}
	}
	return n
}

// treeConnectorHandler serves a two-level category tree and accepts all
// category mutations.
func treeConnectorHandler(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == "GET" && r.URL.Path == "/categories":
		w.Write([]byte(`{"data":[
			{"id":"1","code":"drinks","name":"Drinks","parent_category_id":null,"is_active":1,"sub_category":[
				{"id":"2","code":"soda","name":"Soda","parent_category_id":"1","is_active":1,"sub_category":[]}
			]},
			{"id":"3","code":"snacks","name":"Snacks","parent_category_id":null,"is_active":0,"sub_category":[]}
		]}`))
	case r.Method == "POST" && r.URL.Path == "/categories":
		w.Write([]byte(`{"data":{"success":[{"code":"new"}],"failed":[]}}`))
	case r.Method == "PUT":
		w.Write([]byte(`{"message":"updated"}`))
	case r.Method == "DELETE":
		w.Write([]byte(`{"message":"deleted"}`))
	default:
		w.Write([]byte(`{}`))
	}
}

// setup builds a bot with a logged-in admin session talking to the fake
// connector. The Telegram mock accepts any send by default.
func setup(t *testing.T, handler http.HandlerFunc) (*fakeConnector, *botApiMock, *Bot, *UserSession) {
	t.Helper()
	fc := newFakeConnector(t, handler)
	tg := new(botApiMock)
	tg.On("Send", mock.Anything).Return(tgbotapi.Message{MessageID: 42}, nil).Maybe()
	tg.On("Request", mock.Anything).Return(&tgbotapi.APIResponse{Ok: true}, nil).Maybe()

	store := newMockSessionStore()
	store.sessions[testAdminID] = &storage.StoredSession{
		TelegramID: testAdminID,
		Email:      "ops@example.com",
		Token:      "Bearer test-token",
	}

	b := NewBot(tg, store, testAdminID, fc.ts.URL)
	t.Cleanup(b.Shutdown)

	session, err := b.state.getUserSession(testAdminID)
	if err != nil {
		t.Fatal(err)
	}

	return fc, tg, b, session
}

func makeUpdateWithMessageText(userId int64, text string) tgbotapi.Update {
	return tgbotapi.Update{
		Message: &tgbotapi.Message{
			From: &tgbotapi.User{
				ID: userId,
			},
			Text: text,
		},
	}
}

func makeCallbackUpdate(userId int64, data string) tgbotapi.Update {
	return tgbotapi.Update{
		CallbackQuery: &tgbotapi.CallbackQuery{
			ID:   "cb-1",
			From: &tgbotapi.User{ID: userId},
			Message: &tgbotapi.Message{
				MessageID: 42,
				Chat:      &tgbotapi.Chat{ID: userId},
			},
			Data: data,
		},
	}
}

func makeMessage(userId int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(userId, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	return msg
}

func TestHandleUpdate_UnauthenticatedUser(t *testing.T) {
	fc := newFakeConnector(t, treeConnectorHandler)
	tg := new(botApiMock)
	store := newMockSessionStore() // no stored token for the admin

	b := NewBot(tg, store, testAdminID, fc.ts.URL)
	defer b.Shutdown()

	tg.On("Send", makeMessage(testAdminID, MsgLoginRequired)).Return(tgbotapi.Message{}, nil).Once()

	b.handleUpdateSync(context.Background(), makeUpdateWithMessageText(testAdminID, "/categories"))
	tg.AssertExpectations(t)
	assert.Empty(t, fc.Requests())
}

func TestHandleUpdate_UnknownUserSilentlyDropped(t *testing.T) {
	fc := newFakeConnector(t, treeConnectorHandler)
	tg := new(botApiMock)
	store := newMockSessionStore()

	b := NewBot(tg, store, testAdminID, fc.ts.URL)
	defer b.Shutdown()

	// No Send expectation: nothing should happen for an unlisted user.
	b.handleUpdateSync(context.Background(), makeUpdateWithMessageText(999, "/start"))
	tg.AssertExpectations(t)
}

func TestHandleUpdate_WhitelistedUserAllowed(t *testing.T) {
	fc := newFakeConnector(t, treeConnectorHandler)
	tg := new(botApiMock)
	store := newMockSessionStore()
	store.allowed[7] = true

	b := NewBot(tg, store, testAdminID, fc.ts.URL)
	defer b.Shutdown()

	tg.On("Send", makeMessage(int64(7), MsgLoginRequired)).Return(tgbotapi.Message{}, nil).Once()

	b.handleUpdateSync(context.Background(), makeUpdateWithMessageText(7, "/start"))
	tg.AssertExpectations(t)
}

func TestHandleUpdate_LoggedInStart(t *testing.T) {
	_, tg, b, _ := setup(t, treeConnectorHandler)

	b.handleUpdateSync(context.Background(), makeUpdateWithMessageText(testAdminID, "/start"))

	tg.AssertCalled(t, "Send", makeMessage(testAdminID, formatReplyText(MsgStartPrompt)))
}

func TestAdminCommand_NonAdminSilentlyDropped(t *testing.T) {
	fc := newFakeConnector(t, treeConnectorHandler)
	tg := new(botApiMock)
	store := newMockSessionStore()
	store.allowed[7] = true

	b := NewBot(tg, store, testAdminID, fc.ts.URL)
	defer b.Shutdown()

	// No Send expectation: /admin from a non-admin yields no reply at all.
	b.handleUpdateSync(context.Background(), makeUpdateWithMessageText(7, "/admin users list"))
	tg.AssertExpectations(t)
}

func TestAdminCommand_AddAndListUsers(t *testing.T) {
	fc := newFakeConnector(t, treeConnectorHandler)
	tg := new(botApiMock)
	store := newMockSessionStore()

	b := NewBot(tg, store, testAdminID, fc.ts.URL)
	defer b.Shutdown()

	tg.On("Send", mock.Anything).Return(tgbotapi.Message{}, nil)

	b.handleUpdateSync(context.Background(), makeUpdateWithMessageText(testAdminID, "/admin users add 7"))

	allowed, err := store.IsUserAllowed(7)
	assert.NoError(t, err)
	assert.True(t, allowed)
}

func TestLoginFlow(t *testing.T) {
	fc := newFakeConnector(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == "POST" && r.URL.Path == "/auth/login" {
			w.Write([]byte(`{"data":{"token":"tok-123"}}`))
			return
		}
		w.Write([]byte(`{}`))
	})
	tg := new(botApiMock)
	tg.On("Send", mock.Anything).Return(tgbotapi.Message{}, nil)
	store := newMockSessionStore()

	b := NewBot(tg, store, testAdminID, fc.ts.URL)
	defer b.Shutdown()

	ctx := context.Background()
	b.handleUpdateSync(ctx, makeUpdateWithMessageText(testAdminID, "/login"))
	b.handleUpdateSync(ctx, makeUpdateWithMessageText(testAdminID, "ops@example.com"))
	b.handleUpdateSync(ctx, makeUpdateWithMessageText(testAdminID, "hunter2"))

	assert.Equal(t, 1, fc.CountRequests("POST /auth/login"))

	session, _ := b.state.getUserSession(testAdminID)
	assert.True(t, session.IsLoggedIn())

	// Token persisted for the next process start
	stored, err := store.Get(testAdminID)
	assert.NoError(t, err)
	assert.NotNil(t, stored)
	assert.Equal(t, "Bearer tok-123", stored.Token)
	assert.Equal(t, "ops@example.com", stored.Email)
}

func TestLogout(t *testing.T) {
	_, tg, b, session := setup(t, treeConnectorHandler)

	b.handleUpdateSync(context.Background(), makeUpdateWithMessageText(testAdminID, "/logout"))

	assert.False(t, session.IsLoggedIn())
	tg.AssertCalled(t, "Send", makeMessage(testAdminID, MsgLoggedOut))

	// The persisted session is gone too, so a restart stays logged out.
	stored, err := b.sessionStore.Get(testAdminID)
	assert.NoError(t, err)
	assert.Nil(t, stored)
}
