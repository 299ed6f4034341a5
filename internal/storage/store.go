package storage

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// StoredSession is a persisted operator login.
type StoredSession struct {
	TelegramID  int64
	Email       string
	Token       string
	LastUpdated time.Time
}

// AllowedUser is a whitelist entry.
type AllowedUser struct {
	TelegramID int64
	AddedAt    time.Time
	AddedBy    int64
}

// SessionStore defines the interface for session persistence.
type SessionStore interface {
	Get(telegramID int64) (*StoredSession, error)
	Save(session *StoredSession) error
	Delete(telegramID int64) error
	Close() error

	IsUserAllowed(telegramID int64) (bool, error)
	AddAllowedUser(telegramID, addedBy int64) error
	RemoveAllowedUser(telegramID int64) error
	GetAllowedUsers() ([]AllowedUser, error)
}

// SQLiteStore implements SessionStore using SQLite. API tokens are stored
// AES-GCM encrypted.
type SQLiteStore struct {
	db            *sql.DB
	encryptionKey []byte
	mu            sync.RWMutex
}

// NewSQLiteStore opens (or creates) the database at dbPath. The encryptionKey
// encrypts token data at rest.
func NewSQLiteStore(dbPath string, encryptionKey []byte) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SQLiteStore{
		db:            db,
		encryptionKey: encryptionKey,
	}

	if err := store.init(); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) init() error {
	sessionsQuery := `
	CREATE TABLE IF NOT EXISTS sessions (
		telegram_id INTEGER PRIMARY KEY,
		email TEXT NOT NULL,
		encrypted_token TEXT NOT NULL,
		last_updated DATETIME NOT NULL
	);
	`
	if _, err := s.db.Exec(sessionsQuery); err != nil {
		return fmt.Errorf("failed to create sessions table: %w", err)
	}

	allowedUsersQuery := `
	CREATE TABLE IF NOT EXISTS allowed_users (
		telegram_id INTEGER PRIMARY KEY,
		added_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		added_by INTEGER
	);
	`
	if _, err := s.db.Exec(allowedUsersQuery); err != nil {
		return fmt.Errorf("failed to create allowed_users table: %w", err)
	}

	return nil
}

// Get retrieves a session by Telegram user ID.
// Returns nil, nil if the session doesn't exist.
func (s *SQLiteStore) Get(telegramID int64) (*StoredSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var email, encryptedToken string
	var lastUpdated time.Time

	err := s.db.QueryRow(
		"SELECT email, encrypted_token, last_updated FROM sessions WHERE telegram_id = ?",
		telegramID,
	).Scan(&email, &encryptedToken, &lastUpdated)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session: %w", err)
	}

	token, err := Decrypt(encryptedToken, s.encryptionKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt token: %w", err)
	}

	return &StoredSession{
		TelegramID:  telegramID,
		Email:       email,
		Token:       string(token),
		LastUpdated: lastUpdated,
	}, nil
}

// Save stores or updates a session.
func (s *SQLiteStore) Save(session *StoredSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	encryptedToken, err := Encrypt([]byte(session.Token), s.encryptionKey)
	if err != nil {
		return fmt.Errorf("failed to encrypt token: %w", err)
	}

	session.LastUpdated = time.Now()

	_, err = s.db.Exec(`
		INSERT INTO sessions (telegram_id, email, encrypted_token, last_updated)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(telegram_id) DO UPDATE SET
			email = excluded.email,
			encrypted_token = excluded.encrypted_token,
			last_updated = excluded.last_updated
	`, session.TelegramID, session.Email, encryptedToken, session.LastUpdated)

	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

// Delete removes a session by Telegram user ID.
func (s *SQLiteStore) Delete(telegramID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("DELETE FROM sessions WHERE telegram_id = ?", telegramID)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// IsUserAllowed checks if a user is in the whitelist.
func (s *SQLiteStore) IsUserAllowed(telegramID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM allowed_users WHERE telegram_id = ?",
		telegramID,
	).Scan(&count)

	if err != nil {
		return false, fmt.Errorf("failed to check allowed user: %w", err)
	}

	return count > 0, nil
}

// AddAllowedUser adds a user to the whitelist.
func (s *SQLiteStore) AddAllowedUser(telegramID, addedBy int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO allowed_users (telegram_id, added_by)
		VALUES (?, ?)
		ON CONFLICT(telegram_id) DO UPDATE SET
			added_by = excluded.added_by,
			added_at = CURRENT_TIMESTAMP
	`, telegramID, addedBy)

	if err != nil {
		return fmt.Errorf("failed to add allowed user: %w", err)
	}
	return nil
}

// RemoveAllowedUser removes a user from the whitelist.
func (s *SQLiteStore) RemoveAllowedUser(telegramID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("DELETE FROM allowed_users WHERE telegram_id = ?", telegramID)
	if err != nil {
		return fmt.Errorf("failed to remove allowed user: %w", err)
	}
	return nil
}

// GetAllowedUsers returns all users in the whitelist.
func (s *SQLiteStore) GetAllowedUsers() ([]AllowedUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT telegram_id, added_at, added_by FROM allowed_users ORDER BY added_at")
	if err != nil {
		return nil, fmt.Errorf("failed to query allowed users: %w", err)
	}
	defer rows.Close()

	var users []AllowedUser
	for rows.Next() {
		var user AllowedUser
		if err := rows.Scan(&user.TelegramID, &user.AddedAt, &user.AddedBy); err != nil {
			return nil, fmt.Errorf("failed to scan allowed user: %w", err)
		}
		users = append(users, user)
	}

	return users, rows.Err()
}
