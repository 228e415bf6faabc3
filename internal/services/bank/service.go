package bank

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmota/tagbank/internal/dependencies/clock"
	"github.com/dmota/tagbank/internal/model"
	"github.com/dmota/tagbank/internal/storage"
)

// Errors
var (
	ErrWrongPassword  = errors.New("wrong bank password")
	ErrInvalidSession = errors.New("invalid or expired bank session")
)

// Session represents an authenticated bank admin session
type Session struct {
	Token     string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Service gates the bank screen behind the shared table password.
// The password is a friction gate between players, not a security
// boundary, but it is still stored as a bcrypt hash and exchanged for a
// session token rather than replayed on every request.
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session

	sessionDuration time.Duration
}

// Config holds configuration for the bank service
type Config struct {
	SessionDuration time.Duration
}

// DefaultConfig returns default bank configuration
func DefaultConfig() Config {
	return Config{
		SessionDuration: 8 * time.Hour,
	}
}

// New creates a new bank Service
func New(store storage.Storage, clk clock.Clock, cfg Config, logger *slog.Logger) *Service {
	if cfg.SessionDuration == 0 {
		cfg.SessionDuration = DefaultConfig().SessionDuration
	}
	return &Service{
		storage:         store,
		clock:           clk,
		logger:          logger,
		sessions:        make(map[string]*Session),
		sessionDuration: cfg.SessionDuration,
	}
}

// settings loads stored settings, lazily hashing the default password
// the first time nothing is stored yet
func (s *Service) settings(ctx context.Context) (*model.Settings, error) {
	settings, err := s.storage.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	if settings.BankPasswordHash == "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(model.DefaultBankPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		settings.BankPasswordHash = string(hash)
		if err := s.storage.SaveSettings(ctx, settings); err != nil {
			s.logger.Warn("settings save failed", slog.String("error", err.Error()))
		}
	}
	return settings, nil
}

// Settings returns the current table settings
func (s *Service) Settings(ctx context.Context) (*model.Settings, error) {
	return s.settings(ctx)
}

// SetInitialBalance updates the starting grant for future registrations
// and resets
func (s *Service) SetInitialBalance(ctx context.Context, balance int64) error {
	if balance <= 0 {
		return model.ErrInvalidAmount
	}
	settings, err := s.settings(ctx)
	if err != nil {
		return err
	}
	settings.InitialBalance = balance
	return s.storage.SaveSettings(ctx, settings)
}

// ChangePassword replaces the bank password. All sessions stay valid;
// the table admin just changed their own gate.
func (s *Service) ChangePassword(ctx context.Context, current, next string) error {
	settings, err := s.settings(ctx)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(settings.BankPasswordHash), []byte(current)) != nil {
		return ErrWrongPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	settings.BankPasswordHash = string(hash)
	return s.storage.SaveSettings(ctx, settings)
}

// Login exchanges the bank password for a session token
func (s *Service) Login(ctx context.Context, password string) (*Session, error) {
	settings, err := s.settings(ctx)
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(settings.BankPasswordHash), []byte(password)) != nil {
		s.logger.Info("bank login rejected")
		return nil, ErrWrongPassword
	}

	now := s.clock.Now()
	session := &Session{
		Token:     generateToken(),
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionDuration),
	}

	s.mu.Lock()
	s.sessions[session.Token] = session
	s.mu.Unlock()

	s.logger.Info("bank session created")
	return session, nil
}

// Verify checks a session token
func (s *Service) Verify(token string) error {
	s.mu.RLock()
	session, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok {
		return ErrInvalidSession
	}
	if s.clock.Now().After(session.ExpiresAt) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return ErrInvalidSession
	}
	return nil
}

// Logout removes a session token
func (s *Service) Logout(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// generateToken creates a random session token
func generateToken() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return base64.URLEncoding.EncodeToString(b)
}
