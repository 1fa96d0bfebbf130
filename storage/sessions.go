package storage

import (
	"context"
	"errors"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"prereview/models"
	"prereview/types"
)

// ErrSessionNotFound meldet eine unbekannte oder gelöschte Session.
var ErrSessionNotFound = errors.New("session not found")

// SessionStore speichert JSON-Payloads unter einer Session-ID.
type SessionStore interface {
	Load(ctx context.Context, id types.Uuid) ([]byte, error)
	Save(ctx context.Context, id types.Uuid, payload []byte) error
	Delete(ctx context.Context, id types.Uuid) error
}

// GormSessionStore hält Sessions in der Tabelle sessions.
type GormSessionStore struct {
	DB *gorm.DB
}

func NewGormSessionStore(db *gorm.DB) *GormSessionStore {
	return &GormSessionStore{DB: db}
}

func (s *GormSessionStore) Load(ctx context.Context, id types.Uuid) ([]byte, error) {
	var session models.Session
	err := s.DB.WithContext(ctx).Where("id = ?", id.String()).First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(session.Payload), nil
}

// Save legt die Session an oder überschreibt ihren Payload.
func (s *GormSessionStore) Save(ctx context.Context, id types.Uuid, payload []byte) error {
	session := models.Session{ID: id.String(), Payload: string(payload)}
	return s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&session).Error
}

func (s *GormSessionStore) Delete(ctx context.Context, id types.Uuid) error {
	return s.DB.WithContext(ctx).Where("id = ?", id.String()).Delete(&models.Session{}).Error
}

// MemorySessionStore ist der Store ohne Datenbank. Sessions überleben keinen
// Neustart.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[types.Uuid][]byte
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: map[types.Uuid][]byte{}}
}

func (s *MemorySessionStore) Load(_ context.Context, id types.Uuid) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	payload, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return append([]byte(nil), payload...), nil
}

func (s *MemorySessionStore) Save(_ context.Context, id types.Uuid, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = append([]byte(nil), payload...)
	return nil
}

func (s *MemorySessionStore) Delete(_ context.Context, id types.Uuid) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

var (
	_ SessionStore = (*GormSessionStore)(nil)
	_ SessionStore = (*MemorySessionStore)(nil)
)
