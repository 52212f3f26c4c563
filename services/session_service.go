package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/intradesk/helpdesk-api/model"
	"gorm.io/gorm"
)

// SessionService owns the lifecycle of conversation sessions and their
// message history.
type SessionService struct {
	db *gorm.DB
}

// NewSessionService creates a new session service
func NewSessionService(db *gorm.DB) *SessionService {
	return &SessionService{db: db}
}

// GetOrCreate looks a session up by its client-held key, creating it on first
// contact. An existing session gets its last-activity timestamp refreshed; a
// session idle past the retention window is reused as a fresh shell with its
// history dropped. Concurrent first calls with the same key race on the
// unique index; the loser re-reads the winner's row.
func (s *SessionService) GetOrCreate(ctx context.Context, sessionKey string) (*model.ChatSession, error) {
	now := time.Now()

	var session model.ChatSession
	err := s.db.WithContext(ctx).Where("session_key = ?", sessionKey).First(&session).Error
	if err == nil {
		if session.IsExpired(now) {
			// Lazy retention: treat the stale session as new rather than
			// handing back a day-old conversation.
			if err := s.resetSession(ctx, &session, now); err != nil {
				return nil, err
			}
			return &session, nil
		}

		if err := s.db.WithContext(ctx).Model(&session).
			Update("last_activity_at", now).Error; err != nil {
			return nil, fmt.Errorf("failed to refresh session activity: %w", err)
		}
		session.LastActivityAt = now
		return &session, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to fetch session: %w", err)
	}

	session = model.ChatSession{
		SessionKey:     sessionKey,
		LastActivityAt: now,
	}

	if err := s.db.WithContext(ctx).Create(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the creation race; the winner's row is authoritative.
			if err := s.db.WithContext(ctx).
				Where("session_key = ?", sessionKey).First(&session).Error; err != nil {
				return nil, fmt.Errorf("failed to fetch session after create race: %w", err)
			}
			return &session, nil
		}
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &session, nil
}

// resetSession clears an expired session's history and counters in place.
func (s *SessionService) resetSession(ctx context.Context, session *model.ChatSession, now time.Time) error {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}

	if err := tx.Where("session_id = ?", session.ID).
		Delete(&model.ChatMessage{}).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to drop expired session messages: %w", err)
	}

	if err := tx.Model(session).Updates(map[string]interface{}{
		"message_count":    0,
		"last_activity_at": now,
	}).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to reset expired session: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("failed to commit session reset: %w", err)
	}

	session.MessageCount = 0
	session.LastActivityAt = now
	return nil
}

// History returns up to limit most-recent messages in chronological order.
// Retrieval is by recency but the returned slice is oldest-first, since it
// feeds straight into prompt assembly.
func (s *SessionService) History(ctx context.Context, sessionKey string, limit int) ([]model.ChatMessage, error) {
	session, err := s.lookup(ctx, sessionKey)
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = 20
	}

	var messages []model.ChatMessage
	if err := s.db.WithContext(ctx).
		Where("session_id = ?", session.ID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch conversation history: %w", err)
	}

	// Reverse into chronological order
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}

// Append creates a message row, bumps the session's message count and
// refreshes its last activity.
func (s *SessionService) Append(ctx context.Context, sessionKey string, role model.MessageRole, content string) (*model.ChatMessage, error) {
	session, err := s.lookup(ctx, sessionKey)
	if err != nil {
		return nil, err
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}

	message := model.ChatMessage{
		SessionID: session.ID,
		Role:      role,
		Content:   content,
	}

	if err := tx.Create(&message).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to save message: %w", err)
	}

	if err := tx.Model(&model.ChatSession{}).Where("id = ?", session.ID).
		Updates(map[string]interface{}{
			"message_count":    gorm.Expr("message_count + ?", 1),
			"last_activity_at": time.Now(),
		}).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit message: %w", err)
	}

	return &message, nil
}

// Clear deletes all messages for the session and resets its message count.
// The session row itself survives, so the call is idempotent.
func (s *SessionService) Clear(ctx context.Context, sessionKey string) error {
	session, err := s.lookup(ctx, sessionKey)
	if err != nil {
		return err
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}

	if err := tx.Where("session_id = ?", session.ID).
		Delete(&model.ChatMessage{}).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete messages: %w", err)
	}

	if err := tx.Model(&model.ChatSession{}).Where("id = ?", session.ID).
		Updates(map[string]interface{}{
			"message_count":    0,
			"last_activity_at": time.Now(),
		}).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to reset session: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("failed to commit clear: %w", err)
	}

	return nil
}

// SweepExpired hard-deletes sessions idle past olderThan along with their
// messages. Runs from the housekeeping job, never on the request path.
func (s *SessionService) SweepExpired(ctx context.Context, olderThan time.Time) (int64, error) {
	var stale []model.ChatSession
	if err := s.db.WithContext(ctx).
		Where("last_activity_at < ?", olderThan).
		Find(&stale).Error; err != nil {
		return 0, fmt.Errorf("failed to list expired sessions: %w", err)
	}

	if len(stale) == 0 {
		return 0, nil
	}

	ids := make([]uint, len(stale))
	for i, sess := range stale {
		ids[i] = sess.ID
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}

	if err := tx.Where("session_id IN ?", ids).
		Delete(&model.ChatMessage{}).Error; err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("failed to delete expired messages: %w", err)
	}

	if err := tx.Unscoped().Where("id IN ?", ids).
		Delete(&model.ChatSession{}).Error; err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return 0, fmt.Errorf("failed to commit sweep: %w", err)
	}

	return int64(len(ids)), nil
}

// lookup fetches a live session or reports ErrSessionNotFound. A session past
// its retention window is treated as not found so history-dependent calls
// cannot resurrect it.
func (s *SessionService) lookup(ctx context.Context, sessionKey string) (*model.ChatSession, error) {
	var session model.ChatSession
	if err := s.db.WithContext(ctx).
		Where("session_key = ?", sessionKey).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to fetch session: %w", err)
	}

	if session.IsExpired(time.Now()) {
		return nil, ErrSessionNotFound
	}

	return &session, nil
}
