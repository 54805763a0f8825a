// Copyright 2025 The Go AgentRun Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-json-experiment/json"
	"gorm.io/gorm"

	"github.com/go-agentrun/agentrun"
)

// responseRecord is the database row for one stored response. The
// response itself is stored as a JSON payload; only the lookup keys
// are columns.
type responseRecord struct {
	ID        uint   `gorm:"primaryKey"`
	SessionID string `gorm:"index;size:64"`
	Payload   []byte
	CreatedAt time.Time
}

func (responseRecord) TableName() string { return "agentrun_responses" }

// DatabaseService stores sessions through a GORM connection. Any
// dialect GORM supports works; the store only needs a blob column and
// an indexed key.
type DatabaseService struct {
	db *gorm.DB
}

var _ Service = (*DatabaseService)(nil)

// NewDatabase creates a database-backed session service and migrates
// its schema.
func NewDatabase(db *gorm.DB) (*DatabaseService, error) {
	if db == nil {
		return nil, errors.New("session: nil database")
	}
	if err := db.AutoMigrate(&responseRecord{}); err != nil {
		return nil, fmt.Errorf("session: migrate: %w", err)
	}
	return &DatabaseService{db: db}, nil
}

// Append implements [Service].
func (s *DatabaseService) Append(ctx context.Context, sessionID string, resp *agentrun.Response) error {
	if sessionID == "" {
		return errors.New("session: empty session id")
	}
	payload, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("session: encode response: %w", err)
	}
	record := responseRecord{SessionID: sessionID, Payload: payload}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return fmt.Errorf("session: store response: %w", err)
	}
	return nil
}

// History implements [Service].
func (s *DatabaseService) History(ctx context.Context, sessionID string) ([]*agentrun.Response, error) {
	var records []responseRecord
	err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("id").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("session: load history: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrSessionNotFound
	}

	history := make([]*agentrun.Response, 0, len(records))
	for _, record := range records {
		var resp agentrun.Response
		if err := json.Unmarshal(record.Payload, &resp); err != nil {
			return nil, fmt.Errorf("session: decode response %d: %w", record.ID, err)
		}
		history = append(history, &resp)
	}
	return history, nil
}

// Delete implements [Service].
func (s *DatabaseService) Delete(ctx context.Context, sessionID string) error {
	result := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Delete(&responseRecord{})
	if result.Error != nil {
		return fmt.Errorf("session: delete: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrSessionNotFound
	}
	return nil
}
