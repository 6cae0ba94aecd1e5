package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"expensetracker/internal/models"
)

// UpsertAlert creates or replaces the alert for (user, category). An empty
// CategoryID is the user's global alert. The check-then-write is done inside
// a transaction because the unique index on coalesce(category_id, '') is an
// expression index, which SQLite upsert conflict targets cannot name.
func (s *SQLiteStore) UpsertAlert(ctx context.Context, alert *models.Alert) error {
	if alert.ID == "" {
		alert.ID = uuid.New().String()
	}
	if alert.CreatedAt == 0 {
		alert.CreatedAt = time.Now().Unix()
	}

	var categoryID any
	if alert.CategoryID != "" {
		categoryID = alert.CategoryID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var existingID string
	err = tx.QueryRowContext(ctx,
		"SELECT id FROM alerts WHERE user_id = ? AND category_id IS ?",
		alert.UserID, categoryID,
	).Scan(&existingID)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = tx.ExecContext(ctx,
			`INSERT INTO alerts (id, user_id, category_id, threshold_pct, is_active, email_enabled, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			alert.ID, alert.UserID, categoryID, alert.ThresholdPct,
			alert.Active, alert.EmailEnabled, alert.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert alert: %w", err)
		}
	case err != nil:
		return fmt.Errorf("failed to look up alert: %w", err)
	default:
		alert.ID = existingID
		_, err = tx.ExecContext(ctx,
			"UPDATE alerts SET threshold_pct = ?, is_active = ?, email_enabled = ? WHERE id = ?",
			alert.ThresholdPct, alert.Active, alert.EmailEnabled, existingID,
		)
		if err != nil {
			return fmt.Errorf("failed to update alert: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ResolveAlert picks the active alert that applies to the category. The
// category-specific alert wins over the global (NULL category) one. Returns
// (nil, nil) when no active alert matches.
func (s *SQLiteStore) ResolveAlert(ctx context.Context, userID, categoryID string) (*models.Alert, error) {
	alert := &models.Alert{}
	var catID sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, category_id, threshold_pct, is_active, email_enabled, created_at
		 FROM alerts
		 WHERE user_id = ? AND is_active = 1 AND (category_id = ? OR category_id IS NULL)
		 ORDER BY category_id IS NULL
		 LIMIT 1`,
		userID, categoryID,
	).Scan(&alert.ID, &alert.UserID, &catID, &alert.ThresholdPct,
		&alert.Active, &alert.EmailEnabled, &alert.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve alert: %w", err)
	}
	if catID.Valid {
		alert.CategoryID = catID.String
	}
	return alert, nil
}
