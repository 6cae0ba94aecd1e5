// Package service implements the application's business logic on top of the
// storage layer: user and category management, expense recording with split
// allocation, budgets with threshold alerts, and group balance resolution.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"expensetracker/internal/models"
	"expensetracker/internal/storage"
)

// UserService manages accounts.
type UserService struct {
	store storage.Store

	// defaultThreshold and defaultEmail configure the global alert
	// created for every new user.
	defaultThreshold int
	defaultEmail     bool
}

// NewUserService creates a UserService. defaultThreshold is the
// remaining-budget percentage for the registration-time global alert;
// defaultEmail controls whether that alert sends email.
func NewUserService(store storage.Store, defaultThreshold int, defaultEmail bool) *UserService {
	return &UserService{
		store:            store,
		defaultThreshold: defaultThreshold,
		defaultEmail:     defaultEmail,
	}
}

// CreateUser registers an account and provisions its default global alert.
func (s *UserService) CreateUser(ctx context.Context, username, email string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("username and a valid email are required")
	}

	user := &models.User{Username: username, Email: email}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	alert := &models.Alert{
		UserID:       user.ID,
		ThresholdPct: s.defaultThreshold,
		Active:       true,
		EmailEnabled: s.defaultEmail,
	}
	if err := s.store.UpsertAlert(ctx, alert); err != nil {
		// The account exists; a missing default alert only means no
		// warnings until the user configures one.
		slog.Warn("Failed to create default alert", "user", username, "error", err)
	}

	slog.Info("User created", "user_id", user.ID, "username", username)
	return user, nil
}

// GetUserByUsername looks up the account a session acts as.
func (s *UserService) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.store.GetUserByUsername(ctx, username)
}

// ListUsers returns all registered users.
func (s *UserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.store.ListUsers(ctx)
}
