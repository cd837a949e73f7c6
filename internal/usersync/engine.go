// Package usersync keeps the local user mirror consistent with the
// identity provider: it applies lifecycle webhook events, creates
// users lazily on first submission, and backfills missing display
// names against the provider's API.
package usersync

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/lostconnect/backend/internal/models"
	"github.com/lostconnect/backend/internal/webhook"
	"github.com/lostconnect/backend/pkg/repository"
)

// NameResolver resolves a display name for an identity-provider user
// id. Implementations never fail; they return the Unknown sentinel
// instead.
type NameResolver interface {
	UserName(ctx context.Context, id string) string
}

// Engine applies identity-provider events and submissions to the user
// mirror. Webhook payloads are authoritative; submissions are
// last-writer-wins.
type Engine struct {
	users    repository.UserRepo
	resolver NameResolver
	logger   *slog.Logger
}

func New(users repository.UserRepo, resolver NameResolver, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}
	return &Engine{users: users, resolver: resolver, logger: logger}
}

// ApplyEvent applies a webhook event to the mirror. Created and
// updated events upsert unconditionally, so duplicate or re-ordered
// deliveries converge on the provider's view. Deleting an absent user
// is a no-op. Unknown event types are ignored.
func (e *Engine) ApplyEvent(ctx context.Context, ev *webhook.Event) error {
	if ev == nil {
		return fmt.Errorf("event is nil")
	}

	switch ev.Type {
	case webhook.EventUserCreated, webhook.EventUserUpdated:
		if ev.Data.ID == "" {
			return fmt.Errorf("event %s carries no user id", ev.Type)
		}

		name := ev.Data.FullName()
		if name == "" {
			name = models.UnknownName
		}

		u := &models.User{
			ID:    ev.Data.ID,
			Name:  name,
			Email: ev.Data.PrimaryEmail(),
			Phone: ev.Data.PrimaryPhone(),
		}
		if err := e.users.UpsertUser(ctx, u); err != nil {
			return fmt.Errorf("upsert user %s: %w", u.ID, err)
		}
		e.logger.Info("user upserted from event",
			slog.String("user_id", u.ID),
			slog.String("type", ev.Type),
		)
		return nil

	case webhook.EventUserDeleted:
		if ev.Data.ID == "" {
			return fmt.Errorf("event %s carries no user id", ev.Type)
		}
		if err := e.users.DeleteUser(ctx, ev.Data.ID); err != nil {
			return fmt.Errorf("delete user %s: %w", ev.Data.ID, err)
		}
		e.logger.Info("user deleted from event", slog.String("user_id", ev.Data.ID))
		return nil

	default:
		e.logger.Info("ignoring event", slog.String("type", ev.Type))
		return nil
	}
}

// EnsureUser guarantees a user row exists for a submission. When the
// user is absent a display name is resolved in order: suppliedName,
// provider lookup, Unknown sentinel. When the user exists a non-empty
// supplied name that differs from storage wins (last-writer-wins).
// The returned bool reports whether a row was created.
func (e *Engine) EnsureUser(ctx context.Context, id, email, suppliedName string) (*models.User, bool, error) {
	if id == "" {
		return nil, false, fmt.Errorf("user id is empty")
	}
	suppliedName = strings.TrimSpace(suppliedName)

	existing, err := e.users.GetUser(ctx, id)
	if err != nil {
		return nil, false, fmt.Errorf("get user %s: %w", id, err)
	}

	if existing == nil {
		name := suppliedName
		if name == "" {
			name = e.resolver.UserName(ctx, id)
		}
		if name == "" {
			name = models.UnknownName
		}

		u := &models.User{ID: id, Name: name, Email: email}
		if err := e.users.CreateUser(ctx, u); err != nil {
			return nil, false, fmt.Errorf("create user %s: %w", id, err)
		}
		e.logger.Info("user created on submission",
			slog.String("user_id", id),
			slog.String("name", name),
		)
		return u, true, nil
	}

	if suppliedName != "" && suppliedName != existing.Name {
		if err := e.users.UpdateUserName(ctx, id, suppliedName); err != nil {
			return nil, false, fmt.Errorf("update name for user %s: %w", id, err)
		}
		existing.Name = suppliedName
	}

	return existing, false, nil
}

// Backfill finds every user still carrying the Unknown sentinel and
// attempts a provider lookup for each. Lookup failures skip the row
// and keep going; only store failures abort. It reports how many rows
// were updated out of how many were scanned.
func (e *Engine) Backfill(ctx context.Context) (updated, scanned int, err error) {
	users, err := e.users.ListUsersByName(ctx, models.UnknownName)
	if err != nil {
		return 0, 0, fmt.Errorf("list unknown users: %w", err)
	}

	for _, u := range users {
		scanned++

		name := e.resolver.UserName(ctx, u.ID)
		if name == "" || name == models.UnknownName {
			e.logger.Info("backfill: no name available, skipping", slog.String("user_id", u.ID))
			continue
		}

		if err := e.users.UpdateUserName(ctx, u.ID, name); err != nil {
			return updated, scanned, fmt.Errorf("backfill update user %s: %w", u.ID, err)
		}

		updated++
		e.logger.Info("backfill: name updated",
			slog.String("user_id", u.ID),
			slog.String("name", name),
		)
	}

	return updated, scanned, nil
}
