// Package repository defines the roster store interface and its backends.
package repository

import (
	"context"

	"github.com/okian/universus/internal/domain/model"
)

// Store persists official and community participants.
type Store interface {
	// LoadOfficial returns the read-only official roster keyed by name.
	// Backends seed the built-in roster when their official source is empty.
	LoadOfficial(ctx context.Context) (map[string]model.Participant, error)

	// LoadCommunity returns the community roster keyed by name.
	LoadCommunity(ctx context.Context) (map[string]model.Participant, error)

	// SaveCommunity atomically replaces the whole community roster.
	SaveCommunity(ctx context.Context, roster map[string]model.Participant) error

	// DeleteCommunity removes one community record.
	// Returns ErrNotFound if no such record exists.
	DeleteCommunity(ctx context.Context, name string) error

	// Close releases backend resources.
	Close() error
}
