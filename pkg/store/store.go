// Package store persists card definitions for the HTTP service.
//
// A Definition bundles everything needed to render a card: its settings, the
// input table and a default viewport. Two implementations are provided:
// MemoryStore for tests and single-process use, and MongoStore for a shared
// deployment.
package store

import (
	"context"
	"time"

	"github.com/matzehuels/advancecard/pkg/data"
	"github.com/matzehuels/advancecard/pkg/errors"
	"github.com/matzehuels/advancecard/pkg/settings"
)

// Definition is one stored card.
type Definition struct {
	ID        string            `json:"id" bson:"_id"`
	Settings  settings.Settings `json:"settings" bson:"settings"`
	Table     data.Table        `json:"data" bson:"data"`
	Width     float64           `json:"width,omitempty" bson:"width,omitempty"`
	Height    float64           `json:"height,omitempty" bson:"height,omitempty"`
	UpdatedAt time.Time         `json:"updatedAt" bson:"updatedAt"`
}

// Store is a keyed collection of definitions.
type Store interface {
	// Get returns the definition with id, or an ErrCodeCardNotFound error.
	Get(ctx context.Context, id string) (*Definition, error)
	// Put creates or replaces a definition and stamps UpdatedAt.
	Put(ctx context.Context, def *Definition) error
	// Delete removes a definition, or returns an ErrCodeCardNotFound error.
	Delete(ctx context.Context, id string) error
	// List returns all definitions ordered by id.
	List(ctx context.Context) ([]Definition, error)
	// Close releases backend resources.
	Close(ctx context.Context) error
}

// NotFound returns the error reported for a missing id.
func NotFound(id string) error {
	return errors.New(errors.ErrCodeCardNotFound, "card %q not found", id)
}

// IsNotFound reports whether err is a missing-card error.
func IsNotFound(err error) bool {
	return errors.Is(err, errors.ErrCodeCardNotFound)
}

func validate(def *Definition) error {
	if def == nil {
		return errors.New(errors.ErrCodeInvalidInput, "card definition is required")
	}
	if err := errors.ValidateCardID(def.ID); err != nil {
		return err
	}
	if err := def.Table.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidData, err, "card %q: %v", def.ID, err)
	}
	return nil
}
