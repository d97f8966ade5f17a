// Package cache stores rendered card artifacts and surface measurements.
//
// A Cache is a plain byte store with per-entry TTL. Keys come from a Keyer,
// which hashes everything that influences an output: the settings document,
// the input row, the viewport, the output format and the measuring surface.
// Identical requests therefore hit the same entry no matter which entry
// point (CLI or HTTP service) produced it.
//
// Three backends are provided:
//   - NullCache: caching disabled
//   - FileCache: one JSON file per entry, for the CLI
//   - RedisCache: shared cache for the HTTP service
package cache

import (
	"context"
	"time"
)

// Cache is a byte store keyed by string.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is a miss,
	// not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// TTLs for the entry kinds.
const (
	// TTLArtifact is how long rendered SVG, PNG, PDF and JSON outputs live.
	TTLArtifact = 7 * 24 * time.Hour
	// TTLMeasure is how long surface measurements live.
	TTLMeasure = 24 * time.Hour
)

// Key prefixes.
const (
	prefixArtifact = "artifact"
	prefixMeasure  = "measure"
)

// ArtifactKeyOpts holds everything besides the card content that changes a
// rendered artifact.
type ArtifactKeyOpts struct {
	Format  string  `json:"format"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Titles  bool    `json:"titles,omitempty"`
	Debug   bool    `json:"debug,omitempty"`
	Surface string  `json:"surface"`
}

// Keyer derives cache keys.
type Keyer interface {
	// ArtifactKey returns the key of one rendered output of a card.
	ArtifactKey(cardHash string, opts ArtifactKeyOpts) string
	// MeasureKey returns the key of the boxes a surface measured for a scene.
	MeasureKey(sceneHash, surface string) string
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(cardHash string, opts ArtifactKeyOpts) string {
	return hashKey(prefixArtifact, cardHash, opts)
}

// MeasureKey implements Keyer.
func (DefaultKeyer) MeasureKey(sceneHash, surface string) string {
	return hashKey(prefixMeasure, sceneHash, surface)
}
