package model

import (
	"time"
)

// Artifact is one generated output file recorded in the build manifest.
type Artifact struct {
	Path          string     `db:"path"`
	Hash          string     `db:"hash"`
	Size          int64      `db:"size"`
	ContentType   string     `db:"content_type"`
	BuildID       string     `db:"build_id"`
	BuiltAt       time.Time  `db:"built_at"`
	PublishedHash *string    `db:"published_hash"` // Nullable until first publish
	PublishedAt   *time.Time `db:"published_at"`
}

func (a *Artifact) NeedsPublish() bool {
	return a.PublishedHash == nil || *a.PublishedHash != a.Hash
}
