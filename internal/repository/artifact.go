package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/templui/blogfeed/internal/model"
)

var (
	ErrArtifactNotFound = errors.New("artifact not found")
)

// ArtifactRepository is the build manifest: one row per generated file.
type ArtifactRepository interface {
	Upsert(artifact *model.Artifact) error
	ByPath(path string) (*model.Artifact, error)
	All() ([]*model.Artifact, error)
	Stale(buildID string) ([]*model.Artifact, error)
	LatestBuildID() (string, error)
	MarkPublished(path, hash string, at time.Time) error
	Delete(path string) error
}

type artifactRepository struct {
	db *sqlx.DB
}

func NewArtifactRepository(db *sqlx.DB) ArtifactRepository {
	return &artifactRepository{db: db}
}

func (r *artifactRepository) Upsert(artifact *model.Artifact) error {
	if artifact.BuiltAt.IsZero() {
		artifact.BuiltAt = time.Now().UTC()
	}

	query := `INSERT INTO artifacts (path, hash, size, content_type, build_id, built_at)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          ON CONFLICT (path) DO UPDATE SET
	              hash = excluded.hash,
	              size = excluded.size,
	              content_type = excluded.content_type,
	              build_id = excluded.build_id,
	              built_at = excluded.built_at`

	_, err := r.db.Exec(query,
		artifact.Path,
		artifact.Hash,
		artifact.Size,
		artifact.ContentType,
		artifact.BuildID,
		artifact.BuiltAt,
	)
	return err
}

func (r *artifactRepository) ByPath(path string) (*model.Artifact, error) {
	artifact := &model.Artifact{}
	query := `SELECT * FROM artifacts WHERE path = $1`

	err := r.db.Get(artifact, query, path)
	if err == sql.ErrNoRows {
		return nil, ErrArtifactNotFound
	}
	if err != nil {
		return nil, err
	}

	return artifact, nil
}

func (r *artifactRepository) All() ([]*model.Artifact, error) {
	var artifacts []*model.Artifact
	query := `SELECT * FROM artifacts ORDER BY path`

	err := r.db.Select(&artifacts, query)
	if err != nil {
		return nil, err
	}

	return artifacts, nil
}

// Stale returns artifacts that the given build did not produce.
func (r *artifactRepository) Stale(buildID string) ([]*model.Artifact, error) {
	var artifacts []*model.Artifact
	query := `SELECT * FROM artifacts WHERE build_id <> $1 ORDER BY path`

	err := r.db.Select(&artifacts, query, buildID)
	if err != nil {
		return nil, err
	}

	return artifacts, nil
}

func (r *artifactRepository) LatestBuildID() (string, error) {
	var buildID string
	query := `SELECT build_id FROM artifacts ORDER BY built_at DESC, path LIMIT 1`

	err := r.db.Get(&buildID, query)
	if err == sql.ErrNoRows {
		return "", ErrArtifactNotFound
	}

	return buildID, err
}

func (r *artifactRepository) MarkPublished(path, hash string, at time.Time) error {
	query := `UPDATE artifacts SET published_hash = $1, published_at = $2 WHERE path = $3`

	result, err := r.db.Exec(query, hash, at, path)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrArtifactNotFound
	}

	return nil
}

func (r *artifactRepository) Delete(path string) error {
	query := `DELETE FROM artifacts WHERE path = $1`
	_, err := r.db.Exec(query, path)
	return err
}
