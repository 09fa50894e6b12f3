package build

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"time"

	"github.com/templui/blogfeed/internal/model"
	"github.com/templui/blogfeed/internal/repository"
	"github.com/templui/blogfeed/internal/storage"
	"golang.org/x/sync/errgroup"
)

var ErrNothingBuilt = errors.New("manifest is empty, run a build first")

// PublishResult lists output paths by what happened to them remotely.
type PublishResult struct {
	BuildID  string
	Uploaded []string
	Skipped  []string
	Deleted  []string
}

type Publisher struct {
	manifest    repository.ArtifactRepository
	storage     storage.Storage
	outDir      string
	concurrency int
	dryRun      bool
}

type PublishOption func(*Publisher)

// WithDryRun reports what a publish would do without recording it in the
// manifest.
func WithDryRun() PublishOption {
	return func(p *Publisher) {
		p.dryRun = true
	}
}

func NewPublisher(manifest repository.ArtifactRepository, storage storage.Storage, outDir string, opts ...PublishOption) *Publisher {
	p := &Publisher{
		manifest:    manifest,
		storage:     storage,
		outDir:      outDir,
		concurrency: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Publish uploads the latest build's changed artifacts and deletes remote
// copies of artifacts older builds left behind.
func (p *Publisher) Publish(ctx context.Context) (*PublishResult, error) {
	buildID, err := p.manifest.LatestBuildID()
	if errors.Is(err, repository.ErrArtifactNotFound) {
		return nil, ErrNothingBuilt
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	artifacts, err := p.manifest.All()
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	result := &PublishResult{BuildID: buildID}
	var pending, stale []*model.Artifact
	for _, a := range artifacts {
		switch {
		case a.BuildID != buildID:
			stale = append(stale, a)
		case a.NeedsPublish():
			pending = append(pending, a)
		default:
			result.Skipped = append(result.Skipped, a.Path)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for _, a := range pending {
		g.Go(func() error {
			return p.upload(gctx, a)
		})
	}
	for _, a := range stale {
		if a.PublishedHash == nil {
			continue
		}
		g.Go(func() error {
			return p.storage.Delete(gctx, a.Path)
		})
	}
	err = g.Wait()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	for _, a := range pending {
		if !p.dryRun {
			err := p.manifest.MarkPublished(a.Path, a.Hash, now)
			if err != nil {
				return nil, fmt.Errorf("failed to mark %s published: %w", a.Path, err)
			}
		}
		result.Uploaded = append(result.Uploaded, a.Path)
	}
	for _, a := range stale {
		if !p.dryRun {
			err := p.manifest.Delete(a.Path)
			if err != nil {
				return nil, fmt.Errorf("failed to forget %s: %w", a.Path, err)
			}
		}
		if a.PublishedHash != nil {
			result.Deleted = append(result.Deleted, a.Path)
		}
	}

	sort.Strings(result.Uploaded)
	sort.Strings(result.Deleted)
	slog.Info("publish finished",
		"build_id", buildID,
		"dry_run", p.dryRun,
		"uploaded", len(result.Uploaded),
		"skipped", len(result.Skipped),
		"deleted", len(result.Deleted),
	)
	return result, nil
}

// upload refuses files that changed on disk since the build recorded them.
func (p *Publisher) upload(ctx context.Context, a *model.Artifact) error {
	data, err := os.ReadFile(filepath.Join(p.outDir, filepath.FromSlash(a.Path)))
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", a.Path, err)
	}
	if Hash(data) != a.Hash {
		return fmt.Errorf("%s changed since the last build, rebuild before publishing", a.Path)
	}

	err = p.storage.Save(ctx, a.Path, bytes.NewReader(data), a.ContentType)
	if err != nil {
		return err
	}
	slog.Debug("uploaded artifact", "path", a.Path, "size", a.Size)
	return nil
}
