package build

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"mime"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"time"

	"github.com/a-h/templ"
	"github.com/google/uuid"
	"github.com/templui/blogfeed/assets"
	"github.com/templui/blogfeed/internal/config"
	"github.com/templui/blogfeed/internal/ctxkeys"
	"github.com/templui/blogfeed/internal/model"
	"github.com/templui/blogfeed/internal/repository"
	"github.com/templui/blogfeed/internal/service"
	"github.com/templui/blogfeed/internal/ui"
	"github.com/templui/blogfeed/internal/ui/pages"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/sync/errgroup"
)

const (
	contentTypeHTML = "text/html; charset=utf-8"
	contentTypeXML  = "application/xml; charset=utf-8"
	contentTypeRSS  = "application/rss+xml; charset=utf-8"
	contentTypeText = "text/plain; charset=utf-8"
)

// Result lists output paths relative to the output directory.
type Result struct {
	BuildID   string
	Written   []string
	Unchanged []string
	Removed   []string
}

type Builder struct {
	blogService    *service.BlogService
	sitemapService *service.SitemapService
	feedService    *service.FeedService
	manifest       repository.ArtifactRepository
	site           *config.Config
	outDir         string
	publicDir      string
	concurrency    int
}

type Option func(*Builder)

// WithManifest records every artifact so unchanged files are skipped and
// publishing can be incremental.
func WithManifest(manifest repository.ArtifactRepository) Option {
	return func(b *Builder) {
		b.manifest = manifest
	}
}

// WithPublicDir copies a directory of static files into the output root.
func WithPublicDir(dir string) Option {
	return func(b *Builder) {
		b.publicDir = dir
	}
}

func WithConcurrency(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

func NewBuilder(site *config.Config, blogService *service.BlogService, sitemapService *service.SitemapService, feedService *service.FeedService, outDir string, opts ...Option) *Builder {
	b := &Builder{
		blogService:    blogService,
		sitemapService: sitemapService,
		feedService:    feedService,
		site:           site,
		outDir:         outDir,
		concurrency:    runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// job produces one output file.
type job struct {
	path        string
	contentType string
	render      func(ctx context.Context) ([]byte, error)
}

type output struct {
	artifact  *model.Artifact
	unchanged bool
}

// Build renders the whole site for rc into the output directory. Any post
// that fails to resolve fails the build.
func (b *Builder) Build(ctx context.Context, rc model.RenderContext) (*Result, error) {
	start := time.Now()
	buildID := uuid.NewString()

	ctx = ctxkeys.WithConfig(ctx, b.site.Sanitized())
	ctx = ctxkeys.WithRenderContext(ctx, rc)

	jobs, err := b.jobs(rc)
	if err != nil {
		return nil, err
	}

	previous := map[string]*model.Artifact{}
	if b.manifest != nil {
		artifacts, err := b.manifest.All()
		if err != nil {
			return nil, fmt.Errorf("failed to read manifest: %w", err)
		}
		for _, a := range artifacts {
			previous[a.Path] = a
		}
	}

	outputs := make([]output, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)
	for i, j := range jobs {
		g.Go(func() error {
			data, err := j.render(gctx)
			if err != nil {
				return fmt.Errorf("%s: %w", j.path, err)
			}
			out, err := b.write(j, data, previous[j.path])
			if err != nil {
				return fmt.Errorf("%s: %w", j.path, err)
			}
			outputs[i] = out
			return nil
		})
	}
	err = g.Wait()
	if err != nil {
		return nil, err
	}

	result := &Result{BuildID: buildID}
	builtAt := time.Now().UTC()
	for _, out := range outputs {
		if out.unchanged {
			result.Unchanged = append(result.Unchanged, out.artifact.Path)
		} else {
			result.Written = append(result.Written, out.artifact.Path)
		}
		if b.manifest == nil {
			continue
		}
		out.artifact.BuildID = buildID
		out.artifact.BuiltAt = builtAt
		err := b.manifest.Upsert(out.artifact)
		if err != nil {
			return nil, fmt.Errorf("failed to record %s: %w", out.artifact.Path, err)
		}
	}

	if b.manifest != nil {
		result.Removed, err = b.removeStale(buildID)
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(result.Written)
	sort.Strings(result.Unchanged)
	slog.Info("build finished",
		"build_id", buildID,
		"mode", rc.String(),
		"written", len(result.Written),
		"unchanged", len(result.Unchanged),
		"removed", len(result.Removed),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return result, nil
}

func (b *Builder) jobs(rc model.RenderContext) ([]job, error) {
	slugs, err := b.blogService.Slugs()
	if err != nil {
		return nil, err
	}
	pageNumbers, err := b.blogService.Pages(rc)
	if err != nil {
		return nil, err
	}

	var jobs []job
	for _, slug := range slugs {
		jobs = append(jobs, job{
			path:        path.Join(slug, "index.html"),
			contentType: contentTypeHTML,
			render: func(ctx context.Context) ([]byte, error) {
				post, err := b.blogService.Post(rc, slug)
				if err != nil {
					return nil, err
				}
				html, err := b.blogService.HTML(post)
				if err != nil {
					return nil, err
				}
				return ui.Bytes(ctx, pages.Detail(post, html, rc))
			},
		})
	}

	for _, n := range pageNumbers {
		jobs = append(jobs, job{
			path:        pagePath(n),
			contentType: contentTypeHTML,
			render: func(ctx context.Context) ([]byte, error) {
				page, err := b.blogService.Page(rc, n)
				if err != nil {
					return nil, err
				}
				return ui.Bytes(ctx, pages.Listing(page))
			},
		})
	}

	jobs = append(jobs,
		job{path: "404.html", contentType: contentTypeHTML, render: component(pages.NotFound())},
		job{path: "sitemap.xml", contentType: contentTypeXML, render: func(context.Context) ([]byte, error) {
			return b.sitemapService.GenerateSitemap(rc)
		}},
		job{path: "rss.xml", contentType: contentTypeRSS, render: func(context.Context) ([]byte, error) {
			return b.feedService.GenerateFeed(rc)
		}},
		job{path: "robots.txt", contentType: contentTypeText, render: func(context.Context) ([]byte, error) {
			return service.Robots(b.publicDir, b.site.AppURL), nil
		}},
	)

	assetJobs, err := fileJobs(assets.AssetsFS, "assets")
	if err != nil {
		return nil, err
	}
	jobs = append(jobs, assetJobs...)

	if b.publicDir != "" {
		publicJobs, err := fileJobs(os.DirFS(b.publicDir), "")
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		jobs = append(jobs, publicJobs...)
	}

	return dedupe(jobs), nil
}

// dedupe keeps the first job for each path so generated pages win over
// public files of the same name.
func dedupe(jobs []job) []job {
	seen := make(map[string]bool, len(jobs))
	out := jobs[:0]
	for _, j := range jobs {
		if seen[j.path] {
			slog.Warn("duplicate output path ignored", "path", j.path)
			continue
		}
		seen[j.path] = true
		out = append(out, j)
	}
	return out
}

func pagePath(n int) string {
	if n == 1 {
		return "index.html"
	}
	return path.Join("blog", strconv.Itoa(n), "index.html")
}

func component(c templ.Component) func(context.Context) ([]byte, error) {
	return func(ctx context.Context) ([]byte, error) {
		return ui.Bytes(ctx, c)
	}
}

// fileJobs copies every regular file of fsys under prefix. Dot files are
// skipped.
func fileJobs(fsys fs.FS, prefix string) ([]job, error) {
	var jobs []job
	err := fs.WalkDir(fsys, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		base := d.Name()
		if name != "." && len(base) > 0 && base[0] == '.' {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		contentType := mime.TypeByExtension(path.Ext(name))
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		jobs = append(jobs, job{
			path:        path.Join(prefix, name),
			contentType: contentType,
			render: func(context.Context) ([]byte, error) {
				return fs.ReadFile(fsys, name)
			},
		})
		return nil
	})
	return jobs, err
}

// write stores data unless the manifest already records the same hash and
// the file is still on disk.
func (b *Builder) write(j job, data []byte, prev *model.Artifact) (output, error) {
	artifact := &model.Artifact{
		Path:        j.path,
		Hash:        Hash(data),
		Size:        int64(len(data)),
		ContentType: j.contentType,
	}

	target := filepath.Join(b.outDir, filepath.FromSlash(j.path))
	if prev != nil && prev.Hash == artifact.Hash {
		existing, err := os.ReadFile(target)
		if err == nil && bytes.Equal(existing, data) {
			return output{artifact: artifact, unchanged: true}, nil
		}
	}

	err := os.MkdirAll(filepath.Dir(target), 0755)
	if err != nil {
		return output{}, err
	}
	err = os.WriteFile(target, data, 0644)
	if err != nil {
		return output{}, err
	}
	return output{artifact: artifact}, nil
}

// removeStale deletes local files the build no longer produces. Rows never
// published are dropped now; published ones stay until the publisher has
// removed the remote copy.
func (b *Builder) removeStale(buildID string) ([]string, error) {
	stale, err := b.manifest.Stale(buildID)
	if err != nil {
		return nil, fmt.Errorf("failed to read stale artifacts: %w", err)
	}

	removed := make([]string, 0, len(stale))
	for _, a := range stale {
		err := os.Remove(filepath.Join(b.outDir, filepath.FromSlash(a.Path)))
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to remove %s: %w", a.Path, err)
		}
		if err == nil {
			removed = append(removed, a.Path)
		}
		if a.PublishedHash == nil {
			err = b.manifest.Delete(a.Path)
			if err != nil {
				return nil, fmt.Errorf("failed to forget %s: %w", a.Path, err)
			}
		}
	}
	return removed, nil
}

// Hash is the hex blake2b-256 digest used to detect changed artifacts.
func Hash(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}
