package repository

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/templui/blogfeed/internal/content"
	"github.com/templui/blogfeed/internal/markdown"
	"github.com/templui/blogfeed/internal/model"
)

// MalformedPolicy decides what a listing does with an entry whose required
// front matter is missing or invalid.
type MalformedPolicy int

const (
	// MalformedAbort fails the whole listing with the first MalformedPostError.
	MalformedAbort MalformedPolicy = iota
	// MalformedSkip drops the entry and logs a warning naming the file.
	MalformedSkip
)

func ParseMalformedPolicy(s string) (MalformedPolicy, error) {
	switch strings.ToLower(s) {
	case "", "abort":
		return MalformedAbort, nil
	case "skip":
		return MalformedSkip, nil
	}
	return MalformedAbort, fmt.Errorf("unknown malformed post policy %q", s)
}

func (p MalformedPolicy) String() string {
	if p == MalformedSkip {
		return "skip"
	}
	return "abort"
}

// PostRepository is the single source of truth for posts. Every call re-reads
// the content source and holds no mutable state, so it is safe for concurrent
// use while the source is not being edited.
type PostRepository struct {
	source content.Source
	images fs.FS
	policy MalformedPolicy
	logger *slog.Logger
}

type PostOption func(*PostRepository)

func WithMalformedPolicy(policy MalformedPolicy) PostOption {
	return func(r *PostRepository) {
		r.policy = policy
	}
}

// WithImageFS lets the repository read cover image dimensions that the front
// matter leaves out. Image paths are resolved relative to the root of fsys.
func WithImageFS(fsys fs.FS) PostOption {
	return func(r *PostRepository) {
		r.images = fsys
	}
}

func WithLogger(logger *slog.Logger) PostOption {
	return func(r *PostRepository) {
		r.logger = logger
	}
}

func NewPostRepository(source content.Source, opts ...PostOption) *PostRepository {
	r := &PostRepository{
		source: source,
		policy: MalformedAbort,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *PostRepository) Policy() MalformedPolicy {
	return r.policy
}

// Slugs lists every identifier in the content source, sorted. Each one
// resolves through Post. Under MalformedSkip, entries whose front matter does
// not validate are left out so that path generation never meets them.
func (r *PostRepository) Slugs() ([]string, error) {
	entries, err := r.entries()
	if err != nil {
		return nil, err
	}

	slugs := make([]string, 0, len(entries))
	for _, e := range entries {
		if r.policy == MalformedSkip {
			_, err := r.load(model.DevelopmentContext(), e, model.SlugOnly)
			if r.skip(e, err) {
				continue
			}
			if err != nil {
				return nil, err
			}
		}
		slugs = append(slugs, e.Slug)
	}

	sort.Strings(slugs)
	return slugs, nil
}

// Posts returns every post visible in rc with only the requested fields
// populated, newest first. Ties on date are broken by slug.
func (r *PostRepository) Posts(rc model.RenderContext, fields model.FieldSet) ([]*model.Post, error) {
	entries, err := r.entries()
	if err != nil {
		return nil, err
	}

	records := make([]*record, 0, len(entries))
	for _, e := range entries {
		rec, err := r.load(rc, e, fields)
		if r.skip(e, err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if rec.draft && !rc.ShowDrafts() {
			continue
		}
		records = append(records, rec)
	}

	sort.SliceStable(records, func(i, j int) bool {
		if !records[i].date.Equal(records[j].date) {
			return records[i].date.After(records[j].date)
		}
		return records[i].slug < records[j].slug
	})

	posts := make([]*model.Post, len(records))
	for i, rec := range records {
		posts[i] = rec.post
	}
	return posts, nil
}

// Post returns the post whose slug matches exactly. A draft requested in a
// production context comes back without its content, which is never read.
// Under MalformedSkip a malformed entry is reported as not found.
func (r *PostRepository) Post(rc model.RenderContext, slug string, fields model.FieldSet) (*model.Post, error) {
	entries, err := r.entries()
	if err != nil {
		return nil, err
	}

	for _, e := range entries {
		if e.Slug != slug {
			continue
		}
		rec, err := r.load(rc, e, fields)
		if r.skip(e, err) {
			break
		}
		if err != nil {
			return nil, err
		}
		return rec.post, nil
	}

	return nil, &NotFoundError{Slug: slug}
}

func (r *PostRepository) skip(e content.Entry, err error) bool {
	if err == nil || r.policy != MalformedSkip || !errors.Is(err, ErrMalformedPost) {
		return false
	}
	r.logger.Warn("skipping malformed post", "file", e.Name, "slug", e.Slug, "error", err)
	return true
}

// entries lists the content source and enforces slug uniqueness.
func (r *PostRepository) entries() ([]content.Entry, error) {
	entries, err := r.source.Entries()
	if err != nil {
		return nil, &ConfigurationError{Err: err}
	}

	seen := make(map[string]string, len(entries))
	for _, e := range entries {
		if !validSlug(e.Slug) {
			return nil, &ConfigurationError{Path: e.Name, Slug: e.Slug, Err: errors.New("file name does not produce a URL-safe slug")}
		}
		if reservedSlugs[strings.ToLower(e.Slug)] {
			return nil, &ConfigurationError{Path: e.Name, Slug: e.Slug, Err: fmt.Errorf("slug %q is reserved for a generated page", e.Slug)}
		}
		prev, ok := seen[e.Slug]
		if ok {
			return nil, &ConfigurationError{Path: e.Name, Slug: e.Slug, Err: fmt.Errorf("slug collides with %s", prev)}
		}
		seen[e.Slug] = e.Name
	}
	return entries, nil
}

// reservedSlugs are top-level paths the site serves or generates itself.
var reservedSlugs = map[string]bool{
	"404.html":    true,
	"assets":      true,
	"blog":        true,
	"index.html":  true,
	"robots.txt":  true,
	"rss.xml":     true,
	"sitemap.xml": true,
}

func validSlug(slug string) bool {
	if slug == "" || slug == "." || slug == ".." {
		return false
	}
	for _, c := range slug {
		if unicode.IsSpace(c) || unicode.IsControl(c) || strings.ContainsRune(`/\?#%"<>`, c) {
			return false
		}
	}
	return true
}

// record keeps the sort keys of a post regardless of which fields the caller
// asked for.
type record struct {
	slug  string
	date  time.Time
	draft bool
	post  *model.Post
}

func (r *PostRepository) load(rc model.RenderContext, e content.Entry, fields model.FieldSet) (*record, error) {
	f, err := r.source.Open(e.Name)
	if err != nil {
		return nil, &ConfigurationError{Path: e.Name, Slug: e.Slug, Err: err}
	}
	defer f.Close()

	fm, body, err := markdown.SplitFrontmatter(f)
	if err != nil {
		return nil, &MalformedPostError{Path: e.Name, Reason: "unreadable front matter", Err: err}
	}
	meta, err := fm.Meta()
	if err != nil {
		return nil, &MalformedPostError{Path: e.Name, Reason: "invalid front matter", Err: err}
	}

	h, err := parseHeader(e.Name, meta)
	if err != nil {
		return nil, err
	}

	post := &model.Post{Fields: fields}
	if fields.Has(model.FieldSlug) {
		post.Slug = e.Slug
	}
	if fields.Has(model.FieldTitle) {
		post.Title = h.title
	}
	if fields.Has(model.FieldDate) {
		post.Date = h.date
	}
	if fields.Has(model.FieldDraft) {
		post.Draft = h.draft
	}
	if fields.Has(model.FieldAuthor) {
		post.Author = h.author
	}
	if fields.Has(model.FieldExcerpt) {
		post.Excerpt = h.excerpt
	}
	if fields.Has(model.FieldCoverImage) {
		post.CoverImage = h.coverImage
	}
	if fields.Has(model.FieldCoverImageAlt) {
		post.CoverImageAlt = h.coverImageAlt
	}
	if fields.Has(model.FieldCoverImageWidth) {
		post.CoverImageWidth = h.coverImageWidth
	}
	if fields.Has(model.FieldCoverImageHeight) {
		post.CoverImageHeight = h.coverImageHeight
	}
	r.fillCoverDimensions(e, h.coverImage, post)

	if fields.Has(model.FieldContent) {
		if h.draft && !rc.ShowDrafts() {
			post.Fields = post.Fields.Without(model.FieldContent)
		} else {
			raw, err := io.ReadAll(body)
			if err != nil {
				return nil, &ConfigurationError{Path: e.Name, Slug: e.Slug, Err: err}
			}
			post.Content = string(raw)
		}
	}

	return &record{slug: e.Slug, date: h.date, draft: h.draft, post: post}, nil
}
