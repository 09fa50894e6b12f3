package service

import (
	"fmt"

	"github.com/templui/blogfeed/internal/markdown"
	"github.com/templui/blogfeed/internal/model"
	"github.com/templui/blogfeed/internal/repository"
)

const DefaultPostsPerPage = 10

// PostSource is the read side of the post repository.
type PostSource interface {
	Slugs() ([]string, error)
	Posts(rc model.RenderContext, fields model.FieldSet) ([]*model.Post, error)
	Post(rc model.RenderContext, slug string, fields model.FieldSet) (*model.Post, error)
}

type BlogService struct {
	posts        PostSource
	renderer     markdown.Renderer
	postsPerPage int
}

func NewBlogService(posts PostSource, renderer markdown.Renderer, postsPerPage int) *BlogService {
	if postsPerPage < 1 {
		postsPerPage = DefaultPostsPerPage
	}
	return &BlogService{
		posts:        posts,
		renderer:     renderer,
		postsPerPage: postsPerPage,
	}
}

func (s *BlogService) PostsPerPage() int {
	return s.postsPerPage
}

// Slugs lists every post identifier, drafts included.
func (s *BlogService) Slugs() ([]string, error) {
	return s.posts.Slugs()
}

// Posts returns the visible feed without post bodies.
func (s *BlogService) Posts(rc model.RenderContext) ([]*model.Post, error) {
	return s.posts.Posts(rc, model.ListingFields)
}

// Post returns everything the detail page needs.
func (s *BlogService) Post(rc model.RenderContext, slug string) (*model.Post, error) {
	return s.posts.Post(rc, slug, model.DetailFields)
}

// HTML renders a post body. A post loaded without content, such as a draft
// outside development, renders nothing.
func (s *BlogService) HTML(post *model.Post) ([]byte, error) {
	if !post.Has(model.FieldContent) || post.Content == "" {
		return nil, nil
	}
	html, err := s.renderer.Render([]byte(post.Content), markdown.ExternalLinks(), markdown.LazyImages())
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", post.Slug, err)
	}
	return html, nil
}

// Page returns listing page n (1-based) of the visible feed.
func (s *BlogService) Page(rc model.RenderContext, n int) (*model.Page, error) {
	posts, err := s.Posts(rc)
	if err != nil {
		return nil, err
	}
	return Paginate(posts, n, s.postsPerPage)
}

// Pages lists every listing page number, for path generation.
func (s *BlogService) Pages(rc model.RenderContext) ([]int, error) {
	posts, err := s.Posts(rc)
	if err != nil {
		return nil, err
	}
	total := totalPages(len(posts), s.postsPerPage)
	pages := make([]int, total)
	for i := range pages {
		pages[i] = i + 1
	}
	return pages, nil
}

// Paginate slices page n out of posts. Page 1 always exists; any other page
// outside the feed is reported as not found.
func Paginate(posts []*model.Post, n, size int) (*model.Page, error) {
	if size < 1 {
		size = DefaultPostsPerPage
	}
	total := totalPages(len(posts), size)
	if n < 1 || n > total {
		return nil, fmt.Errorf("page %d of %d: %w", n, total, repository.ErrNotFound)
	}

	start := (n - 1) * size
	end := min(start+size, len(posts))

	page := &model.Page{
		Number:     n,
		Size:       size,
		TotalPosts: len(posts),
		TotalPages: total,
		Posts:      posts[start:end],
	}
	if n > 1 {
		prev := n - 1
		page.Prev = &prev
	}
	if end < len(posts) {
		next := n + 1
		page.Next = &next
	}
	return page, nil
}

func totalPages(count, size int) int {
	if count == 0 {
		return 1
	}
	return (count + size - 1) / size
}
