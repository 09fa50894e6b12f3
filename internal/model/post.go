package model

import (
	"time"
)

// Post is one content entry. Only the attributes named in Fields are
// populated; the others are left at their zero value and were never computed.
type Post struct {
	Slug             string
	Title            string
	Date             time.Time
	Author           string
	Excerpt          string
	Content          string
	CoverImage       string
	CoverImageAlt    string
	CoverImageWidth  int
	CoverImageHeight int
	Draft            bool

	Fields FieldSet
}

func (p *Post) Has(f Field) bool {
	return p.Fields.Has(f)
}

// Hidden reports whether the post body must be replaced by the
// not-yet-published placeholder in the given context.
func (p *Post) Hidden(rc RenderContext) bool {
	return p.Draft && !rc.ShowDrafts()
}

// CoverAlt falls back to the title when no alt text was provided.
func (p *Post) CoverAlt() string {
	if p.CoverImageAlt != "" {
		return p.CoverImageAlt
	}
	return p.Title
}
