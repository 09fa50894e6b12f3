package repository

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/templui/blogfeed/internal/content"
	"github.com/templui/blogfeed/internal/model"
)

// fillCoverDimensions reads the cover image header when a requested
// dimension is missing from the front matter. Failures leave the
// dimension unset.
func (r *PostRepository) fillCoverDimensions(e content.Entry, src string, post *model.Post) {
	wantWidth := post.Has(model.FieldCoverImageWidth) && post.CoverImageWidth == 0
	wantHeight := post.Has(model.FieldCoverImageHeight) && post.CoverImageHeight == 0
	if r.images == nil || (!wantWidth && !wantHeight) {
		return
	}

	if src == "" || strings.Contains(src, "://") {
		return
	}

	f, err := r.images.Open(strings.TrimPrefix(src, "/"))
	if err != nil {
		r.logger.Debug("cover image not found", "file", e.Name, "image", src, "error", err)
		return
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		r.logger.Debug("cover image not decodable", "file", e.Name, "image", src, "error", err)
		return
	}
	if wantWidth {
		post.CoverImageWidth = cfg.Width
	}
	if wantHeight {
		post.CoverImageHeight = cfg.Height
	}
}
