package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/templui/blogfeed/internal/model"
)

func SlugsCmd() *cobra.Command {
	var fieldList string

	cmd := &cobra.Command{
		Use:   "slugs",
		Short: "Print every post identifier, drafts included",
		Long: `Print every post identifier, drafts included.

With --fields, list the posts visible in the current APP_ENV newest first,
showing only the named front matter fields.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			defer a.Close()

			if fieldList == "" {
				slugs, err := a.BlogService.Slugs()
				if err != nil {
					return err
				}
				for _, slug := range slugs {
					fmt.Fprintln(cmd.OutOrStdout(), slug)
				}
				return nil
			}

			fields, err := model.ParseFields(strings.Split(fieldList, ",")...)
			if err != nil {
				return err
			}
			posts, err := a.PostRepository.Posts(a.Cfg.RenderContext(), fields.With(model.FieldSlug))
			if err != nil {
				return err
			}
			return writePosts(cmd.OutOrStdout(), fields.Without(model.FieldSlug), posts)
		},
	}

	cmd.Flags().StringVar(&fieldList, "fields", "", "comma-separated front matter fields to print, e.g. title,date,draft")
	return cmd
}

func writePosts(out io.Writer, fields model.FieldSet, posts []*model.Post) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "slug\t%s\n", strings.Join(fields.Names(), "\t"))
	for _, p := range posts {
		cols := []string{p.Slug}
		for _, f := range fields.Fields() {
			cols = append(cols, fieldValue(p, f))
		}
		fmt.Fprintln(w, strings.Join(cols, "\t"))
	}
	return w.Flush()
}

func fieldValue(p *model.Post, f model.Field) string {
	switch f {
	case model.FieldTitle:
		return p.Title
	case model.FieldDate:
		return p.Date.Format(time.DateOnly)
	case model.FieldAuthor:
		return p.Author
	case model.FieldExcerpt:
		return p.Excerpt
	case model.FieldContent:
		return fmt.Sprintf("%d bytes", len(p.Content))
	case model.FieldCoverImage:
		return p.CoverImage
	case model.FieldCoverImageAlt:
		return p.CoverImageAlt
	case model.FieldCoverImageWidth:
		return fmt.Sprint(p.CoverImageWidth)
	case model.FieldCoverImageHeight:
		return fmt.Sprint(p.CoverImageHeight)
	case model.FieldDraft:
		return fmt.Sprint(p.Draft)
	}
	return ""
}
