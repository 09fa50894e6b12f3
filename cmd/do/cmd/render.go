package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"github.com/templui/blogfeed/internal/markdown"
)

func RenderCmd() *cobra.Command {
	var links bool

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Render a markdown file to HTML on stdout, front matter stripped",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			var overrides []markdown.Override
			if links {
				overrides = append(overrides, markdown.ExternalLinks(), markdown.LazyImages())
			}
			html, meta, err := markdown.NewParser().RenderDocument(source, overrides...)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			if len(meta) > 0 {
				keys := make([]string, 0, len(meta))
				for k := range meta {
					keys = append(keys, k)
				}
				sort.Strings(keys)
				fmt.Fprintf(cmd.ErrOrStderr(), "front matter: %v\n", keys)
			}
			_, err = cmd.OutOrStdout().Write(html)
			return err
		},
	}

	cmd.Flags().BoolVar(&links, "site", true, "apply the site's link and image rendering")
	return cmd
}
