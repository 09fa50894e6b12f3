package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/templui/blogfeed/internal/app"
	"github.com/templui/blogfeed/internal/build"
	"github.com/templui/blogfeed/internal/model"
)

func BuildCmd() *cobra.Command {
	var outDir string
	var dev bool

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Render the static site into the output directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			defer a.Close()

			if outDir != "" {
				a.Cfg.OutputPath = outDir
			}
			rc := a.Cfg.RenderContext()
			if dev {
				rc = model.DevelopmentContext()
			}

			result, err := runBuild(cmd.Context(), a, rc)
			if err != nil {
				return err
			}
			fmt.Printf("==> Built %s into %s: %d written, %d unchanged, %d removed\n",
				result.BuildID, a.Cfg.OutputPath, len(result.Written), len(result.Unchanged), len(result.Removed))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory (default $OUTPUT_PATH)")
	cmd.Flags().BoolVar(&dev, "dev", false, "include drafts as in development")
	return cmd
}

func runBuild(ctx context.Context, a *app.App, rc model.RenderContext) (*build.Result, error) {
	manifest, err := a.Manifest()
	if err != nil {
		return nil, err
	}

	builder := build.NewBuilder(
		a.Cfg,
		a.BlogService,
		a.SitemapService,
		a.FeedService,
		a.Cfg.OutputPath,
		build.WithManifest(manifest),
		build.WithPublicDir(a.Cfg.PublicPath),
	)
	return builder.Build(ctx, rc)
}
