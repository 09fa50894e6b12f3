package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/templui/blogfeed/internal/build"
	"github.com/templui/blogfeed/internal/storage"
)

func PublishCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Build the production site and upload changed files to S3",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			defer a.Close()

			if a.Cfg.IsDevelopment() {
				return fmt.Errorf("refusing to publish with APP_ENV=%s", a.Cfg.AppEnv)
			}

			var target storage.Storage
			if dryRun {
				target = storage.NewMemoryStorage()
			} else {
				err = a.Cfg.ValidatePublish()
				if err != nil {
					return err
				}
				target, err = storage.New(cmd.Context(), a.Cfg)
				if err != nil {
					return err
				}
			}

			built, err := runBuild(cmd.Context(), a, a.Cfg.RenderContext())
			if err != nil {
				return err
			}
			fmt.Printf("==> Built %s: %d written, %d unchanged\n", built.BuildID, len(built.Written), len(built.Unchanged))

			manifest, err := a.Manifest()
			if err != nil {
				return err
			}
			var opts []build.PublishOption
			if dryRun {
				opts = append(opts, build.WithDryRun())
			}
			result, err := build.NewPublisher(manifest, target, a.Cfg.OutputPath, opts...).Publish(cmd.Context())
			if err != nil {
				return err
			}

			for _, path := range result.Uploaded {
				fmt.Println("  uploaded", target.URL(path))
			}
			for _, path := range result.Deleted {
				fmt.Println("  deleted ", target.URL(path))
			}
			fmt.Printf("==> Published: %d uploaded, %d unchanged, %d deleted\n",
				len(result.Uploaded), len(result.Skipped), len(result.Deleted))
			if dryRun {
				fmt.Println("==> Dry run: nothing left this machine, manifest unchanged")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report what would be uploaded without touching S3 or the manifest")
	return cmd
}
