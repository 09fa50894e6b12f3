package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// templRoot holds every .templ component.
const templRoot = "internal/ui"

func GenCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Compile .templ components into Go",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGen(force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "regenerate even when every _templ.go file is newer than its source")
	return cmd
}

func runGen(force bool) error {
	if !force && skipTempl() {
		fmt.Println("[templ] skipped")
		return nil
	}

	start := time.Now()
	templ := exec.Command("go", "tool", "templ", "generate", "-path", templRoot)
	templ.Stdout = os.Stdout
	templ.Stderr = os.Stderr
	if err := templ.Run(); err != nil {
		return fmt.Errorf("templ: %w", err)
	}

	fmt.Printf("[templ] done (%s)\n", time.Since(start).Round(time.Millisecond))
	return nil
}

func skipTempl() bool {
	var templFiles []string
	_ = filepath.WalkDir(templRoot, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if strings.HasSuffix(path, ".templ") {
			templFiles = append(templFiles, path)
		}
		return nil
	})

	for _, templFile := range templFiles {
		outFile := strings.TrimSuffix(templFile, ".templ") + "_templ.go"
		if !isUpToDate(outFile, []string{templFile}) {
			return false
		}
	}
	return true
}

func isUpToDate(output string, inputs []string) bool {
	outInfo, err := os.Stat(output)
	if err != nil {
		return false
	}
	outMod := outInfo.ModTime()

	for _, input := range inputs {
		inInfo, err := os.Stat(input)
		if err != nil {
			continue
		}
		if inInfo.ModTime().After(outMod) {
			return false
		}
	}
	return true
}
