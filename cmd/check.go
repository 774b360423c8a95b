package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hatchet-lint/hatchet/internal/adapter"
	"github.com/hatchet-lint/hatchet/internal/controller"
	"github.com/hatchet-lint/hatchet/internal/escapes"
	m "github.com/hatchet-lint/hatchet/internal/model"
)

// errCheckFailed marks a completed run that found violations, so the
// process exits non-zero without cobra printing a usage block.
var errCheckFailed = fmt.Errorf("check failed")

// checkCmd represents the check command.
var checkCmd = newCheckCmd()

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [path]",
		Short: "Scan for escape hatches and enforce the configured policy",
		Long: `Scan the project for escape hatches and lint suppressions, enforce the
configured policy, and print per-pattern usage metrics. Exits non-zero
when the check fails.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			configureLogger("", viper.GetBool(logVerboseKey))

			root := resolveRoot(args)

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			cache := adapter.NewNoopResultCache()
			if !viper.GetBool(noCacheFlagName) {
				cache = adapter.NewFileResultCache(filepath.Join(string(root), defaultCacheDir, "results.gob"))
			}

			check := escapes.NewChecker(fsAdapter, gitAdapter, cache, cfg, root, escapes.Options{
				Base:    viper.GetString(checkBaseKey),
				Threads: viper.GetInt(checkThreadsKey),
			})

			result, err := check.Run(cmd.Context())
			if err != nil {
				return err
			}

			if err := resultUI(cmd).DisplayResult(cmd.Context(), result); err != nil {
				return err
			}

			if result.Failed() {
				return errCheckFailed
			}

			return nil
		},
	}

	return cmd
}

// projectMarkers anchor root resolution when check runs without an
// explicit path argument.
var projectMarkers = []string{
	configFileName,
	"Cargo.toml",
	"go.mod",
	"package.json",
	"pyproject.toml",
	"Gemfile",
}

// resolveRoot returns the explicit path argument when given, otherwise
// the nearest ancestor of the working directory carrying a project
// marker. Without a marker the working directory itself is the root.
func resolveRoot(args []string) m.Path {
	if len(args) == 1 {
		return m.Path(args[0])
	}

	wd, err := os.Getwd()
	if err != nil {
		return "."
	}

	root, err := fsAdapter.FindProjectRoot(m.Path(wd), projectMarkers)
	if err != nil {
		return m.Path(wd)
	}

	return root
}

// resultUI picks the renderer the format flag asks for.
func resultUI(cmd *cobra.Command) controller.UI {
	if viper.GetString(outputFormatKey) == "json" {
		return controller.NewJSONUI(cmd.OutOrStdout())
	}

	return controller.NewTextUI(cmd)
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
