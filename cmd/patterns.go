package cmd

import (
	"github.com/spf13/cobra"

	"github.com/hatchet-lint/hatchet/internal/escapes"
	"github.com/hatchet-lint/hatchet/internal/lang"
)

// patternsCmd represents the patterns command.
var patternsCmd = newPatternsCmd()

func newPatternsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patterns [path]",
		Short: "List the effective escape patterns",
		Long: `List the escape patterns a check would enforce for the project: the
detected language's defaults merged with the patterns configured in
hatchet.toml.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			root := resolveRoot(args)

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			language := cfg.Project.Language
			if language == "" {
				language = lang.Detect(fsAdapter, root)
			}

			langCfg := cfg.Language(language)
			adapter := lang.New(language, lang.Options{
				Source: langCfg.Source,
				Tests:  langCfg.Tests,
				Ignore: langCfg.Ignore,
			})

			patterns := escapes.EffectivePatterns(cfg, adapter)

			return resultUI(cmd).DisplayPatterns(cmd.Context(), language, patterns)
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(patternsCmd)
}
