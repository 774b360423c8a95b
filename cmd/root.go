// Package cmd provides the root command and CLI setup for hatchet.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/hatchet-lint/hatchet/internal/adapter"
)

var fsAdapter adapter.SourceFSAdapter
var gitAdapter adapter.GitAdapter

// baseFlag is the git rev changed files are compared against for the
// lint change policy.
var baseFlag string

// formatFlag selects the output renderer (text or json).
var formatFlag string

// threadsFlag caps concurrent file checks.
var threadsFlag int

// noCacheFlag disables the incremental result cache when set.
var noCacheFlag bool

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	gitAdapter = adapter.NewLocalGitAdapter()
}

const rootLongDescription = `Hatchet finds escape hatches in source code (unsafe blocks, debug
statements, lint suppressions) and enforces a configurable policy on
their use: forbid them, require a justification comment, or cap their
count.

Configuration lives in hatchet.toml at the project root. Run
"hatchet init" to generate one with the defaults.`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hatchet",
		Short: "Escape hatch linter",
		Long:  rootLongDescription,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&baseFlag, baseFlagName, "b", viper.GetString(checkBaseKey), "git rev to diff against for the lint change policy")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(baseFlagName), checkBaseKey)

	cmd.PersistentFlags().StringVarP(&formatFlag, formatFlagName, "f", viper.GetString(outputFormatKey), "output format: text or json")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(formatFlagName), outputFormatKey)

	cmd.PersistentFlags().IntVarP(&threadsFlag, threadsFlagName, "t", viper.GetInt(checkThreadsKey), "number of concurrent file checks (0 = unbounded)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(threadsFlagName), checkThreadsKey)

	cmd.PersistentFlags().BoolVar(&noCacheFlag, noCacheFlagName, viper.GetBool(noCacheFlagName), "disable the incremental result cache (re-check everything)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(noCacheFlagName), noCacheFlagName)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
