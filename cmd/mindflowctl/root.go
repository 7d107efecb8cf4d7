package main

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/phrazzld/mindflow-api/internal/config"
	"github.com/phrazzld/mindflow-api/internal/platform/logger"
	"github.com/spf13/cobra"
)

type commandContext struct {
	configFlag  *string
	envFileFlag *string
	verbose     *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		c.config, c.configErr = config.LoadWithOptions(config.Options{
			ConfigFile: strings.TrimSpace(*c.configFlag),
			EnvFile:    strings.TrimSpace(*c.envFileFlag),
		})
	})
	return c.config, c.configErr
}

// logger writes diagnostics to stderr so stdout stays clean for results.
func (c *commandContext) logger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if *c.verbose {
		level = slog.LevelDebug
	}
	return logger.New(cmd.ErrOrStderr(), level, false)
}

func newRootCommand() *cobra.Command {
	var configFlag, envFileFlag string
	var verbose bool

	ctx := &commandContext{
		configFlag:  &configFlag,
		envFileFlag: &envFileFlag,
		verbose:     &verbose,
	}

	rootCmd := &cobra.Command{
		Use:           "mindflowctl",
		Short:         "Operator tools for the MindFlow API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&envFileFlag, "env-file", ".env", "Dotenv file loaded before reading the environment")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")

	rootCmd.AddCommand(newProbeCommand(ctx))
	rootCmd.AddCommand(newGenerateCommand(ctx))
	rootCmd.AddCommand(newMigrateCommand(ctx))
	rootCmd.AddCommand(newHashPasswordCommand())

	return rootCmd
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
