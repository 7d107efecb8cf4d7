package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/phrazzld/mindflow-api/internal/generation"
	"github.com/phrazzld/mindflow-api/internal/platform/providers"
	"github.com/spf13/cobra"
)

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var prompt, system string
	var skipProbe bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Send one request through the generation gateway",
		Long: "Send one request through the generation gateway. The primary provider is probed " +
			"first, as the server does at startup, unless --skip-probe is given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(prompt) == "" {
				return errors.New("--prompt is required")
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			log := ctx.logger(cmd)

			set, err := providers.New(cmd.Context(), cfg.LLM, log)
			if err != nil {
				return err
			}

			health := generation.NewProviderHealth()
			if !skipProbe {
				generation.Probe(cmd.Context(), set.Primary, health, cfg.LLM.RequestTimeout(), log)
			}

			gateway, err := set.NewGateway(cfg.LLM, health, log)
			if err != nil {
				return err
			}

			result, err := gateway.Generate(cmd.Context(), generation.Request{
				Prompt:            prompt,
				SystemInstruction: system,
			})
			if err != nil {
				return fmt.Errorf("generation failed: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Provider: %s (%s)\n", result.ProviderName, result.ProviderUsed)
			fmt.Fprintf(out, "Primary health: %s\n\n", health.State())
			fmt.Fprintln(out, result.Text)
			return nil
		},
	}

	cmd.Flags().StringVarP(&prompt, "prompt", "p", "", "Prompt to send")
	cmd.Flags().StringVarP(&system, "system", "s", "", "System instruction (defaults to the configured one)")
	cmd.Flags().BoolVar(&skipProbe, "skip-probe", false, "Send straight to the secondary provider")
	return cmd
}
