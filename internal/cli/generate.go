// Package cli implements the generate command: the untrusted client that
// drives a job through the gateway and saves the result locally.
package cli

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"vidgen/internal/backend"
	"vidgen/internal/domain"
	"vidgen/internal/infra"
	"vidgen/internal/orchestrator"
	"vidgen/internal/prompt"
	"vidgen/internal/storage"
)

type generateFlags struct {
	model    string
	proxyURL string
	guidance float64
	enhance  bool
	tidy     bool
	output   string
	interval time.Duration
	maxPoll  time.Duration
}

// NewRootCmd builds the generate command tree. Flag defaults honor the same
// environment variables the gateway reads, so one .env configures both sides.
func NewRootCmd() *cobra.Command {
	_ = godotenv.Load()
	flags := &generateFlags{}
	defaultInterval, defaultMaxPoll := pollDefaults()

	cmd := &cobra.Command{
		Use:   "generate [flags] PROMPT...",
		Short: "Generate a video from a text prompt",
		Long: "Submits a text prompt to a video-generation backend through the " +
			"local gateway, polls the job until it finishes and prints the media URL.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, flags, strings.Join(args, " "))
		},
	}

	cmd.Flags().StringVarP(&flags.model, "model", "m", "ltx-video",
		fmt.Sprintf("backend model, one of: %s", strings.Join(backend.IDs(), ", ")))
	cmd.Flags().StringVar(&flags.proxyURL, "proxy-url", "http://localhost:8080/api",
		"base URL of the gateway's proxied API")
	cmd.Flags().Float64VarP(&flags.guidance, "guidance", "g", 0,
		"guidance scale in [1,10]; 0 uses the backend default")
	cmd.Flags().BoolVar(&flags.enhance, "enhance", false,
		"ask the backend to rewrite the prompt before generation (ignored by backends without support)")
	cmd.Flags().BoolVar(&flags.tidy, "tidy", false,
		"normalize whitespace and capitalization locally before submitting")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "",
		"save the generated media to this file")
	cmd.Flags().DurationVar(&flags.interval, "poll-interval", defaultInterval,
		"wait between status polls (default from POLL_INTERVAL_SECONDS)")
	cmd.Flags().DurationVar(&flags.maxPoll, "max-poll", defaultMaxPoll,
		"abort polling after this long; 0 polls until the job finishes (default from MAX_POLL_SECONDS)")

	return cmd
}

// pollDefaults pulls poll tuning from the environment, falling back to the
// built-in defaults when the configuration cannot be loaded.
func pollDefaults() (interval, maxPoll time.Duration) {
	interval, maxPoll = 2*time.Second, 0
	if cfg, err := infra.LoadConfig(); err == nil {
		interval, maxPoll = cfg.PollInterval, cfg.MaxPollTime
	}
	return interval, maxPoll
}

func runGenerate(cmd *cobra.Command, flags *generateFlags, promptText string) error {
	cmd.SilenceUsage = true

	logger := infra.NewLogger("development")
	if flags.tidy {
		promptText = prompt.Tidy(promptText)
	}

	client := orchestrator.NewClient(orchestrator.ClientOptions{
		BaseURL: flags.proxyURL,
		Logger:  &logger,
	})
	orch := orchestrator.New(orchestrator.Options{
		Client:       client,
		PollInterval: flags.interval,
		MaxPollTime:  flags.maxPoll,
		Logger:       &logger,
	})

	result, err := orch.Generate(cmd.Context(), flags.model, promptText, domain.TuningOptions{
		GuidanceScale: flags.guidance,
		PromptEnhance: flags.enhance,
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), result.MediaURL)

	if flags.output != "" {
		store, err := storage.NewFileStore(filepath.Dir(flags.output), nil)
		if err != nil {
			return err
		}
		path, err := store.SaveURL(cmd.Context(), result.MediaURL, filepath.Base(flags.output))
		if err != nil {
			return err
		}
		logger.Info().Str("path", path).Msg("media saved")
	}
	return nil
}
