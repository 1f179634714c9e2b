package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/mhaywood/review-raven/internal/ai"
	"github.com/mhaywood/review-raven/internal/prcontext"
	"github.com/mhaywood/review-raven/internal/review"
	"github.com/mhaywood/review-raven/internal/telemetry"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Review a single pull request",
	Long: `Reviews a single pull request and prints the result as a JSON object on
stdout. This mode is designed to be triggered by GitHub Actions.

Configuration errors (missing credentials, empty or oversized diff) terminate
with a plain-text error before the model is called. Any failure after that
point still produces the JSON result object.`,
	PreRun: loadReviewConfig,
	RunE:   runReview,
}

func init() {
	reviewCmd.Flags().StringVar(&config.QualifiedRepoName, "repo", "", "Repository name in the format 'owner/repo'")
	reviewCmd.Flags().IntVar(&config.PRNumber, "pr", 0, "Pull request number to review")
	reviewCmd.Flags().BoolVar(&config.ApplyLabels, "apply-labels", false, "Apply the labels suggested by the review to the pull request")

	_ = reviewCmd.MarkFlagRequired("repo")
	_ = reviewCmd.MarkFlagRequired("pr")

	rootCmd.AddCommand(reviewCmd)
}

func loadReviewConfig(_ *cobra.Command, _ []string) {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Defaults
	config.Model = "claude-sonnet-4-20250514"
	config.Temperature = 0.2
	config.MaxOutputTokens = 8192
	config.MaxDiffBytes = 400_000

	loadOptionalFromEnv(&config.GithubToken, "GITHUB_TOKEN")
	loadOptionalFromEnv(&config.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	loadOptionalFromEnv(&config.Model, "REVIEW_MODEL")
	parseOptionalFromEnv(&config.Temperature, "REVIEW_TEMPERATURE", parseFloat)
	parseOptionalFromEnv(&config.MaxOutputTokens, "REVIEW_MAX_TOKENS", parseInt64)
	parseOptionalFromEnv(&config.MaxDiffBytes, "REVIEW_MAX_DIFF_BYTES", parseInt)
	parseOptionalFromEnv(&config.ExcludePatterns, "REVIEW_EXCLUDE_PATTERNS", parsePatternList)
	parseOptionalFromEnv(&config.Debug, "REVIEW_DEBUG", parseBool)
	parseOptionalFromEnv(&config.TelemetryEnabled, "TELEMETRY_ENABLED", parseBool)
	loadOptionalFromEnv(&config.TelemetryEndpoint, "OTEL_EXPORTER_OTLP_ENDPOINT")
}

func runReview(cmd *cobra.Command, args []string) error {
	ctx := setupContext()

	// Pre-flight checks terminate before any model interaction: plain-text
	// error, non-zero exit, no JSON envelope
	if config.GithubToken == "" {
		return fmt.Errorf("missing required environment variable: GITHUB_TOKEN")
	}
	if config.AnthropicAPIKey == "" {
		return fmt.Errorf("missing required environment variable: ANTHROPIC_API_KEY")
	}

	parts := strings.Split(config.QualifiedRepoName, "/")
	if len(parts) != 2 {
		return fmt.Errorf("invalid repository format '%s', expected owner/repo", config.QualifiedRepoName)
	}
	owner, repo := parts[0], parts[1]

	telemetryProvider, err := telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:  config.TelemetryEnabled,
		Endpoint: config.TelemetryEndpoint,
		Version:  versionInfo.version,
	})
	if err != nil {
		return fmt.Errorf("failed to set up telemetry: %w", err)
	}
	defer func() {
		if err := telemetryProvider.Shutdown(context.Background()); err != nil {
			log.Printf("Warning: failed to shut down telemetry: %v", err)
		}
	}()
	tracer := telemetryProvider.Tracer()

	runID := telemetry.NewRunID()
	log.Printf("Reviewing %s/%s#%d (run %s)", owner, repo, config.PRNumber, runID)

	ctx, reviewSpan := tracer.Start(ctx, "review", trace.WithAttributes(
		attribute.String("repo", config.QualifiedRepoName),
		attribute.Int("pr", config.PRNumber),
		attribute.String("run_id", runID),
	))
	defer reviewSpan.End()

	// Collect PR context
	collectCtx, collectSpan := tracer.Start(ctx, "collect")
	collector := prcontext.NewCollector(createGithubClient(ctx, config.GithubToken))
	prCtx, err := collector.Collect(collectCtx, owner, repo, config.PRNumber)
	collectSpan.End()
	if err != nil {
		return fmt.Errorf("failed to collect pull request context: %w", err)
	}

	// Filter and size-check the diff; still pre-flight, still pre-model
	prCtx.Diff = prcontext.FilterDiff(prCtx.Diff, config.ExcludePatterns)
	if err := prcontext.ValidateDiff(prCtx.Diff, config.MaxDiffBytes); err != nil {
		return err
	}

	prompt, err := review.BuildPrompt(*prCtx)
	if err != nil {
		return fmt.Errorf("failed to build prompt: %w", err)
	}
	if config.Debug {
		log.Printf("[debug] prompt is %d bytes, diff is %d bytes", len(prompt), len(prCtx.Diff))
	}

	// From here on, every outcome emits the JSON envelope
	client := ai.NewReviewClient(
		createAnthropicClient(config.AnthropicAPIKey),
		config.Model, config.Temperature, config.MaxOutputTokens,
	)

	modelCtx, modelSpan := tracer.Start(ctx, "model_request")
	raw, err := client.RequestReview(modelCtx, review.SystemPrompt(), prompt)
	modelSpan.End()
	if err != nil {
		res := review.FromModelError(err)
		if emitErr := review.Emit(os.Stdout, res); emitErr != nil {
			log.Printf("Warning: failed to emit error result: %v", emitErr)
		}
		return fmt.Errorf("model request failed: %w", err)
	}

	if config.Debug {
		log.Printf("[debug] raw model output (%d bytes): %s", len(raw), raw)
	}

	_, normalizeSpan := tracer.Start(ctx, "normalize")
	res := review.Normalize(raw)
	normalizeSpan.End()

	if err := review.Emit(os.Stdout, res); err != nil {
		return fmt.Errorf("failed to emit review result: %w", err)
	}
	log.Printf("Review complete: verdict=%s, labels=%v", res.Verdict, res.LabelsAdded)

	// Label application is best-effort: the envelope is already out
	if config.ApplyLabels && len(res.LabelsAdded) > 0 {
		if err := collector.AddLabels(ctx, owner, repo, config.PRNumber, res.LabelsAdded); err != nil {
			log.Printf("Warning: %v", err)
		}
	}

	return nil
}
