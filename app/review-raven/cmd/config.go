package cmd

import (
	"log"
	"os"
	"strconv"
	"strings"
)

var config = Config{}

// Config is read once at startup and treated as immutable for the run
type Config struct {
	// Authentication
	GithubToken     string
	AnthropicAPIKey string

	// Model options
	Model           string
	Temperature     float64
	MaxOutputTokens int64

	// Diff options
	MaxDiffBytes    int
	ExcludePatterns []string

	// Invocation options
	QualifiedRepoName string
	PRNumber          int
	ApplyLabels       bool
	Debug             bool

	// Telemetry config
	TelemetryEnabled  bool
	TelemetryEndpoint string
}

func loadOptionalFromEnv(dest *string, key string) {
	parseOptionalFromEnv(dest, key, func(v string) (string, error) { return v, nil })
}

func parseOptionalFromEnv[T any](dest *T, key string, parseFn func(string) (T, error)) {
	str := os.Getenv(key)
	if str == "" {
		return // Leave default value
	}
	v, err := parseFn(str)
	if err != nil {
		log.Fatalf("failed to parse environment variable '%s' value '%s' as '%T': %v", key, str, *dest, err)
	}
	*dest = v
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

func parseInt(s string) (int, error) {
	return strconv.Atoi(s)
}

func parseInt64(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

func parseBool(s string) (bool, error) {
	return strconv.ParseBool(s)
}

func parsePatternList(s string) ([]string, error) {
	var patterns []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			patterns = append(patterns, p)
		}
	}
	return patterns, nil
}
