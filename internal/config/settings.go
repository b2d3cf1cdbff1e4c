package config

import (
	"os"
	"strconv"
	"time"
)

// Settings holds the run-level knobs that are not part of the cluster
// document. These values can be customized via environment variables and
// are overridden by CLI flags.
type Settings struct {
	Region              string        // AWS region for metadata lookups
	Endpoint            string        // Optional EC2/S3 compatible endpoint override
	AccessKeyID         string        // Optional static credentials, both keys required
	SecretAccessKey     string
	RetryMaxAttempts    int           // Maximum attempts for a transient metadata lookup
	RetryInitialDelay   time.Duration // Initial delay between lookup retries
	RetryMaxDelay       time.Duration // Upper bound for the backoff delay
	PrefetchConcurrency int           // Concurrent metadata lookups during prefetch
	APIRateLimit        float64       // EC2 requests per second
	RunTimeout          time.Duration // Deadline for a whole validation run
}

// LoadSettings loads run settings from environment variables.
// If an environment variable is not set or invalid, a default value is used.
//
// Environment Variables:
//   - HPCGATE_REGION, falling back to AWS_REGION (default: empty)
//   - HPCGATE_AWS_ENDPOINT (default: empty)
//   - HPCGATE_AWS_ACCESS_KEY_ID, HPCGATE_AWS_SECRET_ACCESS_KEY (default: SDK credential chain)
//   - HPCGATE_RETRY_MAX_ATTEMPTS (default: 3)
//   - HPCGATE_RETRY_INITIAL_DELAY (default: 200ms)
//   - HPCGATE_RETRY_MAX_DELAY (default: 5s)
//   - HPCGATE_PREFETCH_CONCURRENCY (default: 8)
//   - HPCGATE_API_RATE_LIMIT (default: 10)
//   - HPCGATE_RUN_TIMEOUT (default: 2m)
func LoadSettings() *Settings {
	region := os.Getenv("HPCGATE_REGION")
	if region == "" {
		region = os.Getenv("AWS_REGION")
	}

	return &Settings{
		Region:              region,
		Endpoint:            os.Getenv("HPCGATE_AWS_ENDPOINT"),
		AccessKeyID:         os.Getenv("HPCGATE_AWS_ACCESS_KEY_ID"),
		SecretAccessKey:     os.Getenv("HPCGATE_AWS_SECRET_ACCESS_KEY"),
		RetryMaxAttempts:    parseInt("HPCGATE_RETRY_MAX_ATTEMPTS", 3),
		RetryInitialDelay:   parseDuration("HPCGATE_RETRY_INITIAL_DELAY", 200*time.Millisecond),
		RetryMaxDelay:       parseDuration("HPCGATE_RETRY_MAX_DELAY", 5*time.Second),
		PrefetchConcurrency: parseInt("HPCGATE_PREFETCH_CONCURRENCY", 8),
		APIRateLimit:        parseFloat("HPCGATE_API_RATE_LIMIT", 10),
		RunTimeout:          parseDuration("HPCGATE_RUN_TIMEOUT", 2*time.Minute),
	}
}

// HasStaticCredentials reports whether both static credential keys are set.
func (s *Settings) HasStaticCredentials() bool {
	return s.AccessKeyID != "" && s.SecretAccessKey != ""
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		return defaultVal
	}

	return d
}

// parseInt parses a positive integer from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	i, err := strconv.Atoi(val)
	if err != nil || i <= 0 {
		return defaultVal
	}

	return i
}

func parseFloat(envVar string, defaultVal float64) float64 {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	f, err := strconv.ParseFloat(val, 64)
	if err != nil || f <= 0 {
		return defaultVal
	}

	return f
}
