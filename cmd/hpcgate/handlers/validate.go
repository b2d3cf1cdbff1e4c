package handlers

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/imamik/hpcgate/internal/config"
	"github.com/imamik/hpcgate/internal/metadata"
	"github.com/imamik/hpcgate/internal/model"
	awsplatform "github.com/imamik/hpcgate/internal/platform/aws"
	"github.com/imamik/hpcgate/internal/report"
	"github.com/imamik/hpcgate/internal/util/retry"
	"github.com/imamik/hpcgate/internal/validation"
	"github.com/imamik/hpcgate/internal/validators"
)

// Exit codes of the validate command.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitBlocked = 2
)

// ExitError carries a process exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// newCollaborator creates the metadata collaborator, overridable in tests.
var newCollaborator = func(ctx context.Context, settings *config.Settings) (metadata.Collaborator, error) {
	cfg, err := awsplatform.LoadConfig(ctx, awsOptions(settings))
	if err != nil {
		return nil, err
	}
	return awsplatform.NewEC2Client(cfg, settings.APIRateLimit), nil
}

// ValidateOptions holds the flags of the validate command.
type ValidateOptions struct {
	Source             string
	Suppress           []string
	FailLevel          string
	Output             string
	ArchitecturePolicy string
	Region             string
	Timeout            time.Duration
	NoPrefetch         bool
	MetricsFile        string
}

// Validate validates a cluster document and writes the report to out.
//
// A blocked gate returns an *ExitError with ExitBlocked after the report is
// written. Schema errors and aborted runs return other errors and no report.
func Validate(ctx context.Context, out io.Writer, opts ValidateOptions) error {
	log := logr.FromContextOrDiscard(ctx)

	suppression, err := report.ParseSuppression(opts.Suppress)
	if err != nil {
		return fmt.Errorf("invalid --suppress: %w", err)
	}
	failLevel := validators.Error
	if opts.FailLevel != "" {
		if failLevel, err = validators.ParseSeverity(opts.FailLevel); err != nil {
			return fmt.Errorf("invalid --fail-level: %w", err)
		}
	}
	format, err := report.ParseFormat(opts.Output)
	if err != nil {
		return fmt.Errorf("invalid --output: %w", err)
	}
	policy, err := validation.ParseArchitecturePolicy(opts.ArchitecturePolicy)
	if err != nil {
		return fmt.Errorf("invalid --architecture-policy: %w", err)
	}

	settings := config.LoadSettings()
	if opts.Region != "" {
		settings.Region = opts.Region
	}
	if opts.Timeout > 0 {
		settings.RunTimeout = opts.Timeout
	}

	ctx, cancel := context.WithTimeout(ctx, settings.RunTimeout)
	defer cancel()

	cluster, err := buildCluster(ctx, opts.Source, settings)
	if err != nil {
		return err
	}
	if opts.Region == "" && cluster.Region.Set {
		settings.Region = cluster.Region.Value
	}

	collab, err := newCollaborator(ctx, settings)
	if err != nil {
		return fmt.Errorf("failed to create metadata client: %w", err)
	}

	registry := prometheus.NewRegistry()
	cache := metadata.NewCache(collab,
		metadata.WithLogger(log),
		metadata.WithConcurrency(settings.PrefetchConcurrency),
		metadata.WithMetrics(metadata.NewMetrics(registry)),
		metadata.WithRetry(
			retry.WithMaxAttempts(settings.RetryMaxAttempts),
			retry.WithInitialDelay(settings.RetryInitialDelay),
			retry.WithMaxDelay(settings.RetryMaxDelay),
		),
	)
	engine := validation.NewEngine(cache,
		validation.WithLogger(log),
		validation.WithArchitecturePolicy(policy),
		validation.WithPrefetch(!opts.NoPrefetch),
	)

	log.Info("validating cluster", "source", sourceName(opts.Source), "region", settings.Region, "policy", policy.String())
	results, runErr := engine.Run(ctx, cluster)

	stats := cache.Stats()
	log.V(1).Info("metadata lookups", "calls", stats.ExternalCalls, "hits", stats.Hits)
	if opts.MetricsFile != "" {
		if err := prometheus.WriteToTextfile(opts.MetricsFile, registry); err != nil {
			log.Error(err, "failed to write metrics", "path", opts.MetricsFile)
		}
	}
	if runErr != nil {
		return fmt.Errorf("validation did not complete: %w", runErr)
	}

	rep := report.Aggregate(results, suppression, failLevel)
	if err := report.Write(out, rep, format, colorFor(out, format)); err != nil {
		return err
	}
	if !rep.MayProceed {
		return &ExitError{
			Code: ExitBlocked,
			Err:  fmt.Errorf("validation blocked: findings at or above %s", failLevel),
		}
	}
	return nil
}

func buildCluster(ctx context.Context, source string, settings *config.Settings) (*model.Cluster, error) {
	doc, err := loadDocument(ctx, source, settings)
	if err != nil {
		return nil, fmt.Errorf("failed to load cluster document: %w", err)
	}
	cluster, err := model.Build(doc)
	if err != nil {
		return nil, err
	}
	return cluster, nil
}

func sourceName(source string) string {
	switch source {
	case "":
		return config.DefaultDocumentFilename
	case StdinSource:
		return "stdin"
	default:
		return source
	}
}

func colorFor(out io.Writer, format report.Format) bool {
	f, ok := out.(*os.File)
	return ok && format == report.FormatText && report.ColorEnabled(f)
}
