package validation

import (
	"context"
	"errors"
	"time"

	"github.com/go-logr/logr"

	"github.com/imamik/hpcgate/internal/metadata"
	"github.com/imamik/hpcgate/internal/model"
	"github.com/imamik/hpcgate/internal/validators"
)

// Cache is the metadata source of a run.
type Cache interface {
	metadata.Getter
	Prefetch(ctx context.Context, queries []metadata.Query) error
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the run logger.
func WithLogger(log logr.Logger) Option {
	return func(e *Engine) {
		e.log = log
	}
}

// WithArchitecturePolicy selects whose architecture governs compute resource checks.
func WithArchitecturePolicy(p ArchitecturePolicy) Option {
	return func(e *Engine) {
		e.policy = p
	}
}

// WithPrefetch enables or disables warming the cache before the walk.
func WithPrefetch(enabled bool) Option {
	return func(e *Engine) {
		e.prefetch = enabled
	}
}

// WithRegistry replaces the default rule catalog.
func WithRegistry(r *Registry) Option {
	return func(e *Engine) {
		e.registry = r
	}
}

// Engine runs the registered rules over a resource tree.
type Engine struct {
	cache    Cache
	registry *Registry
	policy   ArchitecturePolicy
	prefetch bool
	log      logr.Logger
}

// NewEngine returns an engine reading metadata from cache.
func NewEngine(cache Cache, opts ...Option) *Engine {
	e := &Engine{
		cache:    cache,
		policy:   HeadNodeGoverns,
		prefetch: true,
		log:      logr.Discard(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.registry == nil {
		e.registry = NewRegistry()
	}
	return e
}

// Run validates every node of cluster and then runs the cross-entity rules.
// Results are ordered by node in pre-order, then by rule registration order.
//
// A tree can be run once. A failed lookup other than NotFound returns an
// *AbortError; cancellation returns a *PartialRunError.
func (e *Engine) Run(ctx context.Context, cluster *model.Cluster) ([]validators.Result, error) {
	start := time.Now()
	env := &Env{Ctx: ctx, Cluster: cluster, Cache: e.cache, Policy: e.policy, Logger: e.log}

	if e.prefetch {
		if err := e.cache.Prefetch(ctx, Queries(cluster)); err != nil {
			if ctx.Err() != nil {
				return nil, &PartialRunError{Err: ctx.Err()}
			}
			// Failed entries are cached; the rule that needs one aborts.
			e.log.V(1).Info("prefetch incomplete", "error", err.Error())
		}
	}

	var out []validators.Result
	validated := 0
	err := model.Walk(cluster, func(n model.Node) error {
		if err := ctx.Err(); err != nil {
			return &PartialRunError{Validated: validated, Err: err}
		}
		if err := n.BeginValidation(); err != nil {
			return err
		}
		for _, r := range e.registry.Rules(n.Kind()) {
			res, err := r.Check(env, n)
			if err != nil {
				return e.ruleError(ctx, r.Type, n.Path(), validated, err)
			}
			out = append(out, located(res, n.Path())...)
		}
		n.FinishValidation()
		validated++
		return nil
	})
	if err != nil {
		var pe *PartialRunError
		if errors.As(err, &pe) {
			pe.Results = out
		}
		return nil, err
	}

	for _, r := range e.registry.CrossRules() {
		if err := ctx.Err(); err != nil {
			return nil, &PartialRunError{Validated: validated, Results: out, Err: err}
		}
		res, err := r.Check(env)
		if err != nil {
			rerr := e.ruleError(ctx, r.Type, r.Path, validated, err)
			var pe *PartialRunError
			if errors.As(rerr, &pe) {
				pe.Results = out
			}
			return nil, rerr
		}
		out = append(out, located(res, r.Path)...)
	}

	e.log.Info("validation finished",
		"nodes", validated,
		"results", len(out),
		"policy", e.policy.String(),
		"duration", time.Since(start).String())
	return out, nil
}

func (e *Engine) ruleError(ctx context.Context, t validators.Type, path string, validated int, err error) error {
	if cerr := ctx.Err(); cerr != nil {
		return &PartialRunError{Validated: validated, Err: cerr}
	}
	e.log.Error(err, "metadata lookup failed", "validator", t.String(), "path", path)
	return &AbortError{Type: t, Path: path, Err: err}
}

// located sets the path of results that do not carry one.
func located(res []validators.Result, path string) []validators.Result {
	for i := range res {
		if res[i].Path == "" {
			res[i].Path = path
		}
	}
	return res
}
