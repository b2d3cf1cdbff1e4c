package metadata

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/go-logr/logr"
	"golang.org/x/sync/singleflight"

	"github.com/imamik/hpcgate/internal/util/async"
	"github.com/imamik/hpcgate/internal/util/retry"
)

// Getter is the read side of the cache used by computed attributes and
// validation rules.
type Getter interface {
	InstanceType(ctx context.Context, instanceType string) (InstanceTypeInfo, error)
	SubnetAvailabilityZone(ctx context.Context, subnetID string) (string, error)
	ImageExists(ctx context.Context, imageID string) (bool, error)
	SecurityGroupRules(ctx context.Context, groupID string) (SecurityGroupRules, error)
	CapacityReservation(ctx context.Context, reservationID string) (CapacityReservationInfo, error)
}

// Stats is a snapshot of per-kind counters.
type Stats struct {
	ExternalCalls map[QueryKind]int64
	Hits          map[QueryKind]int64
}

// Option configures a Cache.
type Option func(*Cache)

// WithLogger sets the logger used for retry and prefetch messages.
func WithLogger(log logr.Logger) Option {
	return func(c *Cache) {
		c.log = log
	}
}

// WithRetry sets the retry options applied to transient failures.
func WithRetry(opts ...retry.Option) Option {
	return func(c *Cache) {
		c.retryOpts = append(c.retryOpts, opts...)
	}
}

// WithConcurrency bounds the number of concurrent prefetch lookups.
func WithConcurrency(n int) Option {
	return func(c *Cache) {
		c.concurrency = n
	}
}

// WithMetrics sets the Prometheus counters updated by the cache.
func WithMetrics(m *Metrics) Option {
	return func(c *Cache) {
		c.metrics = m
	}
}

type entry struct {
	value any
	err   error
}

type partition struct {
	mu      sync.RWMutex
	entries map[string]entry
	calls   atomic.Int64
	hits    atomic.Int64
}

func (p *partition) lookup(key string) (entry, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	e, ok := p.entries[key]
	return e, ok
}

// Cache memoizes collaborator queries for the lifetime of one validation run.
type Cache struct {
	collab      Collaborator
	log         logr.Logger
	retryOpts   []retry.Option
	concurrency int
	metrics     *Metrics

	group      singleflight.Group
	partitions map[QueryKind]*partition
}

// NewCache creates an empty cache in front of collab.
func NewCache(collab Collaborator, opts ...Option) *Cache {
	c := &Cache{
		collab:      collab,
		log:         logr.Discard(),
		concurrency: 8,
		partitions:  make(map[QueryKind]*partition, len(Kinds())),
	}
	for _, k := range Kinds() {
		c.partitions[k] = &partition{entries: make(map[string]entry)}
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached value for (kind, key), querying the collaborator on
// first use. Concurrent callers for the same key share one external call.
// Failed lookups are returned as *LookupError and cached like values, except
// for context cancellation.
func (c *Cache) Get(ctx context.Context, kind QueryKind, key string) (any, error) {
	p, ok := c.partitions[kind]
	if !ok {
		return nil, fmt.Errorf("unknown metadata query kind %q", kind)
	}

	if e, ok := p.lookup(key); ok {
		c.recordHit(kind, p)
		return e.value, e.err
	}

	fetched := false
	v, err, _ := c.group.Do(string(kind)+"/"+key, func() (any, error) {
		if e, ok := p.lookup(key); ok {
			return e.value, e.err
		}
		fetched = true

		value, err := c.fetch(ctx, kind, key)
		if err != nil && ctx.Err() != nil {
			return nil, err
		}

		p.mu.Lock()
		p.entries[key] = entry{value: value, err: err}
		p.mu.Unlock()
		return value, err
	})
	if !fetched {
		c.recordHit(kind, p)
	}
	return v, err
}

func (c *Cache) fetch(ctx context.Context, kind QueryKind, key string) (any, error) {
	var value any
	op := func() error {
		c.recordCall(kind)
		v, err := c.call(ctx, kind, key)
		if err != nil {
			if Classify(err) == ClassTransient {
				return err
			}
			return retry.Fatal(err)
		}
		value = v
		return nil
	}

	opts := append([]retry.Option{}, c.retryOpts...)
	opts = append(opts, retry.WithOnRetry(func(attempt int, err error) {
		c.log.V(1).Info("retrying metadata lookup", "kind", string(kind), "key", key, "attempt", attempt, "error", err.Error())
	}))

	if err := retry.WithExponentialBackoff(ctx, op, opts...); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%s lookup for %q interrupted: %w", kind, key, ctx.Err())
		}
		return nil, &LookupError{Kind: kind, Key: key, Class: Classify(err), Err: err}
	}
	return value, nil
}

func (c *Cache) call(ctx context.Context, kind QueryKind, key string) (any, error) {
	switch kind {
	case KindInstanceType:
		return c.collab.DescribeInstanceType(ctx, key)
	case KindSubnetAZ:
		return c.collab.GetSubnetAvailabilityZone(ctx, key)
	case KindImage:
		return c.collab.ImageExists(ctx, key)
	case KindSecurityGroupRules:
		return c.collab.DescribeSecurityGroupRules(ctx, key)
	case KindCapacityReservation:
		return c.collab.DescribeCapacityReservation(ctx, key)
	default:
		return nil, fmt.Errorf("unknown metadata query kind %q", kind)
	}
}

func (c *Cache) recordCall(kind QueryKind) {
	c.partitions[kind].calls.Add(1)
	if c.metrics != nil {
		c.metrics.ExternalCalls.WithLabelValues(string(kind)).Inc()
	}
}

func (c *Cache) recordHit(kind QueryKind, p *partition) {
	p.hits.Add(1)
	if c.metrics != nil {
		c.metrics.CacheHits.WithLabelValues(string(kind)).Inc()
	}
}

// Stats returns a snapshot of the per-kind call and hit counters.
func (c *Cache) Stats() Stats {
	s := Stats{
		ExternalCalls: make(map[QueryKind]int64, len(c.partitions)),
		Hits:          make(map[QueryKind]int64, len(c.partitions)),
	}
	for k, p := range c.partitions {
		s.ExternalCalls[k] = p.calls.Load()
		s.Hits[k] = p.hits.Load()
	}
	return s
}

// Prefetch resolves distinct queries concurrently so later lookups are
// answered from memory. Not-found results are not errors here; every other
// failure is returned joined.
func (c *Cache) Prefetch(ctx context.Context, queries []Query) error {
	seen := make(map[Query]bool, len(queries))
	unique := make([]Query, 0, len(queries))
	for _, q := range queries {
		if q.Key == "" || seen[q] {
			continue
		}
		seen[q] = true
		unique = append(unique, q)
	}
	sort.Slice(unique, func(i, j int) bool {
		if unique[i].Kind != unique[j].Kind {
			return unique[i].Kind < unique[j].Kind
		}
		return unique[i].Key < unique[j].Key
	})

	tasks := make([]async.Task, 0, len(unique))
	for _, q := range unique {
		tasks = append(tasks, async.Task{
			Name: string(q.Kind) + "/" + q.Key,
			Func: func(ctx context.Context) error {
				_, err := c.Get(ctx, q.Kind, q.Key)
				if err != nil && !IsNotFound(err) {
					return err
				}
				return nil
			},
		})
	}

	c.log.V(1).Info("prefetching metadata", "queries", len(tasks), "concurrency", c.concurrency)
	return async.RunParallel(ctx, tasks, async.WithLimit(c.concurrency))
}

// InstanceType returns the capabilities of an instance type.
func (c *Cache) InstanceType(ctx context.Context, instanceType string) (InstanceTypeInfo, error) {
	v, err := c.Get(ctx, KindInstanceType, instanceType)
	if err != nil {
		return InstanceTypeInfo{}, err
	}
	return v.(InstanceTypeInfo), nil
}

// SubnetAvailabilityZone returns the availability zone of a subnet.
func (c *Cache) SubnetAvailabilityZone(ctx context.Context, subnetID string) (string, error) {
	v, err := c.Get(ctx, KindSubnetAZ, subnetID)
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// ImageExists reports whether an image is visible to the account.
func (c *Cache) ImageExists(ctx context.Context, imageID string) (bool, error) {
	v, err := c.Get(ctx, KindImage, imageID)
	if err != nil {
		if IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return v.(bool), nil
}

// SecurityGroupRules returns the permissions of a security group.
func (c *Cache) SecurityGroupRules(ctx context.Context, groupID string) (SecurityGroupRules, error) {
	v, err := c.Get(ctx, KindSecurityGroupRules, groupID)
	if err != nil {
		return SecurityGroupRules{}, err
	}
	return v.(SecurityGroupRules), nil
}

// CapacityReservation returns the targeting attributes of a reservation.
func (c *Cache) CapacityReservation(ctx context.Context, reservationID string) (CapacityReservationInfo, error) {
	v, err := c.Get(ctx, KindCapacityReservation, reservationID)
	if err != nil {
		return CapacityReservationInfo{}, err
	}
	return v.(CapacityReservationInfo), nil
}

// IsAbort reports whether err must abort the run instead of becoming a finding.
func IsAbort(err error) bool {
	return err != nil && !IsNotFound(err)
}

var _ Getter = (*Cache)(nil)
