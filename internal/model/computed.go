package model

import (
	"context"
	"fmt"
	"sync"

	"github.com/imamik/hpcgate/internal/metadata"
)

// memo is a write-once value. A failed computation is not stored; the cache
// behind it already keeps the failure, so a retry issues no new query.
type memo[T any] struct {
	mu   sync.Mutex
	done bool
	v    T
}

func (m *memo[T]) get(compute func() (T, error)) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.done {
		return m.v, nil
	}
	v, err := compute()
	if err != nil {
		var zero T
		return zero, err
	}
	m.v, m.done = v, true
	return v, nil
}

// Architecture returns the head node architecture derived from its instance type.
func (h *HeadNode) Architecture(ctx context.Context, cache metadata.Getter) (string, error) {
	return h.architecture.get(func() (string, error) {
		info, err := cache.InstanceType(ctx, h.InstanceType.Value)
		if err != nil {
			return "", err
		}
		return info.Architecture(), nil
	})
}

// VCPUs returns the usable vCPU count of the head node: cores when
// multithreading is disabled, vCPUs otherwise.
func (h *HeadNode) VCPUs(ctx context.Context, cache metadata.Getter) (int, error) {
	return h.vcpus.get(func() (int, error) {
		info, err := cache.InstanceType(ctx, h.InstanceType.Value)
		if err != nil {
			return 0, err
		}
		return usableVCPUs(info, h.DisableSMT.Value), nil
	})
}

// Architecture returns the architecture of the primary instance type.
func (c *ComputeResource) Architecture(ctx context.Context, cache metadata.Getter) (string, error) {
	return c.architecture.get(func() (string, error) {
		it := c.PrimaryInstanceType()
		if it == "" {
			return "", fmt.Errorf("%s: no instance type", c.Path())
		}
		info, err := cache.InstanceType(ctx, it)
		if err != nil {
			return "", err
		}
		return info.Architecture(), nil
	})
}

// VCPUs returns the usable vCPU count of the primary instance type.
func (c *ComputeResource) VCPUs(ctx context.Context, cache metadata.Getter) (int, error) {
	return c.vcpus.get(func() (int, error) {
		it := c.PrimaryInstanceType()
		if it == "" {
			return 0, fmt.Errorf("%s: no instance type", c.Path())
		}
		info, err := cache.InstanceType(ctx, it)
		if err != nil {
			return 0, err
		}
		return usableVCPUs(info, c.DisableSMT.Value), nil
	})
}

func usableVCPUs(info metadata.InstanceTypeInfo, disableSMT bool) int {
	if disableSMT && info.DefaultCores > 0 {
		return info.DefaultCores
	}
	return info.VCPUs
}
