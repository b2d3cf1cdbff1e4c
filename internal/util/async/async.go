package async

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Task represents an asynchronous operation with a name and function.
type Task struct {
	Name string
	Func func(context.Context) error
}

// Option configures RunParallel.
type Option func(*options)

type options struct {
	limit int
}

// WithLimit bounds the number of tasks running at the same time.
// Zero or a negative value means unbounded.
func WithLimit(n int) Option {
	return func(o *options) {
		o.limit = n
	}
}

// RunParallel executes tasks in parallel and waits for all of them.
// A failing task does not cancel its siblings; every error is collected and
// returned through errors.Join, each prefixed with its task name.
//
// Example:
//
//	tasks := []Task{
//	    {Name: "instance-type/c5n.18xlarge", Func: fetchInstanceType},
//	    {Name: "subnet-az/subnet-123", Func: fetchSubnet},
//	}
//	if err := RunParallel(ctx, tasks, WithLimit(8)); err != nil {
//	    return err
//	}
func RunParallel(ctx context.Context, tasks []Task, opts ...Option) error {
	if len(tasks) == 0 {
		return nil
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	var g errgroup.Group
	if o.limit > 0 {
		g.SetLimit(o.limit)
	}

	var (
		mu   sync.Mutex
		errs []error
	)
	for _, task := range tasks {
		g.Go(func() error {
			if err := task.Func(ctx); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", task.Name, err))
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	return errors.Join(errs...)
}
