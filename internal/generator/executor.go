package generator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrCancelled is returned when the user cancels at a conflict prompt.
var ErrCancelled = errors.New("generation cancelled")

// Outcome is what happened to one operation.
type Outcome int

const (
	Created Outcome = iota
	Overwritten
	Unchanged
	Skipped
	Failed
	Cancelled
)

func (o Outcome) String() string {
	switch o {
	case Created:
		return "created"
	case Overwritten:
		return "overwritten"
	case Unchanged:
		return "unchanged"
	case Skipped:
		return "skipped"
	case Failed:
		return "failed"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Result reports one operation.
type Result struct {
	Op      Operation
	Outcome Outcome
	Err     error
}

// ExecuteOptions configures execution behavior.
type ExecuteOptions struct {
	DryRun   bool
	Writer   io.Writer // defaults to os.Stdout
	Resolver *Resolver // decides on existing files; nil keeps them
}

// Execute validates every operation, then runs them in order. An operation
// that fails validation or execution is recorded as Failed and the rest still
// run. Cancelling at a conflict prompt marks that operation and the remaining
// ones Cancelled and returns ErrCancelled.
func Execute(ctx context.Context, ops []Operation, opts ExecuteOptions) ([]Result, error) {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}
	if opts.Resolver == nil {
		opts.Resolver = NewResolverWith(SkipStrategy{})
	}

	invalid := make([]error, len(ops))
	for i, op := range ops {
		if err := op.Validate(ctx); err != nil {
			invalid[i] = fmt.Errorf("validation failed: %w", err)
		}
	}

	results := make([]Result, 0, len(ops))
	for i, op := range ops {
		if invalid[i] != nil {
			results = append(results, Result{Op: op, Outcome: Failed, Err: invalid[i]})
			continue
		}

		outcome, err := run(ctx, op, opts)
		if errors.Is(err, ErrCancelled) {
			for _, rest := range ops[i:] {
				results = append(results, Result{Op: rest, Outcome: Cancelled})
			}
			return results, err
		}
		if err != nil {
			results = append(results, Result{Op: op, Outcome: Failed, Err: err})
			continue
		}
		results = append(results, Result{Op: op, Outcome: outcome})

		prefix := "✓"
		if opts.DryRun {
			prefix = "✓ [DRY RUN]"
		}
		fmt.Fprintf(opts.Writer, "%s %s %s\n", prefix, outcome, op.Description())
	}
	return results, nil
}

func run(ctx context.Context, op Operation, opts ExecuteOptions) (Outcome, error) {
	outcome := Created

	if c, ok := op.(conflicter); ok {
		existing, exists, err := c.Existing()
		if err != nil {
			return Failed, fmt.Errorf("reading %s: %w", c.Target(), err)
		}
		if exists {
			if bytes.Equal(existing, c.Desired()) {
				return Unchanged, nil
			}
			if opts.DryRun {
				return Overwritten, nil
			}

			res, err := opts.Resolver.ResolveConflict(c.Target(), existing, c.Desired())
			if err != nil {
				return Failed, err
			}
			switch res {
			case Skip:
				return Skipped, nil
			case Cancel:
				return Cancelled, ErrCancelled
			}
			outcome = Overwritten
		}
	}

	if opts.DryRun {
		return outcome, nil
	}
	if err := op.Execute(ctx); err != nil {
		return Failed, fmt.Errorf("execution failed: %w", err)
	}
	return outcome, nil
}
