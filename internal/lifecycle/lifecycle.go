// Package lifecycle defines the create/diff/update/delete contract shared
// by every bootstrap-managed resource.
//
// Each resource kind picks an input type I (desired configuration) and an
// output type O (what was recorded after create). Outputs embed the inputs
// they were created from, so delete and diff always see the values that were
// actually applied rather than values recomputed from current configuration.
package lifecycle

import "context"

// Provider manages one kind of remote resource.
//
// Create provisions the resource and returns its remote identifier together
// with the outputs to record. Diff compares recorded outputs against new
// inputs and reports whether anything changed and which changes force a
// replacement. Update applies in-place changes and returns fresh outputs.
// Delete tears the resource down using the recorded outputs.
type Provider[I, O any] interface {
	Create(ctx context.Context, inputs I) (id string, outputs O, err error)
	Diff(ctx context.Context, id string, olds O, news I) (Diff, error)
	Update(ctx context.Context, id string, olds O, news I) (O, error)
	Delete(ctx context.Context, id string, outputs O) error
}

// Diff reports the result of comparing recorded state against new inputs.
type Diff struct {
	// Changed is true when any input differs from the recorded state.
	Changed bool
	// Replaces names the inputs whose change cannot be applied in place.
	Replaces []string
}

// RequiresReplace reports whether the diff contains changes that can only
// be applied by deleting and recreating the resource.
func (d Diff) RequiresReplace() bool {
	return len(d.Replaces) > 0
}
