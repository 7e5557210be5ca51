package lifecycle

import (
	"context"
	"encoding/json"
	"fmt"
)

// Deleter tears down a resource from its recorded state document. It is the
// type-erased form of Provider.Delete used by the destroy walk, which only
// has the raw JSON recorded in the state file.
type Deleter interface {
	Delete(ctx context.Context, id string, outputs json.RawMessage) error
}

type deleterFunc func(ctx context.Context, id string, outputs json.RawMessage) error

func (f deleterFunc) Delete(ctx context.Context, id string, outputs json.RawMessage) error {
	return f(ctx, id, outputs)
}

// DeleterFor adapts a typed provider into a Deleter by decoding the recorded
// outputs document into the provider's output type. An empty document decodes
// to the zero value so providers can apply their own missing-state guards.
func DeleterFor[I, O any](p Provider[I, O]) Deleter {
	return deleterFunc(func(ctx context.Context, id string, outputs json.RawMessage) error {
		var outs O
		if len(outputs) > 0 {
			if err := json.Unmarshal(outputs, &outs); err != nil {
				return fmt.Errorf("decode recorded outputs: %w", err)
			}
		}
		return p.Delete(ctx, id, outs)
	})
}
