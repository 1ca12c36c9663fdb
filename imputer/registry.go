package imputer

import (
	"errors"
	"fmt"
	"sort"

	"github.com/sartorproj/goimpute/lowess"
)

// ErrUnknownImputer is returned when an unregistered imputer kind is requested.
var ErrUnknownImputer = errors.New("unknown imputer kind")

// Estimator estimates a value at an arbitrary position. The second return is
// false when the position lies outside the estimator's fitted range; callers
// must treat that as a possible outcome, not an error.
type Estimator interface {
	Estimate(pos float64) (float64, bool)
}

// Factory builds an Estimator from a snapshot of observed (x, y) samples.
type Factory func(x, y []float64) (Estimator, error)

var registry = map[string]Factory{
	"lowess": func(x, y []float64) (Estimator, error) {
		return lowess.Fit(x, y, lowess.DefaultFrac)
	},
}

// Register adds an imputer kind under the given name, replacing any previous
// registration. New kinds plug in without touching the Processor.
func Register(name string, factory Factory) {
	registry[name] = factory
}

// Kinds returns the registered imputer kind names, sorted.
func Kinds() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func lookup(name string) (Factory, error) {
	factory, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (registered: %v)", ErrUnknownImputer, name, Kinds())
	}
	return factory, nil
}
