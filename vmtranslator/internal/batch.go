package internal

import (
	"runtime"

	"github.com/golang/glog"
	"golang.org/x/sync/errgroup"
)

// TranslateAll translates independent units in parallel. Units never share
// state, each one gets its own CodeWriter. The result is in the order of units.
func TranslateAll(units []Unit, opts Options) ([][]string, error) {
	results := make([][]string, len(units))
	var group errgroup.Group
	group.SetLimit(runtime.GOMAXPROCS(0))
	for i := range units {
		i := i
		group.Go(func() error {
			lines, err := Translate(units[i], opts)
			if err != nil {
				glog.V(1).Infof("translator: unit %s failed: %v", units[i].Name, err)
				return &UnitError{Unit: units[i].Name, Err: err}
			}
			results[i] = lines
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// UnitError tells which unit of a batch failed.
type UnitError struct {
	Unit string
	Err  error
}

func (e *UnitError) Error() string {
	return "unit " + e.Unit + ": " + e.Err.Error()
}

func (e *UnitError) Unwrap() error {
	return e.Err
}
