package dispatch

import "github.com/pkg/errors"

var errNaNScore = errors.New("Score must not be NaN")

func errInvalidNumber(field string, raw []byte) error {
	return errors.Errorf("Invalid %s: %q", field, raw)
}
