package xerrors

import (
	"errors"
	"fmt"
	"slices"
	"testing"
)

func TestUnwrap(t *testing.T) {
	if errs := Unwrap(nil); errs != nil {
		t.Errorf("nil: got %v", errs)
	}

	single := errors.New("single")
	if errs := Unwrap(single); len(errs) != 1 || errs[0] != single {
		t.Errorf("single: got %v", errs)
	}

	joined := errors.Join(errors.New("a"), fmt.Errorf("b: %w", single))
	if got := Messages(joined); !slices.Equal(got, []string{"a", "b: single"}) {
		t.Errorf("joined: got %v", got)
	}
}
