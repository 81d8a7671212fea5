// Package validation checks AI-produced values by semantic type and maps
// constrained fields onto their closed value sets.
package validation

import (
	"errors"
	"fmt"

	"github.com/jonathan/profile-extractor/internal/types"
)

// ErrEmpty is returned for blank values. A blank value is absent, not rejected.
var ErrEmpty = errors.New("empty value")

// Rejection explains why a value was dropped.
type Rejection struct {
	Type   types.SemanticType
	Value  string
	Reason string
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("rejected %s value %q: %s", r.Type, truncate(r.Value, 60), r.Reason)
}

func reject(t types.SemanticType, value, reason string) error {
	return &Rejection{Type: t, Value: value, Reason: reason}
}

// IsRejection reports whether err is a *Rejection.
func IsRejection(err error) bool {
	var r *Rejection
	return errors.As(err, &r)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
