package numeric

import (
	"errors"
	"fmt"
)

var (
	// ErrBoundBroken is reported when a result leaves the range of its kind,
	// or the operation has no result at all (division by zero).
	ErrBoundBroken = errors.New("bound broken")

	// ErrInvalidType is reported for operator/kind pairs that are not supported
	ErrInvalidType = errors.New("invalid type")
)

// OpError describes a failed numeric operation
type OpError struct {
	Op     Op
	Kind   Kind
	Reason error
	Detail string
}

func (e *OpError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s %s: %s: %s", e.Kind, e.Op, e.Reason, e.Detail)
	}
	return fmt.Sprintf("%s %s: %s", e.Kind, e.Op, e.Reason)
}

func (e *OpError) Unwrap() error { return e.Reason }

func boundBroken(op Op, k Kind, detail string) error {
	return &OpError{Op: op, Kind: k, Reason: ErrBoundBroken, Detail: detail}
}

func invalidType(op Op, k Kind) error {
	return &OpError{Op: op, Kind: k, Reason: ErrInvalidType}
}
