// Package meta models managed-assembly metadata as token-addressable tables.
package meta

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions.
var (
	// ErrTokenRange indicates a row index does not fit the 24-bit token field.
	ErrTokenRange = errors.New("meta: token row index out of range")

	// ErrInvalidToken indicates a token whose table kind is not known.
	ErrInvalidToken = errors.New("meta: invalid token")

	// ErrUnresolvedToken indicates a token that no table row answers to.
	ErrUnresolvedToken = errors.New("meta: unresolved token")

	// ErrTableFull indicates a table cannot assign any more rows.
	ErrTableFull = errors.New("meta: table full")

	// ErrNotImplemented indicates input that exercises a path not yet supported.
	ErrNotImplemented = errors.New("meta: not implemented")
)

// TokenRangeError reports a row index that cannot be packed into a token.
type TokenRangeError struct {
	Table TableKind
	Row   uint64
}

func (e *TokenRangeError) Error() string {
	return fmt.Sprintf("meta: row 0x%x of %s exceeds 24-bit token range", e.Row, e.Table)
}

func (e *TokenRangeError) Is(target error) bool { return target == ErrTokenRange }

// EncodeError provides detailed information about encoding failures.
type EncodeError struct {
	Table   string // Table being encoded
	Token   Token  // Token of the row being encoded
	Message string // Description of the error
	Err     error  // Underlying error, if any
}

func (e *EncodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("meta: encode error in %s at [%s]: %s: %v",
			e.Table, e.Token.Hex(), e.Message, e.Err)
	}
	return fmt.Sprintf("meta: encode error in %s at [%s]: %s",
		e.Table, e.Token.Hex(), e.Message)
}

func (e *EncodeError) Unwrap() error { return e.Err }
