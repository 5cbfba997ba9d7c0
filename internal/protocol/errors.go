// internal/protocol/errors.go
package protocol

import "errors"

// ErrInvalidArgument marks operator input rejected before any command is
// sent. Wrapped errors carry the detail; match with errors.Is.
var ErrInvalidArgument = errors.New("invalid argument")
