package vm

import "errors"

// ErrInvalidAddress is returned when a logical address is malformed. The
// caller decides whether to skip the address or to stop the run.
var ErrInvalidAddress = errors.New("invalid logical address")
