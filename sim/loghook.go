package sim

import (
	"log"
)

// LogHookBase provides the logger shared by hooks that write text logs.
type LogHookBase struct {
	*log.Logger
}

// NewLogHookBase creates a LogHookBase that writes to logger.
func NewLogHookBase(logger *log.Logger) LogHookBase {
	return LogHookBase{Logger: logger}
}
