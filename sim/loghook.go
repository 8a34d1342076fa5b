package sim

import (
	"fmt"
	"log"
)

// A LogHook writes one line to a logger every time it is invoked.
type LogHook struct {
	*log.Logger
}

// NewLogHook creates a LogHook that writes to the logger.
func NewLogHook(logger *log.Logger) *LogHook {
	return &LogHook{Logger: logger}
}

// Func logs the domain, the position and the item of the context.
func (h *LogHook) Func(ctx HookCtx) {
	h.Printf("%s %s %v", hookDomainName(ctx.Domain), ctx.Pos.Name, ctx.Item)
}

func hookDomainName(d Hookable) string {
	if named, ok := d.(Named); ok {
		return named.Name()
	}

	return fmt.Sprintf("%T", d)
}
