package harness

import (
	"fmt"

	"github.com/mocklambda/mocklambda/invocation"
	"github.com/mocklambda/mocklambda/protocol"
)

func (h *Harness) logRequestStart(c *invocation.Context) {
	fmt.Fprintf(h.Stderr, "START RequestId: %s Version: %s\n", c.RequestID, c.FunctionVersion())
}

func (h *Harness) logRequestEnd(c *invocation.Context, u protocol.Usage) {
	fmt.Fprintf(h.Stderr, "END  RequestId: %s\n", c.RequestID)
	fmt.Fprintf(h.Stderr, "REPORT RequestId %s\t"+
		"Duration: %d ms\t"+
		"Billed Duration: %d ms\t"+
		"Memory Size %d MB\t"+
		"Max Memory Used: %d MB\n",
		c.RequestID,
		u.Duration.Milliseconds(),
		u.BilledDuration.Milliseconds(),
		u.MemorySize,
		u.MemoryUsedMB(),
	)
}
