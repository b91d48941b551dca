package health

import (
	"context"
	"fmt"

	"shimmer-hq/shimmer/pkg/shimmer/grammar"
	"shimmer-hq/shimmer/pkg/shimmer/validator"
)

// canary is a line every grammar version must accept.
const canary = "ABPrn01τ300f06→[0.5,0.9,0.1,0.9,0.96]"

// CodecCheck validates a known-good line with the grammar the server uses.
// It fails if the pattern table or validator has been broken.
func CodecCheck(g *grammar.Grammar) CheckFunc {
	v := validator.NewValidator(g)
	return func(ctx context.Context) error {
		r := v.Check(canary)
		if !r.OK {
			return fmt.Errorf("grammar %s rejected canary line: %v", v.Grammar().Version, r.Errors)
		}
		return nil
	}
}

// Pinger is implemented by components that can report their own health,
// such as the audit store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingCheck adapts a Pinger.
func PingCheck(p Pinger) CheckFunc {
	return p.Ping
}
