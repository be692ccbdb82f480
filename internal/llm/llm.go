package llm

import "context"

// Completer is the generative-model capability consumed by the structure
// synthesizer, content generator, and insight distiller. *Client implements
// it; tests substitute deterministic fakes.
type Completer interface {
	Available() bool
	Complete(ctx context.Context, prompt string, cfg SamplingConfig) (string, error)
}
