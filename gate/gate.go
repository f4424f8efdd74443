package gate

import "context"

// Decision is the gate's verdict for one execution or AI step.
type Decision struct {
	Allowed         bool   `json:"allowed"`
	Reason          string `json:"reason,omitempty"`
	UpgradeRequired bool   `json:"upgradeRequired,omitempty"`
}

// Gate is consulted before every flow execution and before every AI step.
// A returned error means the gate could not be reached; the engine fails
// open in that case.
type Gate interface {
	Check(ctx context.Context, usesAI bool) (Decision, error)
}

var _ Gate = new(allowAllGate)

type allowAllGate struct{}

// NewAllowAllGate returns a gate that admits everything, used when no
// entitlement service is configured.
func NewAllowAllGate() *allowAllGate {
	return &allowAllGate{}
}

func (g *allowAllGate) Check(ctx context.Context, usesAI bool) (Decision, error) {
	return Decision{Allowed: true}, nil
}
