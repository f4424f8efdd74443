package ai

import "context"

// Generator produces a reply for a prompt under a persona instruction.
// Implementations may fail on quota, auth or network errors; callers decide
// how to degrade.
type Generator interface {
	Generate(ctx context.Context, prompt string, persona string) (string, error)
}
