package engine

import "sync"

// PausedState marks a subscriber whose next conversational message should be
// captured into Variable and resume execution at NextNodeId within FlowId.
type PausedState struct {
	FlowId     string
	NextNodeId string
	Variable   string
}

// pauseRegistry holds at most one outstanding pause per subscriber. A new
// pause overwrites the old one; consuming deletes it.
type pauseRegistry struct {
	mu     sync.Mutex
	paused map[string]PausedState
}

func newPauseRegistry() *pauseRegistry {
	return &pauseRegistry{
		paused: make(map[string]PausedState),
	}
}

func (p *pauseRegistry) Set(subscriberId string, state PausedState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.paused[subscriberId] = state
}

func (p *pauseRegistry) Get(subscriberId string) (PausedState, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	state, ok := p.paused[subscriberId]
	return state, ok
}

func (p *pauseRegistry) Consume(subscriberId string) (PausedState, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	state, ok := p.paused[subscriberId]
	if ok {
		delete(p.paused, subscriberId)
	}
	return state, ok
}
