package inmem

import (
	"sync"

	"github.com/botweave/botweave/model"
	"github.com/botweave/botweave/persistence"
)

var _ persistence.Storage = new(InMemStorage)

// InMemStorage keeps all records in process memory. Flow iteration follows
// creation order, matching the first-match-wins contract of the matcher.
type InMemStorage struct {
	mu          sync.RWMutex
	flowOrder   []string
	flows       map[string]model.Flow
	subscribers map[string]model.Subscriber
	subOrder    []string
	logs        []model.ExecutionLog
}

func NewInMemStorage() *InMemStorage {
	return &InMemStorage{
		flows:       make(map[string]model.Flow),
		subscribers: make(map[string]model.Subscriber),
	}
}

func (s *InMemStorage) GetFlows() ([]model.Flow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	flows := make([]model.Flow, 0, len(s.flowOrder))
	for _, id := range s.flowOrder {
		flows = append(flows, s.flows[id])
	}
	return flows, nil
}

func (s *InMemStorage) GetFlow(id string) (*model.Flow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	flow, ok := s.flows[id]
	if !ok {
		return nil, nil
	}
	return &flow, nil
}

func (s *InMemStorage) SaveFlow(flow model.Flow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.flows[flow.Id]; !ok {
		s.flowOrder = append(s.flowOrder, flow.Id)
	}
	s.flows[flow.Id] = flow
	return nil
}

func (s *InMemStorage) DeleteFlow(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.flows[id]; !ok {
		return nil
	}
	delete(s.flows, id)
	for i, flowId := range s.flowOrder {
		if flowId == id {
			s.flowOrder = append(s.flowOrder[:i], s.flowOrder[i+1:]...)
			break
		}
	}
	return nil
}

func (s *InMemStorage) GetSubscribers() ([]model.Subscriber, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	subscribers := make([]model.Subscriber, 0, len(s.subOrder))
	for _, id := range s.subOrder {
		subscribers = append(subscribers, s.subscribers[id])
	}
	return subscribers, nil
}

func (s *InMemStorage) GetSubscriber(id string) (*model.Subscriber, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	subscriber, ok := s.subscribers[id]
	if !ok {
		return nil, nil
	}
	return &subscriber, nil
}

func (s *InMemStorage) SaveSubscriber(subscriber model.Subscriber) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subscribers[subscriber.Id]; !ok {
		s.subOrder = append(s.subOrder, subscriber.Id)
	}
	s.subscribers[subscriber.Id] = subscriber
	return nil
}

func (s *InMemStorage) AddLog(entry model.ExecutionLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, entry)
	return nil
}

func (s *InMemStorage) GetLogs(limit int) ([]model.ExecutionLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 || limit > len(s.logs) {
		limit = len(s.logs)
	}
	logs := make([]model.ExecutionLog, 0, limit)
	for i := len(s.logs) - 1; i >= len(s.logs)-limit; i-- {
		logs = append(logs, s.logs[i])
	}
	return logs, nil
}
