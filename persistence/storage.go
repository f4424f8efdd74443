package persistence

import "github.com/botweave/botweave/model"

// Storage is the durable record store the engine reads and writes through.
// A missing flow or subscriber is reported as (nil, nil), not an error.
type Storage interface {
	GetFlows() ([]model.Flow, error)
	GetFlow(id string) (*model.Flow, error)
	SaveFlow(flow model.Flow) error
	DeleteFlow(id string) error

	GetSubscribers() ([]model.Subscriber, error)
	GetSubscriber(id string) (*model.Subscriber, error)
	SaveSubscriber(subscriber model.Subscriber) error

	AddLog(entry model.ExecutionLog) error
	GetLogs(limit int) ([]model.ExecutionLog, error)
}

type StorageLayerError struct {
	Message string
}

func (e StorageLayerError) Error() string {
	return "error in storage layer " + e.Message
}
