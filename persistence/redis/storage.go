package redis

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/botweave/botweave/model"
	"github.com/botweave/botweave/persistence"
	rd "github.com/go-redis/redis/v9"
)

const FLOW_KEY string = "flows"
const FLOW_ORDER_KEY string = "flows:order"
const SUBSCRIBER_KEY string = "subscribers"
const LOG_KEY string = "logs"

// keep at most this many execution log entries around
const maxLogEntries int64 = 10000

var _ persistence.Storage = new(redisStorage)

type redisStorage struct {
	*baseDao
}

// NewRedisStorage returns a Storage backed by redis. Flow ids are tracked in
// a side list so GetFlows iterates in creation order.
func NewRedisStorage(conf Config) *redisStorage {
	return &redisStorage{
		baseDao: newBaseDao(conf),
	}
}

func (r *redisStorage) GetFlows() ([]model.Flow, error) {
	ctx := context.Background()
	orderKey := r.getNamespaceKey(FLOW_ORDER_KEY)
	ids, err := r.redisClient.LRange(ctx, orderKey, 0, -1).Result()
	if err != nil {
		return nil, persistence.StorageLayerError{Message: err.Error()}
	}
	flows := make([]model.Flow, 0, len(ids))
	for _, id := range ids {
		flow, err := r.GetFlow(id)
		if err != nil {
			return nil, err
		}
		if flow == nil {
			continue
		}
		flows = append(flows, *flow)
	}
	return flows, nil
}

func (r *redisStorage) GetFlow(id string) (*model.Flow, error) {
	ctx := context.Background()
	key := r.getNamespaceKey(FLOW_KEY)
	data, err := r.redisClient.HGet(ctx, key, id).Result()
	if err != nil {
		if errors.Is(err, rd.Nil) {
			return nil, nil
		}
		return nil, persistence.StorageLayerError{Message: err.Error()}
	}
	var flow model.Flow
	if err := json.Unmarshal([]byte(data), &flow); err != nil {
		return nil, err
	}
	return &flow, nil
}

func (r *redisStorage) SaveFlow(flow model.Flow) error {
	ctx := context.Background()
	key := r.getNamespaceKey(FLOW_KEY)
	orderKey := r.getNamespaceKey(FLOW_ORDER_KEY)
	data, err := json.Marshal(flow)
	if err != nil {
		return err
	}
	exists, err := r.redisClient.HExists(ctx, key, flow.Id).Result()
	if err != nil {
		return persistence.StorageLayerError{Message: err.Error()}
	}
	_, err = r.redisClient.TxPipelined(ctx, func(pipe rd.Pipeliner) error {
		if err := pipe.HSet(ctx, key, flow.Id, string(data)).Err(); err != nil {
			return err
		}
		if !exists {
			return pipe.RPush(ctx, orderKey, flow.Id).Err()
		}
		return nil
	})
	if err != nil {
		return persistence.StorageLayerError{Message: err.Error()}
	}
	return nil
}

func (r *redisStorage) DeleteFlow(id string) error {
	ctx := context.Background()
	key := r.getNamespaceKey(FLOW_KEY)
	orderKey := r.getNamespaceKey(FLOW_ORDER_KEY)
	_, err := r.redisClient.TxPipelined(ctx, func(pipe rd.Pipeliner) error {
		if err := pipe.HDel(ctx, key, id).Err(); err != nil {
			return err
		}
		return pipe.LRem(ctx, orderKey, 0, id).Err()
	})
	if err != nil {
		return persistence.StorageLayerError{Message: err.Error()}
	}
	return nil
}

func (r *redisStorage) GetSubscribers() ([]model.Subscriber, error) {
	ctx := context.Background()
	key := r.getNamespaceKey(SUBSCRIBER_KEY)
	entries, err := r.redisClient.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, persistence.StorageLayerError{Message: err.Error()}
	}
	subscribers := make([]model.Subscriber, 0, len(entries))
	for _, data := range entries {
		var subscriber model.Subscriber
		if err := json.Unmarshal([]byte(data), &subscriber); err != nil {
			return nil, err
		}
		subscribers = append(subscribers, subscriber)
	}
	return subscribers, nil
}

func (r *redisStorage) GetSubscriber(id string) (*model.Subscriber, error) {
	ctx := context.Background()
	key := r.getNamespaceKey(SUBSCRIBER_KEY)
	data, err := r.redisClient.HGet(ctx, key, id).Result()
	if err != nil {
		if errors.Is(err, rd.Nil) {
			return nil, nil
		}
		return nil, persistence.StorageLayerError{Message: err.Error()}
	}
	var subscriber model.Subscriber
	if err := json.Unmarshal([]byte(data), &subscriber); err != nil {
		return nil, err
	}
	return &subscriber, nil
}

func (r *redisStorage) SaveSubscriber(subscriber model.Subscriber) error {
	ctx := context.Background()
	key := r.getNamespaceKey(SUBSCRIBER_KEY)
	data, err := json.Marshal(subscriber)
	if err != nil {
		return err
	}
	if err := r.redisClient.HSet(ctx, key, subscriber.Id, string(data)).Err(); err != nil {
		return persistence.StorageLayerError{Message: err.Error()}
	}
	return nil
}

func (r *redisStorage) AddLog(entry model.ExecutionLog) error {
	ctx := context.Background()
	key := r.getNamespaceKey(LOG_KEY)
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	_, err = r.redisClient.TxPipelined(ctx, func(pipe rd.Pipeliner) error {
		if err := pipe.LPush(ctx, key, string(data)).Err(); err != nil {
			return err
		}
		return pipe.LTrim(ctx, key, 0, maxLogEntries-1).Err()
	})
	if err != nil {
		return persistence.StorageLayerError{Message: err.Error()}
	}
	return nil
}

func (r *redisStorage) GetLogs(limit int) ([]model.ExecutionLog, error) {
	ctx := context.Background()
	key := r.getNamespaceKey(LOG_KEY)
	if limit <= 0 {
		limit = int(maxLogEntries)
	}
	values, err := r.redisClient.LRange(ctx, key, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, persistence.StorageLayerError{Message: err.Error()}
	}
	logs := make([]model.ExecutionLog, 0, len(values))
	for _, data := range values {
		var entry model.ExecutionLog
		if err := json.Unmarshal([]byte(data), &entry); err != nil {
			return nil, err
		}
		logs = append(logs, entry)
	}
	return logs, nil
}
