package inmem

import (
	"fmt"
	"testing"
	"time"

	"github.com/botweave/botweave/model"
	"github.com/stretchr/testify/require"
)

func TestFlowCreationOrder(t *testing.T) {
	storage := NewInMemStorage()
	for i := 0; i < 5; i++ {
		require.NoError(t, storage.SaveFlow(model.Flow{Id: fmt.Sprintf("f%d", i)}))
	}
	flows, err := storage.GetFlows()
	require.NoError(t, err)
	require.Len(t, flows, 5)
	for i, flow := range flows {
		require.Equal(t, fmt.Sprintf("f%d", i), flow.Id)
	}
}

func TestFlowUpdateKeepsPosition(t *testing.T) {
	storage := NewInMemStorage()
	require.NoError(t, storage.SaveFlow(model.Flow{Id: "f1", Name: "one"}))
	require.NoError(t, storage.SaveFlow(model.Flow{Id: "f2", Name: "two"}))
	require.NoError(t, storage.SaveFlow(model.Flow{Id: "f1", Name: "one updated"}))

	flows, err := storage.GetFlows()
	require.NoError(t, err)
	require.Len(t, flows, 2)
	require.Equal(t, "f1", flows[0].Id)
	require.Equal(t, "one updated", flows[0].Name)
}

func TestDeleteFlow(t *testing.T) {
	storage := NewInMemStorage()
	require.NoError(t, storage.SaveFlow(model.Flow{Id: "f1"}))
	require.NoError(t, storage.SaveFlow(model.Flow{Id: "f2"}))
	require.NoError(t, storage.DeleteFlow("f1"))
	// deleting an unknown id is a no-op
	require.NoError(t, storage.DeleteFlow("ghost"))

	flow, err := storage.GetFlow("f1")
	require.NoError(t, err)
	require.Nil(t, flow)

	flows, err := storage.GetFlows()
	require.NoError(t, err)
	require.Len(t, flows, 1)
	require.Equal(t, "f2", flows[0].Id)
}

func TestMissingFlowIsNilNotError(t *testing.T) {
	storage := NewInMemStorage()
	flow, err := storage.GetFlow("nope")
	require.NoError(t, err)
	require.Nil(t, flow)
}

func TestSubscriberRoundtrip(t *testing.T) {
	storage := NewInMemStorage()
	require.NoError(t, storage.SaveSubscriber(model.Subscriber{
		Id:       "u1",
		Username: "alice",
		Channel:  model.CHANNEL_WHATSAPP,
		Data:     map[string]string{"email": "a@b.com"},
	}))
	subscriber, err := storage.GetSubscriber("u1")
	require.NoError(t, err)
	require.NotNil(t, subscriber)
	require.Equal(t, "alice", subscriber.Username)
	require.Equal(t, "a@b.com", subscriber.Data["email"])

	missing, err := storage.GetSubscriber("u2")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestLogsNewestFirst(t *testing.T) {
	storage := NewInMemStorage()
	for i := 0; i < 4; i++ {
		require.NoError(t, storage.AddLog(model.ExecutionLog{
			Id:        fmt.Sprintf("l%d", i),
			Timestamp: time.Now(),
		}))
	}
	logs, err := storage.GetLogs(0)
	require.NoError(t, err)
	require.Len(t, logs, 4)
	require.Equal(t, "l3", logs[0].Id)
	require.Equal(t, "l0", logs[3].Id)

	limited, err := storage.GetLogs(2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	require.Equal(t, "l3", limited[0].Id)
	require.Equal(t, "l2", limited[1].Id)
}
