package redis

import (
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/botweave/botweave/model"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *redisStorage {
	t.Helper()
	server := miniredis.RunT(t)
	return NewRedisStorage(Config{
		Addrs:     []string{server.Addr()},
		Namespace: "test",
	})
}

func TestFlowRoundtrip(t *testing.T) {
	storage := newTestStorage(t)
	require.NoError(t, storage.SaveFlow(model.Flow{
		Id:             "f1",
		Name:           "welcome",
		TriggerType:    model.EVENT_KEYWORD,
		TriggerKeyword: "price",
		Active:         true,
		Nodes: []model.FlowNode{
			{Id: "n1", Type: model.NODE_TYPE_MESSAGE, Data: model.NodeData{Content: "Hi!"}, NextId: "n2"},
		},
	}))

	flow, err := storage.GetFlow("f1")
	require.NoError(t, err)
	require.NotNil(t, flow)
	require.Equal(t, "welcome", flow.Name)
	require.Equal(t, model.EVENT_KEYWORD, flow.TriggerType)
	require.Len(t, flow.Nodes, 1)
	require.Equal(t, "Hi!", flow.Nodes[0].Data.Content)
}

func TestMissingFlowIsNilNotError(t *testing.T) {
	storage := newTestStorage(t)
	flow, err := storage.GetFlow("nope")
	require.NoError(t, err)
	require.Nil(t, flow)
}

func TestFlowOrderSurvivesUpdate(t *testing.T) {
	storage := newTestStorage(t)
	for i := 0; i < 3; i++ {
		require.NoError(t, storage.SaveFlow(model.Flow{Id: fmt.Sprintf("f%d", i)}))
	}
	// updating must not push the flow to the back of the iteration order
	require.NoError(t, storage.SaveFlow(model.Flow{Id: "f0", Name: "updated"}))

	flows, err := storage.GetFlows()
	require.NoError(t, err)
	require.Len(t, flows, 3)
	require.Equal(t, "f0", flows[0].Id)
	require.Equal(t, "updated", flows[0].Name)
	require.Equal(t, "f1", flows[1].Id)
	require.Equal(t, "f2", flows[2].Id)
}

func TestDeleteFlowRemovesFromOrder(t *testing.T) {
	storage := newTestStorage(t)
	require.NoError(t, storage.SaveFlow(model.Flow{Id: "f1"}))
	require.NoError(t, storage.SaveFlow(model.Flow{Id: "f2"}))
	require.NoError(t, storage.DeleteFlow("f1"))

	flow, err := storage.GetFlow("f1")
	require.NoError(t, err)
	require.Nil(t, flow)

	flows, err := storage.GetFlows()
	require.NoError(t, err)
	require.Len(t, flows, 1)
	require.Equal(t, "f2", flows[0].Id)
}

func TestSubscriberRoundtrip(t *testing.T) {
	storage := newTestStorage(t)
	require.NoError(t, storage.SaveSubscriber(model.Subscriber{
		Id:          "u1",
		Username:    "alice",
		Channel:     model.CHANNEL_WHATSAPP,
		PhoneNumber: "+15550001",
		Data:        map[string]string{"email": "a@b.com"},
	}))

	subscriber, err := storage.GetSubscriber("u1")
	require.NoError(t, err)
	require.NotNil(t, subscriber)
	require.Equal(t, "alice", subscriber.Username)
	require.Equal(t, "+15550001", subscriber.Address())
	require.Equal(t, "a@b.com", subscriber.Data["email"])

	missing, err := storage.GetSubscriber("u2")
	require.NoError(t, err)
	require.Nil(t, missing)

	subscribers, err := storage.GetSubscribers()
	require.NoError(t, err)
	require.Len(t, subscribers, 1)
}

func TestLogsNewestFirst(t *testing.T) {
	storage := newTestStorage(t)
	for i := 0; i < 4; i++ {
		require.NoError(t, storage.AddLog(model.ExecutionLog{
			Id:     fmt.Sprintf("l%d", i),
			FlowId: "f1",
			Status: model.EXECUTION_STATUS_SUCCESS,
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
}
