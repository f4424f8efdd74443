package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/botweave/botweave/engine"
	"github.com/botweave/botweave/gate"
	"github.com/botweave/botweave/model"
	"github.com/botweave/botweave/persistence/inmem"
	"github.com/stretchr/testify/require"
)

type noopSender struct{}

func (noopSender) Send(ctx context.Context, channel model.ChannelType, recipient string, text string, accountId string) error {
	return nil
}

type noopGenerator struct{}

func (noopGenerator) Generate(ctx context.Context, prompt string, persona string) (string, error) {
	return "generated", nil
}

type noopInbox struct{}

func (noopInbox) CheckNewMessages(ctx context.Context) ([]model.InboundMessage, error) {
	return nil, nil
}

type restFixture struct {
	server  *httptest.Server
	storage *inmem.InMemStorage
	engine  *engine.Engine
}

func newRestFixture(t *testing.T) *restFixture {
	t.Helper()
	storage := inmem.NewInMemStorage()
	eng := engine.New(storage, noopSender{}, noopGenerator{}, gate.NewAllowAllGate(), noopInbox{}, engine.Config{
		PollInterval: time.Hour,
		SettleDelay:  time.Millisecond,
	})
	s, err := NewServer(0, storage, eng)
	require.NoError(t, err)
	server := httptest.NewServer(s.Handler)
	t.Cleanup(server.Close)
	return &restFixture{server: server, storage: storage, engine: eng}
}

func (f *restFixture) postJSON(t *testing.T, path string, payload any) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	res, err := http.Post(f.server.URL+path, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	return res
}

func TestCreateAndListFlows(t *testing.T) {
	f := newRestFixture(t)
	res := f.postJSON(t, "/flows", model.Flow{
		Name:        "welcome",
		TriggerType: model.EVENT_INSTAGRAM_DM,
		Active:      true,
		Nodes: []model.FlowNode{
			{Id: "n1", Type: model.NODE_TYPE_MESSAGE, Data: model.NodeData{Content: "Hi!"}},
		},
	})
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)
	var created map[string]string
	require.NoError(t, json.NewDecoder(res.Body).Decode(&created))
	require.NotEmpty(t, created["id"])

	listRes, err := http.Get(f.server.URL + "/flows")
	require.NoError(t, err)
	defer listRes.Body.Close()
	var flows []model.Flow
	require.NoError(t, json.NewDecoder(listRes.Body).Decode(&flows))
	require.Len(t, flows, 1)
	require.Equal(t, "welcome", flows[0].Name)
	require.False(t, flows[0].CreatedAt.IsZero())
}

func TestCreateFlowRejectsEmptyNodes(t *testing.T) {
	f := newRestFixture(t)
	res := f.postJSON(t, "/flows", model.Flow{Name: "empty"})
	defer res.Body.Close()
	require.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestGetFlowNotFound(t *testing.T) {
	f := newRestFixture(t)
	res, err := http.Get(f.server.URL + "/flows/nope")
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestDeleteFlow(t *testing.T) {
	f := newRestFixture(t)
	require.NoError(t, f.storage.SaveFlow(model.Flow{Id: "f1", Nodes: []model.FlowNode{{Id: "n1"}}}))

	req, err := http.NewRequest(http.MethodDelete, f.server.URL+"/flows/f1", nil)
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	flow, err := f.storage.GetFlow("f1")
	require.NoError(t, err)
	require.Nil(t, flow)
}

func TestEventEndpointTriggersFlow(t *testing.T) {
	f := newRestFixture(t)
	require.NoError(t, f.storage.SaveFlow(model.Flow{
		Id:          "f1",
		TriggerType: model.EVENT_INSTAGRAM_DM,
		Active:      true,
		Nodes: []model.FlowNode{
			{Id: "n1", Type: model.NODE_TYPE_MESSAGE, Data: model.NodeData{Content: "Hi!"}},
		},
	}))
	res := f.postJSON(t, "/event", model.AutomationEvent{
		Type:            model.EVENT_INSTAGRAM_DM,
		SubscriberId:    "u1",
		Username:        "alice",
		TargetAccountId: model.VIRTUAL_TEST_ACCOUNT,
		Payload:         model.EventPayload{Text: "hello"},
	})
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)
	f.engine.Wait()

	logs, err := f.storage.GetLogs(0)
	require.NoError(t, err)
	require.Len(t, logs, 2)
}

func TestEventEndpointRequiresSubscriberId(t *testing.T) {
	f := newRestFixture(t)
	res := f.postJSON(t, "/event", model.AutomationEvent{Type: model.EVENT_INSTAGRAM_DM})
	defer res.Body.Close()
	require.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestPollerEndpoints(t *testing.T) {
	f := newRestFixture(t)
	res := f.postJSON(t, "/poller/start", nil)
	res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.True(t, f.engine.PollingActive())

	statusRes, err := http.Get(f.server.URL + "/poller/status")
	require.NoError(t, err)
	var status map[string]bool
	require.NoError(t, json.NewDecoder(statusRes.Body).Decode(&status))
	statusRes.Body.Close()
	require.True(t, status["polling"])

	res = f.postJSON(t, "/poller/stop", nil)
	res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.False(t, f.engine.PollingActive())
	f.engine.Wait()
}

func TestListLogsRejectsBadLimit(t *testing.T) {
	f := newRestFixture(t)
	res, err := http.Get(f.server.URL + "/logs?limit=zero")
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusBadRequest, res.StatusCode)
}
