package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/botweave/botweave/logger"
	"github.com/botweave/botweave/model"
	"github.com/botweave/botweave/util"
	c "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// pollWorker bridges external channel inboxes to the trigger path for
// platforms without push webhooks. Ticks run serially, so two polls never
// race over the processed-id set.
type pollWorker struct {
	engine *Engine
	tw     *util.TickWorker
}

func newPollWorker(e *Engine, interval time.Duration) *pollWorker {
	pw := &pollWorker{engine: e}
	pw.tw = util.NewTickWorker("channel-poller", interval, func() { e.PollOnce() }, &e.wg)
	return pw
}

// PollOnce fetches one batch of new inbound messages and feeds every unseen
// one through the same trigger path live webhook events use. Fetch errors
// are swallowed; the heartbeat fires regardless so liveness monitoring never
// reads the poller as hung.
func (e *Engine) PollOnce() {
	defer e.notifyStatus(model.STATUS_POLL_HEARTBEAT, "poll attempted")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	messages, err := e.inbox.CheckNewMessages(ctx)
	if err != nil {
		logger.Error("error checking channel inbox", zap.Error(err))
		return
	}
	fresh := 0
	for _, msg := range messages {
		if _, seen := e.processed.Get(msg.Id); seen {
			continue
		}
		e.processed.Set(msg.Id, true, c.NoExpiration)
		fresh++
		e.broadcast(model.ChatMessage{
			Sender:    "user",
			Text:      msg.Text,
			Timestamp: msg.Timestamp,
			Channel:   model.CHANNEL_INSTAGRAM,
			AccountId: msg.AccountId,
		})
		e.TriggerEvent(model.AutomationEvent{
			Type:            model.EVENT_INSTAGRAM_DM,
			SubscriberId:    msg.Sender.Id,
			Username:        msg.Sender.Username,
			TargetAccountId: msg.AccountId,
			Payload:         model.EventPayload{Text: msg.Text},
		})
	}
	if fresh > 0 {
		e.notifyStatus(model.STATUS_POLL_NEW_MESSAGES, fmt.Sprintf("%d new messages", fresh))
	}
}

// StartPolling begins the poll loop: one immediate poll, then a fixed
// interval. Calling it while active only re-announces status.
func (e *Engine) StartPolling() {
	if e.poller.tw.Start() {
		e.notifyStatus(model.STATUS_POLLING_STARTED, "polling started")
		return
	}
	e.notifyStatus(model.STATUS_POLLING_STARTED, "polling already active")
}

// StopPolling cancels future ticks. An in-flight poll or flow execution
// runs to completion. Idempotent.
func (e *Engine) StopPolling() {
	if e.poller.tw.Stop() {
		e.notifyStatus(model.STATUS_POLLING_STOPPED, "polling stopped")
		return
	}
	e.notifyStatus(model.STATUS_POLLING_STOPPED, "polling not active")
}

func (e *Engine) PollingActive() bool {
	return e.poller.tw.IsRunning()
}
