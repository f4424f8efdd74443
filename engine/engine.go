package engine

import (
	"context"
	"sync"
	"time"

	"github.com/botweave/botweave/ai"
	"github.com/botweave/botweave/channel"
	"github.com/botweave/botweave/gate"
	"github.com/botweave/botweave/logger"
	"github.com/botweave/botweave/model"
	"github.com/botweave/botweave/persistence"
	"github.com/google/uuid"
	c "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const DEFAULT_POLL_INTERVAL = 5 * time.Second
const DEFAULT_SETTLE_DELAY = 600 * time.Millisecond

type Config struct {
	PollInterval time.Duration
	SettleDelay  time.Duration
}

// Engine matches inbound events to flow definitions and walks their node
// graphs per subscriber. One instance owns all conversation-scoped state:
// the pause registry, the processed-message set and the listener sets.
type Engine struct {
	storage   persistence.Storage
	sender    channel.Sender
	generator ai.Generator
	gate      gate.Gate
	inbox     channel.InboxChecker

	pauses      *pauseRegistry
	processed   *c.Cache
	settleDelay time.Duration
	poller      *pollWorker
	wg          sync.WaitGroup

	mu              sync.Mutex
	listeners       map[int]func(model.ChatMessage)
	statusListeners map[int]func(model.StatusEvent)
	nextListenerId  int
}

func New(storage persistence.Storage, sender channel.Sender, generator ai.Generator, g gate.Gate, inbox channel.InboxChecker, conf Config) *Engine {
	if conf.PollInterval <= 0 {
		conf.PollInterval = DEFAULT_POLL_INTERVAL
	}
	if conf.SettleDelay <= 0 {
		conf.SettleDelay = DEFAULT_SETTLE_DELAY
	}
	e := &Engine{
		storage:         storage,
		sender:          sender,
		generator:       generator,
		gate:            g,
		inbox:           inbox,
		pauses:          newPauseRegistry(),
		processed:       c.New(c.NoExpiration, 10*time.Minute),
		settleDelay:     conf.SettleDelay,
		listeners:       make(map[int]func(model.ChatMessage)),
		statusListeners: make(map[int]func(model.StatusEvent)),
	}
	e.poller = newPollWorker(e, conf.PollInterval)
	return e
}

// TriggerEvent is the entry point for any inbound event, webhook-sourced,
// polled or simulated. A pending question takes absolute precedence over
// normal flow matching.
func (e *Engine) TriggerEvent(event model.AutomationEvent) {
	if event.SubscriberId == "" {
		return
	}
	subscriber, err := e.loadOrCreateSubscriber(event)
	if err != nil {
		logger.Error("error loading subscriber", zap.String("subscriber", event.SubscriberId), zap.Error(err))
		return
	}
	if !e.checkGate(false) {
		return
	}
	if event.Type.Conversational() && event.Payload.Text != "" {
		if paused, ok := e.pauses.Consume(subscriber.Id); ok {
			e.resumePaused(paused, subscriber, event)
			return
		}
	}
	flow := e.findMatchingFlow(event)
	if flow == nil {
		return
	}
	e.startRun(flow, subscriber, event.TargetAccountId, flow.StartNodeId(), event.Payload.Text)
}

func (e *Engine) resumePaused(paused PausedState, subscriber *model.Subscriber, event model.AutomationEvent) {
	if paused.Variable != "" {
		if subscriber.Data == nil {
			subscriber.Data = make(map[string]string)
		}
		subscriber.Data[paused.Variable] = event.Payload.Text
		if err := e.storage.SaveSubscriber(*subscriber); err != nil {
			logger.Error("error saving subscriber answer", zap.String("subscriber", subscriber.Id), zap.Error(err))
		}
	}
	flow, err := e.storage.GetFlow(paused.FlowId)
	if err != nil || flow == nil {
		logger.Error("paused flow no longer available", zap.String("flow", paused.FlowId), zap.Error(err))
		return
	}
	e.startRun(flow, subscriber, event.TargetAccountId, paused.NextNodeId, event.Payload.Text)
}

func (e *Engine) startRun(flow *model.Flow, subscriber *model.Subscriber, sendingAccountId string, startNodeId string, initialInput string) {
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		e.run(flow, subscriber, sendingAccountId, startNodeId, initialInput)
	}()
}

func (e *Engine) loadOrCreateSubscriber(event model.AutomationEvent) (*model.Subscriber, error) {
	subscriber, err := e.storage.GetSubscriber(event.SubscriberId)
	if err != nil {
		return nil, err
	}
	if subscriber == nil {
		subscriber = &model.Subscriber{
			Id:       event.SubscriberId,
			Username: event.Username,
			Channel:  event.Type.Channel(),
			Data:     make(map[string]string),
		}
	}
	subscriber.LastInteraction = time.Now()
	if err := e.storage.SaveSubscriber(*subscriber); err != nil {
		return nil, err
	}
	return subscriber, nil
}

// checkGate consults the entitlement gate. Gate unavailability fails open:
// availability is preferred over strict enforcement.
func (e *Engine) checkGate(usesAI bool) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	decision, err := e.gate.Check(ctx, usesAI)
	if err != nil {
		logger.Error("entitlement gate unreachable, allowing execution", zap.Error(err))
		return true
	}
	if decision.Allowed {
		return true
	}
	if decision.UpgradeRequired {
		e.notifyStatus(model.STATUS_UPGRADE_REQUIRED, decision.Reason)
	}
	return false
}

// AddListener subscribes fn to chat message broadcasts and returns a handle
// for RemoveListener.
func (e *Engine) AddListener(fn func(model.ChatMessage)) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.nextListenerId++
	e.listeners[e.nextListenerId] = fn
	return e.nextListenerId
}

func (e *Engine) RemoveListener(id int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.listeners, id)
}

func (e *Engine) AddStatusListener(fn func(model.StatusEvent)) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.nextListenerId++
	e.statusListeners[e.nextListenerId] = fn
	return e.nextListenerId
}

func (e *Engine) RemoveStatusListener(id int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.statusListeners, id)
}

func (e *Engine) broadcast(msg model.ChatMessage) {
	e.mu.Lock()
	fns := make([]func(model.ChatMessage), 0, len(e.listeners))
	for _, fn := range e.listeners {
		fns = append(fns, fn)
	}
	e.mu.Unlock()
	for _, fn := range fns {
		fn(msg)
	}
}

func (e *Engine) notifyStatus(kind model.StatusKind, detail string) {
	event := model.StatusEvent{
		Kind:      kind,
		Detail:    detail,
		Timestamp: time.Now(),
	}
	e.mu.Lock()
	fns := make([]func(model.StatusEvent), 0, len(e.statusListeners))
	for _, fn := range e.statusListeners {
		fns = append(fns, fn)
	}
	e.mu.Unlock()
	for _, fn := range fns {
		fn(event)
	}
}

// sendBotMessage broadcasts the outbound message to listeners and, unless
// targeting the simulator account, delivers it through the channel sender.
// Send failures never abort the flow.
func (e *Engine) sendBotMessage(subscriber *model.Subscriber, text string, accountId string) {
	e.broadcast(model.ChatMessage{
		Sender:    "bot",
		Text:      text,
		Timestamp: time.Now(),
		Channel:   subscriber.Channel,
		AccountId: accountId,
	})
	if accountId == model.VIRTUAL_TEST_ACCOUNT {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := e.sender.Send(ctx, subscriber.Channel, subscriber.Address(), text, accountId); err != nil {
		logger.Error("channel send failed", zap.String("channel", string(subscriber.Channel)), zap.String("subscriber", subscriber.Id), zap.Error(err))
	}
}

func (e *Engine) addLog(flowId string, subscriberId string, nodeId string, status model.ExecutionStatus) {
	entry := model.ExecutionLog{
		Id:           uuid.NewString(),
		FlowId:       flowId,
		SubscriberId: subscriberId,
		NodeId:       nodeId,
		Status:       status,
		Timestamp:    time.Now(),
	}
	if err := e.storage.AddLog(entry); err != nil {
		logger.Error("error writing execution log", zap.String("flow", flowId), zap.String("node", nodeId), zap.Error(err))
	}
}

// Wait blocks until all in-flight flow executions and poll ticks finish.
func (e *Engine) Wait() {
	e.wg.Wait()
}
