package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/botweave/botweave/logger"
	"github.com/botweave/botweave/model"
	"github.com/oliveagle/jsonpath"
	"go.uber.org/zap"
)

// builder-authored graphs may loop; cap a single run rather than walking
// forever
const maxStepsPerRun int = 512

const defaultDelayMs int = 1000
const defaultMessageContent string = "..."
const defaultAiPrompt string = "Say hello"

const fallbackReply string = "Sorry, I'm having trouble coming up with a reply right now. Please try again in a moment."

// run walks the flow graph from startNodeId for one subscriber. Node
// execution is strictly sequential within a run; runs for different
// subscribers interleave freely. A dispatch error halts the run without a
// terminal log record.
func (e *Engine) run(flow *model.Flow, subscriber *model.Subscriber, sendingAccountId string, startNodeId string, initialInput string) {
	nodes := flow.NodeIndex()
	currentId := startNodeId
	input := initialInput
	for steps := 0; currentId != ""; steps++ {
		if steps >= maxStepsPerRun {
			logger.Error("node step limit reached, aborting run", zap.String("flow", flow.Id), zap.String("subscriber", subscriber.Id))
			return
		}
		node, ok := nodes[currentId]
		if !ok {
			// dangling next id terminates the run
			return
		}
		if node.Type == model.NODE_TYPE_AI_GENERATE && !e.checkGate(true) {
			return
		}
		e.addLog(flow.Id, subscriber.Id, node.Id, model.EXECUTION_STATUS_PENDING)
		accountId := sendingAccountId
		if node.Data.AccountId != "" {
			accountId = node.Data.AccountId
		}
		nextId, err := e.dispatch(&node, flow, subscriber, accountId, input)
		if err != nil {
			logger.Error("node dispatch failed", zap.String("flow", flow.Id), zap.String("subscriber", subscriber.Id), zap.String("node", node.Id), zap.Error(err))
			return
		}
		e.addLog(flow.Id, subscriber.Id, node.Id, model.EXECUTION_STATUS_SUCCESS)
		currentId = nextId
		input = ""
	}
}

// dispatch applies one node's semantics and returns the successor id. An
// empty successor ends the run, which for a question node means the
// conversation is suspended until the subscriber replies.
func (e *Engine) dispatch(node *model.FlowNode, flow *model.Flow, subscriber *model.Subscriber, accountId string, input string) (string, error) {
	switch node.Type {
	case model.NODE_TYPE_MESSAGE:
		content := node.Data.Content
		if content == "" {
			content = defaultMessageContent
		}
		e.sendBotMessage(subscriber, content, accountId)
		// settle between consecutive sends, platform APIs dislike bursts
		time.Sleep(e.settleDelay)
		return node.NextId, nil
	case model.NODE_TYPE_DELAY:
		delayMs := node.Data.DelayMs
		if delayMs <= 0 {
			delayMs = defaultDelayMs
		}
		time.Sleep(time.Duration(delayMs) * time.Millisecond)
		return node.NextId, nil
	case model.NODE_TYPE_CONDITION:
		if e.conditionMatches(node.Data, subscriber) {
			return node.NextId, nil
		}
		return node.FalseNextId, nil
	case model.NODE_TYPE_QUESTION:
		content := node.Data.Content
		if content == "" {
			content = defaultMessageContent
		}
		e.sendBotMessage(subscriber, content, accountId)
		if node.NextId != "" && node.Data.Variable != "" {
			e.pauses.Set(subscriber.Id, PausedState{
				FlowId:     flow.Id,
				NextNodeId: node.NextId,
				Variable:   node.Data.Variable,
			})
		}
		return "", nil
	case model.NODE_TYPE_AI_GENERATE:
		text := e.generateReply(node.Data, subscriber, input)
		e.sendBotMessage(subscriber, text, accountId)
		return node.NextId, nil
	case model.NODE_TYPE_SCRIPT:
		if err := e.runScript(node.Data.Expression, subscriber); err != nil {
			return "", err
		}
		return node.NextId, nil
	default:
		// unknown node types are forward-compatible no-ops
		return node.NextId, nil
	}
}

// conditionMatches checks the subscriber's collected variables. A missing
// variable routes to the false branch, never errors. Variables starting
// with "$." are resolved as jsonpath into the data map.
func (e *Engine) conditionMatches(data model.NodeData, subscriber *model.Subscriber) bool {
	if data.ConditionVar == "" {
		return false
	}
	var value string
	if strings.HasPrefix(data.ConditionVar, "$.") {
		lookup := make(map[string]any, len(subscriber.Data))
		for k, v := range subscriber.Data {
			lookup[k] = v
		}
		res, err := jsonpath.JsonPathLookup(lookup, data.ConditionVar)
		if err != nil {
			return false
		}
		value = fmt.Sprintf("%v", res)
	} else {
		v, ok := subscriber.Data[data.ConditionVar]
		if !ok {
			return false
		}
		value = v
	}
	return strings.EqualFold(value, data.ConditionValue)
}

// generateReply asks the text generator for a reply under a persona built
// from the subscriber's username. Generation failure degrades to a fixed
// fallback instead of aborting the flow.
func (e *Engine) generateReply(data model.NodeData, subscriber *model.Subscriber, input string) string {
	prompt := data.AiPrompt
	if prompt == "" {
		prompt = defaultAiPrompt
	}
	if input != "" {
		prompt = prompt + "\n\nContext - The user just said: \"" + input + "\""
	}
	persona := fmt.Sprintf("You are a friendly assistant chatting with %s. Keep replies concise, under 300 characters.", subscriber.Username)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	text, err := e.generator.Generate(ctx, prompt, persona)
	if err != nil || text == "" {
		logger.Error("text generation failed, using fallback", zap.String("subscriber", subscriber.Id), zap.Error(err))
		return fallbackReply
	}
	return text
}
