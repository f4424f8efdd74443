package model

import "time"

type NodeType string

const NODE_TYPE_MESSAGE NodeType = "message"
const NODE_TYPE_DELAY NodeType = "delay"
const NODE_TYPE_QUESTION NodeType = "question"
const NODE_TYPE_CONDITION NodeType = "condition"
const NODE_TYPE_AI_GENERATE NodeType = "ai_generate"
const NODE_TYPE_SCRIPT NodeType = "script"

// NodeData carries the per-type payload of a node. Only the fields relevant
// to the node's type are set; the rest stay zero.
type NodeData struct {
	Content        string `json:"content,omitempty"`
	Variable       string `json:"variable,omitempty"`
	DelayMs        int    `json:"delayMs,omitempty"`
	ConditionVar   string `json:"conditionVar,omitempty"`
	ConditionValue string `json:"conditionValue,omitempty"`
	AiPrompt       string `json:"aiPrompt,omitempty"`
	Expression     string `json:"expression,omitempty"`
	AccountId      string `json:"accountId,omitempty"`
}

// FlowNode is one step of a flow graph. NextId may be empty or point to a
// node that does not exist; both mean the run terminates there. Cycles are
// representable and not rejected.
type FlowNode struct {
	Id          string   `json:"id"`
	Type        NodeType `json:"type"`
	Data        NodeData `json:"data"`
	NextId      string   `json:"nextId,omitempty"`
	FalseNextId string   `json:"falseNextId,omitempty"`
}

// Flow is a stored automation definition: a trigger condition plus a node
// graph. Flows are authored by the builder and read-only to the engine.
type Flow struct {
	Id               string     `json:"id"`
	Name             string     `json:"name"`
	TriggerType      EventType  `json:"triggerType"`
	TriggerKeyword   string     `json:"triggerKeyword,omitempty"`
	TriggerAccountId string     `json:"triggerAccountId,omitempty"`
	Nodes            []FlowNode `json:"nodes"`
	Active           bool       `json:"active"`
	CreatedAt        time.Time  `json:"createdAt"`
}

// NodeIndex returns the nodes as an id-indexed arena for traversal.
func (f *Flow) NodeIndex() map[string]FlowNode {
	index := make(map[string]FlowNode, len(f.Nodes))
	for _, node := range f.Nodes {
		index[node.Id] = node
	}
	return index
}

func (f *Flow) StartNodeId() string {
	if len(f.Nodes) == 0 {
		return ""
	}
	return f.Nodes[0].Id
}
