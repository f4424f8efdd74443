package model

import "time"

type EventType string

const EVENT_INSTAGRAM_DM EventType = "instagram_dm"
const EVENT_KEYWORD EventType = "keyword"
const EVENT_WHATSAPP_MESSAGE EventType = "whatsapp_message"
const EVENT_MESSENGER_TEXT EventType = "messenger_text"
const EVENT_STORY_MENTION EventType = "story_mention"
const EVENT_COMMENT EventType = "comment"

// VIRTUAL_TEST_ACCOUNT is the simulator account id. Events carrying it match
// any account-scoped flow, and sends targeting it never reach a real channel.
const VIRTUAL_TEST_ACCOUNT string = "virtual_test_account"

// Conversational reports whether events of this type carry a subscriber's
// message text and may answer a pending question.
func (t EventType) Conversational() bool {
	switch t {
	case EVENT_INSTAGRAM_DM, EVENT_KEYWORD, EVENT_WHATSAPP_MESSAGE, EVENT_MESSENGER_TEXT:
		return true
	}
	return false
}

// Channel maps an event type to the channel a subscriber created from it
// belongs to.
func (t EventType) Channel() ChannelType {
	switch t {
	case EVENT_WHATSAPP_MESSAGE:
		return CHANNEL_WHATSAPP
	case EVENT_MESSENGER_TEXT:
		return CHANNEL_MESSENGER
	}
	return CHANNEL_INSTAGRAM
}

type EventPayload struct {
	Text string `json:"text,omitempty"`
}

// AutomationEvent is the minimal inbound envelope the engine consumes,
// webhook-sourced or simulated.
type AutomationEvent struct {
	Type            EventType    `json:"type"`
	SubscriberId    string       `json:"subscriberId"`
	Username        string       `json:"username"`
	TargetAccountId string       `json:"targetAccountId"`
	Payload         EventPayload `json:"payload"`
}

// ChatMessage is broadcast to listeners for live conversation display.
type ChatMessage struct {
	Sender    string      `json:"sender"`
	Text      string      `json:"text"`
	Timestamp time.Time   `json:"timestamp"`
	Channel   ChannelType `json:"channel"`
	AccountId string      `json:"accountId"`
}

type MessageSender struct {
	Id       string `json:"id"`
	Username string `json:"username"`
}

// InboundMessage is one element of a polled channel inbox batch.
type InboundMessage struct {
	Id        string        `json:"id"`
	Text      string        `json:"text"`
	Timestamp time.Time     `json:"timestamp"`
	Sender    MessageSender `json:"sender"`
	AccountId string        `json:"accountId"`
}

type StatusKind string

const STATUS_POLL_HEARTBEAT StatusKind = "poll_heartbeat"
const STATUS_POLL_NEW_MESSAGES StatusKind = "poll_new_messages"
const STATUS_POLLING_STARTED StatusKind = "polling_started"
const STATUS_POLLING_STOPPED StatusKind = "polling_stopped"
const STATUS_UPGRADE_REQUIRED StatusKind = "upgrade_required"

// StatusEvent is a UI-facing observability notification.
type StatusEvent struct {
	Kind      StatusKind `json:"kind"`
	Detail    string     `json:"detail,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
}
