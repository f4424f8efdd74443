package model

import "time"

type ChannelType string

const CHANNEL_INSTAGRAM ChannelType = "instagram"
const CHANNEL_WHATSAPP ChannelType = "whatsapp"
const CHANNEL_MESSENGER ChannelType = "messenger"

// Subscriber is one conversation identity per (channel, external user id).
// Created lazily on the first inbound event, never deleted by the engine.
type Subscriber struct {
	Id              string            `json:"id"`
	Username        string            `json:"username"`
	Channel         ChannelType       `json:"channel"`
	PhoneNumber     string            `json:"phoneNumber,omitempty"`
	MessengerId     string            `json:"messengerId,omitempty"`
	Data            map[string]string `json:"data"`
	LastInteraction time.Time         `json:"lastInteraction"`
}

// Address returns the channel-specific recipient address outbound sends are
// keyed by.
func (s *Subscriber) Address() string {
	switch s.Channel {
	case CHANNEL_WHATSAPP:
		if s.PhoneNumber != "" {
			return s.PhoneNumber
		}
	case CHANNEL_MESSENGER:
		if s.MessengerId != "" {
			return s.MessengerId
		}
	}
	return s.Id
}
