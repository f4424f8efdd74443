package channel

import (
	"context"

	"github.com/botweave/botweave/model"
)

// Sender delivers an outbound text to a platform-specific recipient through
// a connected account. Failures are transport or platform-API errors; the
// engine treats them all as non-fatal to the flow.
type Sender interface {
	Send(ctx context.Context, channel model.ChannelType, recipient string, text string, accountId string) error
}

// InboxChecker fetches a batch of new inbound messages for channels that
// have no push webhook.
type InboxChecker interface {
	CheckNewMessages(ctx context.Context) ([]model.InboundMessage, error)
}
