package channel

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/botweave/botweave/config"
	"github.com/botweave/botweave/model"
)

var _ InboxChecker = new(httpInbox)

// httpInbox asks the channel gateway for messages that arrived since the
// last check. Deduplication across checks is the caller's job.
type httpInbox struct {
	client      *http.Client
	inboxUrl    string
	accessToken string
}

func NewHttpInbox(conf config.ChannelConfig) *httpInbox {
	return &httpInbox{
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
		inboxUrl:    conf.InboxUrl,
		accessToken: conf.AccessToken,
	}
}

func (c *httpInbox) CheckNewMessages(ctx context.Context) ([]model.InboundMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.inboxUrl, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	res, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("inbox check failed with status %d", res.StatusCode)
	}
	var messages []model.InboundMessage
	if err := json.NewDecoder(res.Body).Decode(&messages); err != nil {
		return nil, err
	}
	return messages, nil
}
