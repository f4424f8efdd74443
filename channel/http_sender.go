package channel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/botweave/botweave/config"
	"github.com/botweave/botweave/model"
	backoff "github.com/cenkalti/backoff/v4"
)

var _ Sender = new(httpSender)

type sendRequest struct {
	Channel   model.ChannelType `json:"channel"`
	Recipient string            `json:"recipient"`
	Text      string            `json:"text"`
	AccountId string            `json:"accountId"`
}

// httpSender posts outbound messages to the platform send gateway. Platform
// APIs are rate limited, so a failed send is retried once after a short
// constant backoff before the error is surfaced.
type httpSender struct {
	client      *http.Client
	sendUrl     string
	accessToken string
}

func NewHttpSender(conf config.ChannelConfig) *httpSender {
	return &httpSender{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		sendUrl:     conf.SendUrl,
		accessToken: conf.AccessToken,
	}
}

func (s *httpSender) Send(ctx context.Context, channel model.ChannelType, recipient string, text string, accountId string) error {
	body, err := json.Marshal(sendRequest{
		Channel:   channel,
		Recipient: recipient,
		Text:      text,
		AccountId: accountId,
	})
	if err != nil {
		return err
	}
	b := backoff.WithMaxRetries(backoff.NewConstantBackOff(500*time.Millisecond), 1)
	return backoff.Retry(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.sendUrl, bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+s.accessToken)
		res, err := s.client.Do(req)
		if err != nil {
			return err
		}
		defer res.Body.Close()
		if res.StatusCode >= 400 {
			return fmt.Errorf("send failed with status %d", res.StatusCode)
		}
		return nil
	}, backoff.WithContext(b, ctx))
}
