// Package linebot wraps the LINE Messaging API client used to deliver
// replies. Parsing and signature verification of inbound callbacks live in
// the webhook handler; this package only sends.
package linebot

import (
	"github.com/chiehyu/popodoc/logger"
	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
)

type Client struct {
	api    *messaging_api.MessagingApiAPI
	logger logger.Logger
}

func NewClient(logger logger.Logger, channelToken string) (*Client, error) {
	api, err := messaging_api.NewMessagingApiAPI(channelToken)
	if err != nil {
		logger.Error("could not create messaging api client", "err", err.Error())
		return nil, err
	}

	return &Client{api: api, logger: logger}, nil
}

// Reply sends up to five message parts for a reply token. Order is preserved
// by the Messaging API.
func (c *Client) Reply(replyToken string, messages []messaging_api.MessageInterface) error {
	if _, err := c.api.ReplyMessage(&messaging_api.ReplyMessageRequest{
		ReplyToken: replyToken,
		Messages:   messages,
	}); err != nil {
		c.logger.Error("could not send reply", "err", err.Error())
		return err
	}

	return nil
}
