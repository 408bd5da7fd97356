// internal/provider/twilio.go
package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/twilio/twilio-go"
	api "github.com/twilio/twilio-go/rest/api/v2010"
)

// TwilioSender dispatches WhatsApp messages through the Twilio REST API.
type TwilioSender struct {
	client         *twilio.RestClient
	from           string
	statusCallback string
}

// NewTwilioSender builds a sender for the given account credentials.
// statusCallback may be empty; when set, Twilio posts delivery updates for
// every message to that URL.
func NewTwilioSender(accountSID, authToken, from, statusCallback string) *TwilioSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &TwilioSender{client: client, from: from, statusCallback: statusCallback}
}

func (s *TwilioSender) Identity() string {
	return s.from
}

func (s *TwilioSender) Send(_ context.Context, to, body string, mediaURLs []string) (*SendResult, error) {
	params := &api.CreateMessageParams{}
	params.SetFrom(whatsappAddr(s.from))
	params.SetTo(whatsappAddr(to))
	params.SetBody(body)
	if len(mediaURLs) > 0 {
		params.SetMediaUrl(mediaURLs)
	}
	if s.statusCallback != "" {
		params.SetStatusCallback(s.statusCallback)
	}

	msg, err := s.client.Api.CreateMessage(params)
	if err != nil {
		return nil, fmt.Errorf("twilio send to %s: %w", to, err)
	}

	res := &SendResult{}
	if msg.Sid != nil {
		res.MessageID = *msg.Sid
	}
	if msg.Status != nil {
		res.Status = *msg.Status
	}
	return res, nil
}

// whatsappAddr prefixes a phone number with the whatsapp: scheme Twilio
// expects, leaving already prefixed numbers untouched.
func whatsappAddr(number string) string {
	if strings.HasPrefix(number, "whatsapp:") {
		return number
	}
	return "whatsapp:" + number
}
