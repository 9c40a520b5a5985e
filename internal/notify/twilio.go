package notify

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// TwilioClient sends SMS through the Twilio Messages API.
type TwilioClient struct {
	AccountSID string
	AuthToken  string
	From       string

	// HTTPClient defaults to http.DefaultClient.
	HTTPClient *http.Client

	// BaseURL overrides the Twilio API host, for tests.
	BaseURL string
}

func NewTwilioClient(accountSID, authToken, from string) *TwilioClient {
	return &TwilioClient{
		AccountSID: accountSID,
		AuthToken:  authToken,
		From:       from,
	}
}

func (t *TwilioClient) Notify(ctx context.Context, phoneNumber, message string) error {
	form := url.Values{}
	form.Set("From", t.From)
	form.Set("To", phoneNumber)
	form.Set("Body", message)

	base := t.BaseURL
	if base == "" {
		base = "https://api.twilio.com"
	}
	endpoint := base + "/2010-04-01/Accounts/" + t.AccountSID + "/Messages.json"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBufferString(form.Encode()))
	if err != nil {
		return fmt.Errorf("build twilio request: %w", err)
	}
	req.SetBasicAuth(t.AccountSID, t.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	client := t.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	res, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("send sms: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		return fmt.Errorf("twilio send failed: status %d: %s", res.StatusCode, string(body))
	}
	return nil
}
