package notify

import (
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const twilioBaseURL = "https://api.twilio.com/2010-04-01"

// Twilio delivers notifications as SMS through the Twilio REST API. The
// destination is a phone number.
type Twilio struct {
	accountSID string
	authToken  string
	fromNumber string
	baseURL    string
	client     *http.Client
}

func NewTwilio(accountSID, authToken, fromNumber string) *Twilio {
	return &Twilio{
		accountSID: accountSID,
		authToken:  authToken,
		fromNumber: fromNumber,
		baseURL:    twilioBaseURL,
		client:     &http.Client{Timeout: 30 * time.Second},
	}
}

// NewTwilioWithBaseURL is used by tests to point the client at a stub server.
func NewTwilioWithBaseURL(accountSID, authToken, fromNumber, baseURL string) *Twilio {
	t := NewTwilio(accountSID, authToken, fromNumber)
	t.baseURL = strings.TrimSuffix(baseURL, "/")
	return t
}

func (t *Twilio) Send(to, message string) bool {
	if !t.IsConfigured() {
		log.Printf("notify: sms not configured, would send to %s: %q", to, message)
		return false
	}

	form := url.Values{}
	form.Set("To", to)
	form.Set("From", t.fromNumber)
	form.Set("Body", message)

	req, err := http.NewRequest("POST",
		t.baseURL+"/Accounts/"+t.accountSID+"/Messages.json",
		strings.NewReader(form.Encode()))
	if err != nil {
		log.Println("notify: sms request failed:", err)
		return false
	}
	req.SetBasicAuth(t.accountSID, t.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.client.Do(req)
	if err != nil {
		log.Println("notify: sms send failed:", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		log.Printf("notify: sms send failed (status %d): %s", resp.StatusCode, string(body))
		return false
	}
	return true
}

func (t *Twilio) IsConfigured() bool {
	return t != nil && t.accountSID != "" && t.authToken != "" && t.fromNumber != ""
}
