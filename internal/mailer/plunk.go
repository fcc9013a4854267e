package mailer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/learnhubhq/learnhub/internal/config"
)

// Plunk sends mail through the Plunk transactional email API.
type Plunk struct {
	apiKey string
	from   string
	apiURL string
	client *http.Client
}

func NewPlunk(cfg *config.Config) (*Plunk, error) {
	if cfg.PlunkAPIKey == "" {
		return nil, fmt.Errorf("plunk not configured: set PLUNK_API_KEY")
	}
	return &Plunk{
		apiKey: cfg.PlunkAPIKey,
		from:   cfg.PlunkFrom,
		apiURL: cfg.PlunkAPIURL,
		client: http.DefaultClient,
	}, nil
}

type plunkSendBody struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	From    string `json:"from,omitempty"`
}

func (p *Plunk) Send(to, subject, body string) error {
	payload := plunkSendBody{To: to, Subject: subject, Body: body, From: p.from}
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, p.apiURL, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if msg, readErr := io.ReadAll(resp.Body); readErr == nil && len(msg) > 0 {
			return fmt.Errorf("plunk send failed: status=%d body=%s", resp.StatusCode, msg)
		}
		return fmt.Errorf("plunk send failed: status=%d", resp.StatusCode)
	}
	return nil
}
