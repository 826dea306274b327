package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const fcmScope = "https://www.googleapis.com/auth/firebase.messaging"

// FCMSender sends pushes through the Firebase Cloud Messaging HTTP v1 API,
// authenticating with a service-account credentials file.
type FCMSender struct {
	endpoint string
	tokens   oauth2.TokenSource
	client   *http.Client
}

// NewFCMSender loads service-account credentials and prepares an
// authenticated sender for the given FCM v1 endpoint.
func NewFCMSender(endpoint, credentialsFile string) (*FCMSender, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read FCM credentials: %w", err)
	}
	creds, err := google.CredentialsFromJSON(context.Background(), data, fcmScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse FCM credentials: %w", err)
	}
	return &FCMSender{
		endpoint: endpoint,
		tokens:   creds.TokenSource,
		client:   &http.Client{Timeout: 10 * time.Second},
	}, nil
}

type fcmMessage struct {
	Message struct {
		Token        string `json:"token"`
		Notification struct {
			Title string `json:"title"`
			Body  string `json:"body"`
		} `json:"notification"`
	} `json:"message"`
}

// Send delivers one notification to one device token.
func (s *FCMSender) Send(ctx context.Context, token, title, body string) error {
	var msg fcmMessage
	msg.Message.Token = token
	msg.Message.Notification.Title = title
	msg.Message.Notification.Body = body

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode FCM message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build FCM request: %w", err)
	}
	auth, err := s.tokens.Token()
	if err != nil {
		return fmt.Errorf("failed to mint FCM access token: %w", err)
	}
	auth.SetAuthHeader(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("FCM request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("FCM returned %d: %s", resp.StatusCode, raw)
	}
	return nil
}

// LogSender stands in for FCM when no credentials are configured. Every
// would-be push is written to the log instead.
type LogSender struct{}

func (LogSender) Send(_ context.Context, token, title, body string) error {
	log.Printf("push (dry run) to %s: %s - %s", token, title, body)
	return nil
}
