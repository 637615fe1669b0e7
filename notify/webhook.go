package notify

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"strings"
)

// Webhook pushes message-updated events to an external HTTP observer, for
// UIs that live in another process. Delivery is best-effort; failures are
// logged and dropped.
type Webhook struct {
	url string
}

// NewWebhook creates a webhook sink. An empty URL yields a nil webhook,
// which is safe to push to.
func NewWebhook(url string) *Webhook {
	if url == "" {
		return nil
	}
	return &Webhook{url: strings.TrimSuffix(url, "/")}
}

// Push sends one message-updated event.
func (w *Webhook) Push(sessionID, messageID, content string) {
	if w == nil {
		return
	}

	body, err := json.Marshal(map[string]string{
		"session_id": sessionID,
		"message_id": messageID,
		"content":    content,
	})
	if err != nil {
		log.Printf("ERROR: failed to marshal webhook event: %v", err)
		return
	}

	resp, err := http.Post(w.url+"/internal/message-updated", "application/json", bytes.NewReader(body))
	if err != nil {
		log.Printf("WARN: failed to push event to webhook: %v", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("WARN: webhook returned status %d", resp.StatusCode)
	}
}
