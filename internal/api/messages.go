package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Message is one entry in an appointment's conversation thread. Sender is
// "patient", "doctor" or "assistant".
type Message struct {
	ID            string    `json:"id"`
	AppointmentID string    `json:"appointment_id"`
	Sender        string    `json:"sender"`
	Body          string    `json:"body"`
	CreatedAt     time.Time `json:"created_at"`
}

type sendMessageRequest struct {
	Body string `json:"body"`
}

// ListMessages returns the conversation thread for an appointment, oldest
// first.
func (c *Client) ListMessages(ctx context.Context, appointmentID string) ([]Message, error) {
	var out []Message
	path := fmt.Sprintf("/api/appointments/%s/messages", url.PathEscape(appointmentID))
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SendMessage posts a message to an appointment's thread.
func (c *Client) SendMessage(ctx context.Context, appointmentID, body string) (*Message, error) {
	var out Message
	path := fmt.Sprintf("/api/appointments/%s/messages", url.PathEscape(appointmentID))
	if err := c.do(ctx, http.MethodPost, path, sendMessageRequest{Body: body}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AssistantReply asks the backend's care assistant a question in the
// context of an appointment and returns its reply message.
func (c *Client) AssistantReply(ctx context.Context, appointmentID, prompt string) (*Message, error) {
	var out Message
	path := fmt.Sprintf("/api/appointments/%s/assistant", url.PathEscape(appointmentID))
	if err := c.do(ctx, http.MethodPost, path, sendMessageRequest{Body: prompt}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
