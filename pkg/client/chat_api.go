package client

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"

	"w9ayt_delivery_server/internal/dto/request"
	"w9ayt_delivery_server/internal/dto/respond"
)

// CreateConversation returns the thread for a delivery, creating it on
// first use.
func (c *Client) CreateConversation(ctx context.Context, deliveryID uint) (*respond.ConversationRespond, error) {
	var rsp respond.ConversationRespond
	err := c.doJSON(ctx, http.MethodPost, "/api/conversations",
		request.CreateConversationRequest{DeliveryID: deliveryID}, &rsp)
	if err != nil {
		return nil, err
	}
	return &rsp, nil
}

// Conversations fetches the annotated thread list.
func (c *Client) Conversations(ctx context.Context) (*respond.ConversationListRespond, error) {
	var rsp respond.ConversationListRespond
	if err := c.doJSON(ctx, http.MethodGet, "/api/conversations", nil, &rsp); err != nil {
		return nil, err
	}
	return &rsp, nil
}

// Conversation fetches a thread with its full ordered history.
func (c *Client) Conversation(ctx context.Context, conversationID uint) (*respond.ConversationDetailRespond, error) {
	var rsp respond.ConversationDetailRespond
	if err := c.doJSON(ctx, http.MethodGet, idPath("/api/conversations", conversationID, ""), nil, &rsp); err != nil {
		return nil, err
	}
	return &rsp, nil
}

// SendMessage submits a text message over REST. The persisted message
// also arrives as a push; synchronizers dedupe by id.
func (c *Client) SendMessage(ctx context.Context, conversationID uint, text string) (*respond.MessageRespond, error) {
	var rsp respond.MessageRespond
	body := struct {
		Text string `json:"text"`
	}{Text: text}
	err := c.doJSON(ctx, http.MethodPost, idPath("/api/conversations", conversationID, "/messages"), body, &rsp)
	if err != nil {
		return nil, err
	}
	return &rsp, nil
}

// SendAttachment submits a message with a file part.
func (c *Client) SendAttachment(ctx context.Context, conversationID uint, text, filename string, content io.Reader) (*respond.MessageRespond, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if text != "" {
		if err := writer.WriteField("text", text); err != nil {
			return nil, err
		}
	}
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+idPath("/api/conversations", conversationID, "/messages"), &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var rsp respond.MessageRespond
	if err := c.send(req, &rsp); err != nil {
		return nil, err
	}
	return &rsp, nil
}
