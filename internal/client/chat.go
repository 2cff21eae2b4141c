package client

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Message is one chat turn sent to the backend.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream"`
}

type chatResponse struct {
	Success  bool   `json:"success"`
	Response string `json:"response"`
	Error    string `json:"error"`
}

// Chat sends a conversation and returns the full assistant reply.
func (c *Client) Chat(ctx context.Context, messages []Message) (string, error) {
	resp, err := c.postChat(ctx, messages, false)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var body chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("chat failed: invalid response: %w", err)
	}
	if !body.Success {
		if body.Error != "" {
			return "", fmt.Errorf("chat failed: %s", body.Error)
		}
		return "", fmt.Errorf("chat failed: server returned status %d", resp.StatusCode)
	}
	return body.Response, nil
}

// ChatStream sends a conversation and invokes fn for each content chunk as
// it arrives, until the terminal [DONE] marker. A non-nil error from fn
// stops the stream.
func (c *Client) ChatStream(ctx context.Context, messages []Message, fn func(chunk string) error) error {
	resp, err := c.postChat(ctx, messages, true)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
		// The server replies with a JSON error body instead of a stream
		// when the request fails upstream.
		var body chatResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
			return fmt.Errorf("chat failed: %s", body.Error)
		}
		return fmt.Errorf("chat failed: server returned status %d", resp.StatusCode)
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == "[DONE]" {
			return nil
		}

		var chunk struct {
			Content string `json:"content"`
		}
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			continue
		}
		if chunk.Content == "" {
			continue
		}
		if err := fn(chunk.Content); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("chat stream interrupted: %w", err)
	}
	return nil
}

func (c *Client) postChat(ctx context.Context, messages []Message, stream bool) (*http.Response, error) {
	body, err := json.Marshal(chatRequest{Messages: messages, Stream: stream})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chat failed: %w", err)
	}
	return resp, nil
}
