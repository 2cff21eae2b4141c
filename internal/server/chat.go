package server

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Message is one chat turn, role "user", "assistant", or "system".
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream"`
}

// ChatResponse is the non-streaming reply of POST /api/chat.
type ChatResponse struct {
	Success  bool   `json:"success"`
	Response string `json:"response,omitempty"`
	Error    string `json:"error,omitempty"`
}

// ChatProxy forwards chat requests to an OpenAI-compatible completions API
// and relays the reply, streaming when the client asks for it.
type ChatProxy struct {
	cfg    Config
	client *http.Client
	logger *zap.Logger
}

// NewChatProxy builds a proxy from config.
func NewChatProxy(cfg Config, logger *zap.Logger) *ChatProxy {
	return &ChatProxy{
		cfg: cfg,
		// No overall client timeout: streamed completions can run long.
		// Cancellation comes from the request context.
		client: &http.Client{},
		logger: logger,
	}
}

// upstream wire types, trimmed to the fields we read.
type upstreamRequest struct {
	Model            string         `json:"model"`
	Messages         []Message      `json:"messages"`
	Stream           bool           `json:"stream"`
	MaxTokens        int            `json:"max_tokens"`
	Temperature      float64        `json:"temperature"`
	TopP             float64        `json:"top_p"`
	TopK             int            `json:"top_k"`
	FrequencyPenalty float64        `json:"frequency_penalty"`
	N                int            `json:"n"`
	ResponseFormat   map[string]any `json:"response_format"`
}

type upstreamChoice struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
	Delta struct {
		Content string `json:"content"`
	} `json:"delta"`
}

type upstreamResponse struct {
	Choices []upstreamChoice `json:"choices"`
}

// HandleChat proxies a chat request upstream.
func (p *ChatProxy) HandleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, ChatResponse{Success: false, Error: "invalid JSON body"})
		return
	}
	if len(req.Messages) == 0 {
		respondJSON(w, http.StatusBadRequest, ChatResponse{Success: false, Error: "messages must not be empty"})
		return
	}
	if p.cfg.LLMAPIKey == "" {
		respondJSON(w, http.StatusServiceUnavailable, ChatResponse{Success: false, Error: "chat is not configured"})
		return
	}

	body, err := json.Marshal(upstreamRequest{
		Model:            p.cfg.LLMModel,
		Messages:         req.Messages,
		Stream:           req.Stream,
		MaxTokens:        p.cfg.LLMMaxTokens,
		Temperature:      p.cfg.LLMTemperature,
		TopP:             p.cfg.LLMTopP,
		TopK:             p.cfg.LLMTopK,
		FrequencyPenalty: p.cfg.LLMFrequencyPenalty,
		N:                1,
		ResponseFormat:   map[string]any{"type": "text"},
	})
	if err != nil {
		respondJSON(w, http.StatusInternalServerError, ChatResponse{Success: false, Error: err.Error()})
		return
	}

	upstreamURL := strings.TrimSuffix(p.cfg.LLMAPIBase, "/") + "/chat/completions"
	upReq, err := http.NewRequestWithContext(r.Context(), http.MethodPost, upstreamURL, bytes.NewReader(body))
	if err != nil {
		respondJSON(w, http.StatusInternalServerError, ChatResponse{Success: false, Error: err.Error()})
		return
	}
	upReq.Header.Set("Authorization", "Bearer "+p.cfg.LLMAPIKey)
	upReq.Header.Set("Content-Type", "application/json")
	upReq.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := p.client.Do(upReq)
	if err != nil {
		p.logger.Warn("upstream chat request failed", zap.Error(err))
		respondJSON(w, http.StatusBadGateway, ChatResponse{Success: false, Error: err.Error()})
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		p.logger.Warn("upstream chat returned error", zap.Int("status", resp.StatusCode))
		respondJSON(w, http.StatusBadGateway, ChatResponse{
			Success: false,
			Error:   fmt.Sprintf("upstream returned status %d", resp.StatusCode),
		})
		return
	}

	if req.Stream {
		p.relayStream(w, resp)
	} else {
		p.relayComplete(w, resp)
	}
	p.logger.Info("chat completed",
		zap.Bool("stream", req.Stream),
		zap.Duration("duration", time.Since(start)),
	)
}

// relayComplete parses a full upstream completion and replies with the
// assistant's content.
func (p *ChatProxy) relayComplete(w http.ResponseWriter, resp *http.Response) {
	var up upstreamResponse
	if err := json.NewDecoder(resp.Body).Decode(&up); err != nil {
		respondJSON(w, http.StatusBadGateway, ChatResponse{Success: false, Error: "invalid upstream response"})
		return
	}
	if len(up.Choices) == 0 {
		respondJSON(w, http.StatusBadGateway, ChatResponse{Success: false, Error: "upstream returned no choices"})
		return
	}
	respondJSON(w, http.StatusOK, ChatResponse{Success: true, Response: up.Choices[0].Message.Content})
}

// relayStream forwards upstream SSE chunks as `data: {"content":...}` events
// terminated by `data: [DONE]`.
func (p *ChatProxy) relayStream(w http.ResponseWriter, resp *http.Response) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		respondJSON(w, http.StatusInternalServerError, ChatResponse{Success: false, Error: "streaming unsupported"})
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == "[DONE]" {
			break
		}

		var chunk upstreamResponse
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			continue // tolerate malformed keep-alive chunks
		}
		if len(chunk.Choices) == 0 {
			continue
		}
		content := chunk.Choices[0].Delta.Content
		if content == "" {
			continue
		}

		out, err := json.Marshal(map[string]string{"content": content})
		if err != nil {
			continue
		}
		fmt.Fprintf(w, "data: %s\n\n", out)
		flusher.Flush()
	}
	if err := scanner.Err(); err != nil {
		p.logger.Warn("upstream stream ended early", zap.Error(err))
	}

	fmt.Fprint(w, "data: [DONE]\n\n")
	flusher.Flush()
}
