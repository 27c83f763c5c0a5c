package services

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"interview-api/internal/config"
	"interview-api/internal/metrics"
	"interview-api/internal/models"
	"interview-api/internal/pkg/errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"
)

// CompletionService talks to an OpenAI-compatible chat completions endpoint.
// Calls are never retried.
type CompletionService interface {
	Complete(ctx context.Context, messages []models.ChatMessage) (string, error)
	// Stream calls onDelta for each content fragment. It returns nil only when
	// the provider finished the stream cleanly.
	Stream(ctx context.Context, messages []models.ChatMessage, onDelta func(string) error) error
}

type completionRequest struct {
	Model    string              `json:"model"`
	Messages []completionMessage `json:"messages"`
	Stream   bool                `json:"stream,omitempty"`
}

type completionMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionResponse struct {
	Choices []struct {
		Message      completionMessage `json:"message"`
		FinishReason string            `json:"finish_reason"`
	} `json:"choices"`
}

type completionChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content,omitempty"`
		} `json:"delta"`
		FinishReason string `json:"finish_reason,omitempty"`
	} `json:"choices"`
}

// errRelay marks a failure writing to our own client during a stream. It does
// not count against the provider's breaker.
type errRelay struct{ err error }

func (e errRelay) Error() string { return "relay stream: " + e.err.Error() }
func (e errRelay) Unwrap() error { return e.err }

type openAICompletionService struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
}

func NewCompletionService(cfg config.OpenAIConfig, httpClient *http.Client) CompletionService {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.RequestTimeout}
	}

	failures := cfg.BreakerFailures
	if failures == 0 {
		failures = 5
	}
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "completion-provider",
		MaxRequests: 1,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			var relay errRelay
			return err == nil || errors.As(err, &relay) || errors.Is(err, context.Canceled)
		},
	})

	return &openAICompletionService{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		httpClient: httpClient,
		breaker:    breaker,
	}
}

func (s *openAICompletionService) Complete(ctx context.Context, messages []models.ChatMessage) (string, error) {
	start := time.Now()
	result, err := s.breaker.Execute(func() (interface{}, error) {
		resp, err := s.doRequest(ctx, messages, false)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		var body completionResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		if len(body.Choices) == 0 {
			return nil, fmt.Errorf("empty choices in response")
		}
		return body.Choices[0].Message.Content, nil
	})
	s.observe(start, err)
	if err != nil {
		return "", errors.Provider("completion failed", err)
	}
	return result.(string), nil
}

func (s *openAICompletionService) Stream(ctx context.Context, messages []models.ChatMessage, onDelta func(string) error) error {
	start := time.Now()
	_, err := s.breaker.Execute(func() (interface{}, error) {
		resp, err := s.doRequest(ctx, messages, true)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		return nil, readStream(resp.Body, onDelta)
	})
	s.observe(start, err)
	if err != nil {
		var relay errRelay
		if errors.As(err, &relay) {
			return relay
		}
		return errors.Provider("completion stream failed", err)
	}
	return nil
}

func (s *openAICompletionService) doRequest(ctx context.Context, messages []models.ChatMessage, stream bool) (*http.Response, error) {
	body := completionRequest{
		Model:    s.model,
		Messages: make([]completionMessage, len(messages)),
		Stream:   stream,
	}
	for i, m := range messages {
		body.Messages[i] = completionMessage{Role: m.Role, Content: m.Content}
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/chat/completions", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	if stream {
		req.Header.Set("Accept", "text/event-stream")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		resp.Body.Close()
		return nil, fmt.Errorf("provider returned %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	return resp, nil
}

func (s *openAICompletionService) observe(start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.ProviderCallTotal.WithLabelValues(s.model, status).Inc()
	metrics.ProviderCallDuration.WithLabelValues(s.model).Observe(time.Since(start).Seconds())
}

// errIncompleteStream is returned when the body ends before [DONE] and no
// choice reported a finish_reason.
var errIncompleteStream = fmt.Errorf("stream ended before [DONE]")

// readStream consumes "data: " lines until [DONE] or end of body.
func readStream(body io.Reader, onDelta func(string) error) error {
	reader := bufio.NewReader(body)
	finished := false
	for {
		line, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return fmt.Errorf("read stream: %w", err)
		}

		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "data: ") {
			data := strings.TrimPrefix(trimmed, "data: ")
			if data == "[DONE]" {
				return nil
			}

			var chunk completionChunk
			if jsonErr := json.Unmarshal([]byte(data), &chunk); jsonErr == nil {
				for _, c := range chunk.Choices {
					if c.FinishReason != "" {
						finished = true
					}
					if c.Delta.Content == "" {
						continue
					}
					if relayErr := onDelta(c.Delta.Content); relayErr != nil {
						return errRelay{err: relayErr}
					}
				}
			}
		}

		if err == io.EOF {
			if !finished {
				return errIncompleteStream
			}
			return nil
		}
	}
}
