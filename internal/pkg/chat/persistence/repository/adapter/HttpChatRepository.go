package adapter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/sony/gobreaker/v2"

	chat "github.com/trigaass/Hauz/internal/pkg/chat/domain"
	"github.com/trigaass/Hauz/internal/pkg/chat/persistence/repository/port"
)

// HttpChatRepository talks to the external message store over its REST API.
// All calls run through a circuit breaker so a failing store cannot pile up
// blocked requests across every open conversation.
type HttpChatRepository struct {
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
}

// NewHttpChatRepository constructs a repository for the given API base URL
// (e.g. "https://hauzserver.onrender.com/api"). A nil client falls back to a
// default with a conservative timeout.
func NewHttpChatRepository(baseURL string, client *http.Client) *HttpChatRepository {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HttpChatRepository{
		baseURL: baseURL,
		client:  client,
		breaker: gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
			Name:    "chat-store",
			Timeout: 15 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		}),
	}
}

// Ensure interface compliance at compile time
var _ repository.ChatRepository = (*HttpChatRepository)(nil)

func (r *HttpChatRepository) AvailableUsers(ctx context.Context, selfID, scopeID int64) ([]chat.User, error) {
	q := url.Values{}
	q.Set("user_id", strconv.FormatInt(selfID, 10))
	q.Set("company_id", strconv.FormatInt(scopeID, 10))

	body, err := r.do(ctx, http.MethodGet, "/users/available?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("chat store: available users: %w", err)
	}
	var users []chat.User
	if err := json.Unmarshal(body, &users); err != nil {
		return nil, fmt.Errorf("chat store: decode users: %w", err)
	}
	return users, nil
}

func (r *HttpChatRepository) GetOrCreateConversation(ctx context.Context, selfID, peerID int64) (int64, error) {
	payload := map[string]int64{"user_id_1": selfID, "user_id_2": peerID}
	body, err := r.do(ctx, http.MethodPost, "/conversations", payload)
	if err != nil {
		return 0, fmt.Errorf("chat store: get or create conversation: %w", err)
	}
	var conv struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(body, &conv); err != nil {
		return 0, fmt.Errorf("chat store: decode conversation: %w", err)
	}
	return conv.ID, nil
}

func (r *HttpChatRepository) GetMessages(ctx context.Context, conversationID, selfID int64, limit, offset int) ([]chat.Message, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	q := url.Values{}
	q.Set("user_id", strconv.FormatInt(selfID, 10))
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))

	path := fmt.Sprintf("/conversations/%d/messages?%s", conversationID, q.Encode())
	body, err := r.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("chat store: get messages: %w", err)
	}
	var msgs []chat.Message
	if err := json.Unmarshal(body, &msgs); err != nil {
		return nil, fmt.Errorf("chat store: decode messages: %w", err)
	}
	return msgs, nil
}

func (r *HttpChatRepository) SendMessage(ctx context.Context, conversationID, senderID int64, content string) (chat.Message, error) {
	payload := map[string]any{
		"conversation_id": conversationID,
		"sender_id":       senderID,
		"content":         content,
	}
	body, err := r.do(ctx, http.MethodPost, "/messages", payload)
	if err != nil {
		return chat.Message{}, fmt.Errorf("chat store: send message: %w", err)
	}
	var msg chat.Message
	if err := json.Unmarshal(body, &msg); err != nil {
		return chat.Message{}, fmt.Errorf("chat store: decode message: %w", err)
	}
	return msg, nil
}

func (r *HttpChatRepository) MarkConversationRead(ctx context.Context, conversationID, selfID int64) error {
	payload := map[string]int64{"user_id": selfID}
	path := fmt.Sprintf("/conversations/%d/read", conversationID)
	if _, err := r.do(ctx, http.MethodPut, path, payload); err != nil {
		return fmt.Errorf("chat store: mark read: %w", err)
	}
	return nil
}

// do performs one HTTP round-trip through the breaker and returns the
// response body. Non-2xx statuses are errors and count as breaker failures.
func (r *HttpChatRepository) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	return r.breaker.Execute(func() ([]byte, error) {
		var reqBody io.Reader
		if payload != nil {
			encoded, err := json.Marshal(payload)
			if err != nil {
				return nil, err
			}
			reqBody = bytes.NewReader(encoded)
		}

		req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, reqBody)
		if err != nil {
			return nil, err
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := r.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if err != nil {
			return nil, err
		}
		if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
			return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
		}
		return body, nil
	})
}

// Unavailable reports whether the error came from an open breaker, i.e. the
// store is currently being skipped rather than having rejected this call.
func Unavailable(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
