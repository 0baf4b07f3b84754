package session

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	cport "github.com/trigaass/Hauz/internal/infrastructure/cache/port"
	qport "github.com/trigaass/Hauz/internal/infrastructure/queue/port"
	"github.com/trigaass/Hauz/internal/pkg/chat/application/reconcile"
	"github.com/trigaass/Hauz/internal/pkg/chat/application/store"
	"github.com/trigaass/Hauz/internal/pkg/chat/application/task"
	"github.com/trigaass/Hauz/internal/pkg/chat/application/typing"
	chat "github.com/trigaass/Hauz/internal/pkg/chat/domain"
	repository "github.com/trigaass/Hauz/internal/pkg/chat/persistence/repository/port"
)

// Transport is the outbound half of the realtime channel. Only the session
// manager emits on it; emit failures mean the channel is down and are
// treated as no-ops (at-most-once delivery).
type Transport interface {
	EmitMessage(conversationID, receiverID int64, m chat.Message) error
	EmitTypingStart(conversationID, receiverID int64) error
	EmitTypingStop(conversationID, receiverID int64) error
}

// Options tune session behavior; zero values fall back to defaults.
type Options struct {
	TypingQuietPeriod time.Duration // debounce window for typing:stop
	PageSize          int           // message fetch page size
	UsersCacheTTL     time.Duration // available-user list cache TTL
}

// Manager orchestrates the open conversation windows: it owns the store,
// routes inbound transport events, reconciles optimistic sends against
// authoritative history, and triggers notification side effects.
type Manager struct {
	self      chat.User
	scopeID   int64
	store     *store.Store
	repo      repository.ChatRepository
	transport Transport
	debouncer *typing.Debouncer
	queue     qport.Client
	cache     cport.Cache
	log       *zap.Logger

	pageSize int
	usersTTL time.Duration
}

// NewManager wires a session for self within the given scope (company).
func NewManager(
	self chat.User,
	scopeID int64,
	repo repository.ChatRepository,
	transport Transport,
	queue qport.Client,
	cache cport.Cache,
	log *zap.Logger,
	opts Options,
) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.PageSize <= 0 {
		opts.PageSize = 50
	}
	if opts.UsersCacheTTL <= 0 {
		opts.UsersCacheTTL = 30 * time.Second
	}
	return &Manager{
		self:      self,
		scopeID:   scopeID,
		store:     store.NewStore(),
		repo:      repo,
		transport: transport,
		debouncer: typing.NewDebouncer(transport, opts.TypingQuietPeriod),
		queue:     queue,
		cache:     cache,
		log:       log,
		pageSize:  opts.PageSize,
		usersTTL:  opts.UsersCacheTTL,
	}
}

// AvailableUsers lists the users self may start a conversation with, role
// filtered (non-admins only see admins) and cached briefly.
func (m *Manager) AvailableUsers(ctx context.Context) ([]chat.User, error) {
	key := fmt.Sprintf("chat:users:%d:%d", m.self.ID, m.scopeID)
	if cached, err := m.cache.Get(ctx, key); err == nil {
		var users []chat.User
		if err := json.Unmarshal([]byte(cached), &users); err == nil {
			return users, nil
		}
	}

	users, err := m.repo.AvailableUsers(ctx, m.self.ID, m.scopeID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	visible := chat.FilterVisible(m.self, users)

	if encoded, err := json.Marshal(visible); err == nil {
		if err := m.cache.Set(ctx, key, string(encoded), m.usersTTL); err != nil {
			m.log.Debug("user list cache set failed", zap.Error(err))
		}
	}
	return visible, nil
}

// StartConversation opens (or re-surfaces) the window for peer. Opening an
// already-open window un-minimizes it; otherwise the conversation is
// resolved from the external store and its history fetched.
func (m *Manager) StartConversation(ctx context.Context, peer chat.User) (chat.Conversation, error) {
	if id, open := m.store.FindByPeer(peer.ID); open {
		m.store.SetMinimized(id, false)
		m.markRead(ctx, id)
		win, _ := m.store.Get(id)
		return win, nil
	}

	conversationID, err := m.repo.GetOrCreateConversation(ctx, m.self.ID, peer.ID)
	if err != nil {
		return chat.Conversation{}, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	messages, err := m.repo.GetMessages(ctx, conversationID, m.self.ID, m.pageSize, 0)
	if err != nil {
		return chat.Conversation{}, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	conv := chat.Conversation{
		ID:       conversationID,
		Peer:     peer,
		Messages: messages,
	}
	if !m.store.Open(conv) {
		// Lost a race with a concurrent open for the same conversation.
		win, _ := m.store.Get(conversationID)
		return win, nil
	}

	win, _ := m.store.Get(conversationID)
	return win, nil
}

// SendMessage validates, optimistically appends, persists, emits to the peer
// and then reconciles against authoritative history.
func (m *Manager) SendMessage(ctx context.Context, conversationID int64, content string) error {
	win, open := m.store.Get(conversationID)
	if !open {
		return chat.ErrUnknownConversation
	}

	provisional, err := chat.NewOutgoingMessage(conversationID, m.self, content, time.Now())
	if err != nil {
		// Blank input never reaches the network.
		return err
	}

	m.debouncer.Flush(conversationID)
	m.store.AppendMessage(conversationID, provisional)

	persisted, err := m.repo.SendMessage(ctx, conversationID, m.self.ID, provisional.Content)
	if err != nil {
		m.dropMessage(conversationID, provisional.ID)
		return fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	if err := m.transport.EmitMessage(conversationID, win.Peer.ID, persisted); err != nil {
		m.log.Debug("message emit skipped", zap.Int64("conversation_id", conversationID), zap.Error(err))
	}

	m.refresh(ctx, conversationID)
	return nil
}

// HandleInboundMessage routes one transport message event. Events for
// conversations without an open window are ignored: inbound traffic never
// opens a window. The notification cue fires for every routed message,
// minimized or not; only the unread counter is gated on minimization.
func (m *Manager) HandleInboundMessage(conversationID int64, msg chat.Message) {
	added, open := m.store.AppendMessage(conversationID, msg)
	if !open {
		m.log.Debug("inbound message for closed window ignored",
			zap.Int64("conversation_id", conversationID))
		return
	}
	if !added {
		// Duplicate delivery; already counted and chimed.
		return
	}
	m.store.IncrementUnread(conversationID)

	t, err := task.NewNotifyTask(conversationID, msg.SenderEmail)
	if err == nil {
		if _, err = m.queue.Enqueue(context.Background(), t, qport.EnqueueOption{Queue: "chat"}); err != nil {
			m.log.Debug("notification enqueue failed", zap.Error(err))
		}
	}
}

// HandleTypingIndicator routes one transport typing event.
func (m *Manager) HandleTypingIndicator(conversationID int64, isTyping bool) {
	m.store.SetTyping(conversationID, isTyping)
}

// OnTypingInput records local keystroke activity for the conversation.
func (m *Manager) OnTypingInput(conversationID int64, _ string) error {
	win, open := m.store.Get(conversationID)
	if !open {
		return chat.ErrUnknownConversation
	}
	m.debouncer.Keystroke(conversationID, win.Peer.ID)
	return nil
}

// MarkAsRead persists read status and clears the unread counter. Idempotent;
// persistence failures are logged and the local counter still clears so the
// visible-window invariant holds.
func (m *Manager) MarkAsRead(ctx context.Context, conversationID int64) error {
	if !m.store.Contains(conversationID) {
		return chat.ErrUnknownConversation
	}
	m.markRead(ctx, conversationID)
	return nil
}

// ToggleMinimize flips the window's minimized state. Entering the visible
// state triggers mark-as-read. Returns the new minimized state.
func (m *Manager) ToggleMinimize(ctx context.Context, conversationID int64) (bool, error) {
	minimized, ok := m.store.ToggleMinimized(conversationID)
	if !ok {
		return false, chat.ErrUnknownConversation
	}
	if !minimized {
		m.markRead(ctx, conversationID)
	}
	return minimized, nil
}

// CloseChat removes the window. The shared transport stays up and the
// server-side history is untouched.
func (m *Manager) CloseChat(conversationID int64) error {
	m.debouncer.Flush(conversationID)
	if !m.store.Close(conversationID) {
		return chat.ErrUnknownConversation
	}
	return nil
}

// OpenConversations returns the current window states in open order.
func (m *Manager) OpenConversations() []chat.Conversation {
	return m.store.Snapshot()
}

// TotalUnread sums the unread counters across all open windows.
func (m *Manager) TotalUnread() int {
	return m.store.TotalUnread()
}

// Shutdown cancels pending typing timers. The transport is owned and closed
// by the caller.
func (m *Manager) Shutdown() {
	m.debouncer.StopAll()
}

// refresh refetches authoritative history and merges it over the local
// sequence. Failures are recovered locally: the window keeps its
// last-known-good messages.
func (m *Manager) refresh(ctx context.Context, conversationID int64) {
	messages, err := m.repo.GetMessages(ctx, conversationID, m.self.ID, m.pageSize, 0)
	if err != nil {
		m.log.Warn("history refresh failed, keeping local state",
			zap.Int64("conversation_id", conversationID),
			zap.Error(err))
		return
	}

	// The window may have been closed while the fetch was in flight.
	win, open := m.store.Get(conversationID)
	if !open {
		return
	}
	m.store.SetMessages(conversationID, reconcile.Merge(messages, win.Messages))
}

// markRead persists read status best-effort and clears the local counter.
func (m *Manager) markRead(ctx context.Context, conversationID int64) {
	if err := m.repo.MarkConversationRead(ctx, conversationID, m.self.ID); err != nil {
		m.log.Warn("mark read persistence failed",
			zap.Int64("conversation_id", conversationID),
			zap.Error(err))
	}
	m.store.ClearUnread(conversationID)
}

// dropMessage removes one entry from a window's history, if both still exist.
func (m *Manager) dropMessage(conversationID, messageID int64) {
	win, open := m.store.Get(conversationID)
	if !open {
		return
	}
	kept := win.Messages[:0:0]
	for _, msg := range win.Messages {
		if msg.ID != messageID {
			kept = append(kept, msg)
		}
	}
	m.store.SetMessages(conversationID, kept)
}
