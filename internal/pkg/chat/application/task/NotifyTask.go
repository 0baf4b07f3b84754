package task

import (
	"context"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	qport "github.com/trigaass/Hauz/internal/infrastructure/queue/port"
	"github.com/trigaass/Hauz/internal/infrastructure/notify"
)

// NotifyTaskType is the queue task name for playing the inbound-message cue.
const NotifyTaskType = "chat:notify"

// NotifyTaskPayload is the JSON payload transported via the queue. Kept
// decoupled from domain types to avoid coupling to their JSON tags.
type NotifyTaskPayload struct {
	ConversationID int64  `json:"conversationId"`
	SenderEmail    string `json:"senderEmail"`
}

// NewNotifyTask shapes a queue task for one inbound message.
func NewNotifyTask(conversationID int64, senderEmail string) (qport.Task, error) {
	b, err := json.Marshal(NotifyTaskPayload{
		ConversationID: conversationID,
		SenderEmail:    senderEmail,
	})
	if err != nil {
		return qport.Task{}, err
	}
	return qport.Task{Type: NotifyTaskType, Payload: b}, nil
}

// RegisterNotifyTask binds the task handler to the provided server. Playback
// failures are logged and dropped: the cue is fire-and-forget, so the handler
// never reports an error that would trigger a retry.
func RegisterNotifyTask(srv qport.Server, notifier notify.Notifier, log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}
	srv.Register(NotifyTaskType, func(ctx context.Context, t qport.Task) error {
		var p NotifyTaskPayload
		if err := json.Unmarshal(t.Payload, &p); err != nil {
			log.Debug("notify task: malformed payload", zap.Error(err))
			return nil
		}

		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		if err := notifier.Play(ctx); err != nil {
			log.Debug("notification playback failed",
				zap.Int64("conversation_id", p.ConversationID),
				zap.Error(err))
		}
		return nil
	})
}
