package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	chat "github.com/trigaass/Hauz/internal/pkg/chat/domain"
)

var base = time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

func authoritative(id int64, senderID int64, content string, at time.Time) chat.Message {
	return chat.Message{ID: id, SenderID: senderID, Content: content, CreatedAt: at}
}

func TestMergeOptimisticSendConverges(t *testing.T) {
	// Local state right after an optimistic send: history plus a provisional
	// entry for "hi". The refetch returns the confirmed row with id 901.
	provisional, err := chat.NewOutgoingMessage(42, chat.User{ID: 7, Email: "ana@hauz.dev"}, "hi", base)
	require.NoError(t, err)

	local := []chat.Message{
		authoritative(900, 8, "hello", base.Add(-time.Minute)),
		provisional,
	}
	auth := []chat.Message{
		authoritative(900, 8, "hello", base.Add(-time.Minute)),
		authoritative(901, 7, "hi", base.Add(300*time.Millisecond)),
	}

	merged := Merge(auth, local)
	require.Len(t, merged, 2)
	assert.Equal(t, int64(900), merged[0].ID)
	assert.Equal(t, int64(901), merged[1].ID)
	for _, m := range merged {
		assert.False(t, m.Provisional(), "no provisional entry may survive once covered")
	}
}

func TestMergeKeepsUncoveredProvisional(t *testing.T) {
	provisional, err := chat.NewOutgoingMessage(42, chat.User{ID: 7}, "still in flight", base)
	require.NoError(t, err)

	auth := []chat.Message{authoritative(900, 8, "hello", base.Add(-time.Minute))}
	merged := Merge(auth, []chat.Message{provisional})

	require.Len(t, merged, 2)
	assert.True(t, merged[1].Provisional())
	assert.Equal(t, "still in flight", merged[1].Content)
}

func TestMergeProximityWindowBounds(t *testing.T) {
	provisional, err := chat.NewOutgoingMessage(42, chat.User{ID: 7}, "hi", base)
	require.NoError(t, err)

	t.Run("same content far outside the window is a distinct message", func(t *testing.T) {
		auth := []chat.Message{authoritative(901, 7, "hi", base.Add(time.Minute))}
		merged := Merge(auth, []chat.Message{provisional})
		assert.Len(t, merged, 2)
	})

	t.Run("different sender never covers", func(t *testing.T) {
		auth := []chat.Message{authoritative(901, 8, "hi", base)}
		merged := Merge(auth, []chat.Message{provisional})
		assert.Len(t, merged, 2)
	})

	t.Run("server timestamp slightly behind the optimistic one still covers", func(t *testing.T) {
		auth := []chat.Message{authoritative(901, 7, "hi", base.Add(-2*time.Second))}
		merged := Merge(auth, []chat.Message{provisional})
		assert.Len(t, merged, 1)
	})
}

func TestMergeDedupeAndOrder(t *testing.T) {
	auth := []chat.Message{
		authoritative(2, 7, "b", base.Add(time.Second)),
		authoritative(1, 8, "a", base),
		authoritative(2, 7, "b", base.Add(time.Second)), // duplicate row in the fetch
	}
	// Transport delivery that the paged fetch missed.
	local := []chat.Message{
		authoritative(3, 8, "c", base.Add(2*time.Second)),
		authoritative(1, 8, "a", base),
	}

	merged := Merge(auth, local)
	require.Len(t, merged, 3)
	assert.Equal(t, int64(1), merged[0].ID)
	assert.Equal(t, int64(2), merged[1].ID)
	assert.Equal(t, int64(3), merged[2].ID)
}

func TestMergeEmptyInputs(t *testing.T) {
	assert.Empty(t, Merge(nil, nil))

	only := []chat.Message{authoritative(1, 7, "a", base)}
	assert.Equal(t, only, Merge(only, nil))
	assert.Equal(t, only, Merge(nil, only))
}
