package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOutgoingMessage(t *testing.T) {
	sender := User{ID: 7, Email: "ana@hauz.dev", Role: RoleUser}
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	t.Run("shapes a provisional message", func(t *testing.T) {
		m, err := NewOutgoingMessage(42, sender, "  hello  ", now)
		require.NoError(t, err)

		assert.True(t, m.Provisional())
		assert.Equal(t, -now.UnixMilli(), m.ID)
		assert.Equal(t, int64(42), m.ConversationID)
		assert.Equal(t, "hello", m.Content)
		assert.Equal(t, sender.ID, m.SenderID)
		assert.Equal(t, sender.Email, m.SenderEmail)
		assert.False(t, m.Read)
	})

	t.Run("rejects blank content", func(t *testing.T) {
		for _, content := range []string{"", "   ", "\n\t "} {
			_, err := NewOutgoingMessage(42, sender, content, now)
			assert.ErrorIs(t, err, ErrEmptyMessage)
		}
	})
}

func TestMessageBefore(t *testing.T) {
	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	earlier := Message{ID: 2, CreatedAt: base}
	later := Message{ID: 1, CreatedAt: base.Add(time.Second)}
	assert.True(t, earlier.Before(later))
	assert.False(t, later.Before(earlier))

	// Equal timestamps fall back to id order.
	tied := Message{ID: 9, CreatedAt: base}
	assert.True(t, earlier.Before(tied))
	assert.False(t, tied.Before(earlier))
}

func TestFilterVisible(t *testing.T) {
	admin := User{ID: 1, Email: "admin@hauz.dev", Role: RoleAdmin}
	user := User{ID: 2, Email: "user@hauz.dev", Role: RoleUser}
	otherAdmin := User{ID: 3, Email: "ops@hauz.dev", Role: RoleAdmin}
	otherUser := User{ID: 4, Email: "neighbor@hauz.dev", Role: RoleUser}
	candidates := []User{admin, user, otherAdmin, otherUser}

	t.Run("admins see everyone but themselves", func(t *testing.T) {
		visible := FilterVisible(admin, candidates)
		assert.ElementsMatch(t, []User{user, otherAdmin, otherUser}, visible)
	})

	t.Run("regular users see only admins", func(t *testing.T) {
		visible := FilterVisible(user, candidates)
		assert.ElementsMatch(t, []User{admin, otherAdmin}, visible)
	})
}
