package reconcile

import (
	"sort"
	"time"

	chat "github.com/trigaass/Hauz/internal/pkg/chat/domain"
)

// proximityWindow bounds how far apart a provisional entry and its
// authoritative counterpart may be timestamped and still be treated as the
// same logical message.
const proximityWindow = 5 * time.Second

// Merge converges the locally held message sequence with the authoritative
// history fetched from the external store.
//
// The authoritative list wins: every entry in it is kept exactly once (first
// occurrence per id). Local provisional entries survive only if the
// authoritative history does not yet cover them, so an optimistic send and
// its confirmed row can never coexist. Local non-provisional entries that the
// fetch window missed (e.g. a transport arrival racing a paged fetch) are
// kept as well, deduplicated by id.
//
// The result is ordered by created_at, ties broken by id.
func Merge(authoritative, local []chat.Message) []chat.Message {
	merged := make([]chat.Message, 0, len(authoritative)+len(local))
	seen := make(map[int64]struct{}, len(authoritative))

	for _, m := range authoritative {
		if _, dup := seen[m.ID]; dup {
			continue
		}
		seen[m.ID] = struct{}{}
		merged = append(merged, m)
	}

	for _, m := range local {
		if m.Provisional() {
			if !covered(authoritative, m) {
				merged = append(merged, m)
			}
			continue
		}
		if _, dup := seen[m.ID]; dup {
			continue
		}
		seen[m.ID] = struct{}{}
		merged = append(merged, m)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Before(merged[j])
	})
	return merged
}

// covered reports whether the authoritative history already contains the
// confirmed form of the provisional message: same sender, same content, and a
// server timestamp within the proximity window of the optimistic one.
func covered(authoritative []chat.Message, provisional chat.Message) bool {
	for _, m := range authoritative {
		if m.SenderID != provisional.SenderID || m.Content != provisional.Content {
			continue
		}
		delta := m.CreatedAt.Sub(provisional.CreatedAt)
		if delta < 0 {
			delta = -delta
		}
		if delta <= proximityWindow {
			return true
		}
	}
	return false
}
