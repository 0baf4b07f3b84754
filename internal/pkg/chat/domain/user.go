package chat

// Role expresses a user's role inside the workspace.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// User is an external identity, read-only to the chat core.
type User struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// FilterVisible returns the candidates self may start a conversation with.
// Admins can message everyone; regular users only see admins. Self is never
// a candidate.
func FilterVisible(self User, candidates []User) []User {
	visible := make([]User, 0, len(candidates))
	for _, c := range candidates {
		if c.ID == self.ID {
			continue
		}
		if !self.IsAdmin() && !c.IsAdmin() {
			continue
		}
		visible = append(visible, c)
	}
	return visible
}
