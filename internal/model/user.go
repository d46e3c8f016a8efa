package model

// User is the current identity as resolved from the identity provider.
// The gateway reads it to stamp outbound requests; it never owns it.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// Anonymous reports whether no identity is attached.
func (u User) Anonymous() bool {
	return u.ID == ""
}
