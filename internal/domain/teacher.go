package domain

// Teacher is the role-specific profile composed over a User credential.
// It carries no extra state today but keeps the role tables symmetric.
type Teacher struct {
	UserID string
}
