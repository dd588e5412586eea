package domain

import "time"

// Identity is the per-request authenticated caller, bound by the
// authentication gate and discarded when the request completes.
type Identity struct {
	Subject string
	Role    Role
}

// Token represents issued authentication token metadata.
type Token struct {
	Subject   string
	Role      Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}
