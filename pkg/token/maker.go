package token

import "time"

// Maker creates and verifies session tokens.
type Maker interface {
	CreateToken(email, role string, duration time.Duration) (string, *Claims, error)
	VerifyToken(token string) (*Claims, error)
}
