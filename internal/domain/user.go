package domain

import "time"

// User is the durable local account created on first successful sign-in.
// Name and Image come from the external provider at creation time and are
// never overwritten on repeat sign-ins.
type User struct {
	ID        string
	Name      string
	Email     string  // natural key for identity resolution
	Image     *string // external avatar URL (nullable)
	CreatedAt time.Time
	UpdatedAt time.Time
}
