// Package models holds the persistent entities of the bookmark service and
// the parameter/result types passed between services and repositories.
package models

import "time"

type User struct {
	ID           int64
	Username     string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
