package models

import "time"

type User struct {
	ID           string
	FirmID       string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
