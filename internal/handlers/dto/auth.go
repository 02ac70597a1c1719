package dto

import "time"

type SessionRequest struct {
	Passcode string `json:"passcode"`
}

type SessionResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
