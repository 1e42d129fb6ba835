package domain

import "time"

// OnlineStatus presence snapshot for one user
type OnlineStatus struct {
	UserID string `json:"userId"`
	Online bool   `json:"online"`
	// LastSeenOn nil until the user disconnects explicitly at least once
	LastSeenOn *time.Time `json:"lastSeenOn"`
}
