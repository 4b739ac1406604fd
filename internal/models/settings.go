package models

import "time"

// Settings are the operator choices that survive a restart.
type Settings struct {
	ID        int       `json:"id"`
	SetPoint  int       `json:"setPoint"`
	PValue    int       `json:"pValue"`
	UpdatedAt time.Time `json:"updatedAt"`
}
