package live

import "time"

const (
	TypeWelcome        = "welcome"
	TypeCatalogUpdated = "catalog.updated"
)

// Event is the frame pushed to connected pages.
type Event struct {
	Type    string    `json:"type"`
	File    string    `json:"file,omitempty"`
	Clients int       `json:"clients,omitempty"`
	At      time.Time `json:"at"`
}
