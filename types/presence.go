package types

type PresenceStatus string

const (
	PresenceStatusOnline  PresenceStatus = "ONLINE"
	PresenceStatusOffline PresenceStatus = "OFFLINE"
)

func (s PresenceStatus) String() string {
	return string(s)
}

type UserPresence struct {
	UserID string         `json:"userID"`
	Status PresenceStatus `json:"status"`
}
