package domain

type Status string

const (
	StatusConnected    Status = "connected"
	StatusDisconnected Status = "disconnected"
	StatusDeleted      Status = "deleted"
	StatusDisabled     Status = "disabled"
)

var Statuses = []Status{StatusConnected, StatusDisconnected, StatusDeleted, StatusDisabled}

func (s Status) Valid() bool {
	switch s {
	case StatusConnected, StatusDisconnected, StatusDeleted, StatusDisabled:
		return true
	}
	return false
}
