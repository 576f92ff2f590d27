package ids

import "github.com/segmentio/ksuid"

// New returns a k-sortable unique identifier for entities (users, events).
func New() string {
	return ksuid.New().String()
}
