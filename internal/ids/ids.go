package ids

import "github.com/segmentio/ksuid"

// New returns a time-sortable, URL-safe record identifier.
func New() string {
	return ksuid.New().String()
}
