package records

import (
	"strings"

	"github.com/google/uuid"
)

// NewID returns an id shaped like the remote store's: "rec" followed by 14 hex characters.
func NewID() string {
	return "rec" + strings.ReplaceAll(uuid.NewString(), "-", "")[:14]
}
