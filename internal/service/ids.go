package service

import (
	"strings"

	"github.com/google/uuid"
)

// newID builds an entity id of the form "<prefix>_<8 hex chars>",
// e.g. "sess_3fa4c21b".
func newID(prefix string) string {
	hexID := strings.ReplaceAll(uuid.New().String(), "-", "")
	return prefix + "_" + hexID[:8]
}
