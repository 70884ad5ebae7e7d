package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewFolderID generates an opaque folder id of the form
// f-<unix-millis>-<random>. The random suffix comes from a UUID, so a
// collision between two folders created in the same millisecond is not a
// practical concern.
func NewFolderID() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
	return fmt.Sprintf("f-%d-%s", time.Now().UnixMilli(), suffix)
}
