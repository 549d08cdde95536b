package domain

import (
	"strings"

	"github.com/google/uuid"
)

// idNamespace scopes name-based ids generated by the planner.
var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("adaptive-trainer/planner"))

// DeterministicID derives a stable UUID from its parts. Identical parts always
// produce the same id, which keeps regenerated schedules idempotent.
func DeterministicID(parts ...string) string {
	return uuid.NewSHA1(idNamespace, []byte(strings.Join(parts, "|"))).String()
}
