package ids

import (
	mathrand "math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// maxAcceptedLen bounds identifiers the service accepts from callers.
// Anything longer is replaced rather than propagated into logs.
const maxAcceptedLen = 64

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(mathrand.New(mathrand.NewSource(time.Now().UnixNano())), 0)
)

// NewRequestID returns a lexicographically sortable correlation id for one
// request. Member and resource rows use numeric keys; these ids only tie log
// and audit lines together.
func NewRequestID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// Acceptable reports whether a caller-supplied identifier may be echoed
// through the pipeline as-is.
func Acceptable(id string) bool {
	return id != "" && len(id) <= maxAcceptedLen
}
