package ids

import (
	mathrand "math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Request and audit identifiers are ULIDs: sortable by issue time, which
// keeps log lines for one request greppable and ordered. The monotonic
// entropy source needs a lock because middleware calls New concurrently.
var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(mathrand.New(mathrand.NewSource(time.Now().UnixNano())), 0)
)

// New returns a fresh identifier for tagging a request and its audit trail.
func New() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}
