package id

import (
	"strconv"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

var fallbackSeq atomic.Uint64

// New returns a random UUID string. If the random source fails it falls
// back to "t-<unix nanos>-<seq>", which stays unique within the process.
func New() string {
	u, err := uuid.NewRandom()
	if err != nil {
		return fallback(time.Now())
	}
	return u.String()
}

func fallback(now time.Time) string {
	return "t-" + strconv.FormatInt(now.UnixNano(), 36) + "-" + strconv.FormatUint(fallbackSeq.Add(1), 36)
}
