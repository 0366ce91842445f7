package riot

import (
	"errors"
	"fmt"
)

// ErrNotFound marks a mandatory resource (account or summoner) that the
// upstream API reports as nonexistent.
var ErrNotFound = errors.New("resource not found")

// ErrTimeout marks a call that exhausted its retry loop without a definitive
// response, including calls that hit the rate-limit wait cap.
var ErrTimeout = errors.New("riot api timeout")

// UpstreamError is returned after the retry budget is exhausted on non-429
// failures. It carries the last observed status and detail.
type UpstreamError struct {
	Status int
	Detail string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("riot api error: status %d: %s", e.Status, e.Detail)
}
