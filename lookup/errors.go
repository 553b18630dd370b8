// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package lookup

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound is returned when no label matches the medicine name.
	ErrNotFound = errors.New("no label found for medicine")

	// ErrTimeout is returned when the label source does not answer in time.
	ErrTimeout = errors.New("label request timed out")

	// ErrMedicineNameRequired is returned when an empty medicine name is looked up.
	ErrMedicineNameRequired = errors.New("medicine name is required")

	// ErrInvalidMaxAttempts is returned when RetryWithBackoff is asked for fewer than one attempt.
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	ErrBaseURLRequired   = errors.New("lookup config: BaseURL is required")
	ErrInvalidTimeout    = errors.New("lookup config: Timeout must be greater than 0")
	ErrInvalidMaxRetries = errors.New("lookup config: MaxRetries must not be negative")
	ErrInvalidRetryDelay = errors.New("lookup config: RetryDelay must not be negative")
)

// StatusError reports a non-2xx answer from a label source.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("unexpected status %s", e.Status)
	}
	return fmt.Sprintf("unexpected status %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// Temporary reports whether the same request may succeed later.
func (e *StatusError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

// IsTransient reports whether err is worth retrying: timeouts, rate limiting
// and server errors.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTimeout) {
		return true
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Temporary()
	}
	return false
}
