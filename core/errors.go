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


package core

import (
	"errors"
	"fmt"
)

// Domain validation errors
var (
	// ErrInvalidRemedyRecord indicates a RemedyRecord failed validation.
	ErrInvalidRemedyRecord = errors.New("invalid remedy record")

	// ErrEmptyEffect indicates the Effect field is empty.
	ErrEmptyEffect = errors.New("effect cannot be empty")

	// ErrEmptyRemedy indicates the Remedy field is empty.
	ErrEmptyRemedy = errors.New("remedy cannot be empty")
)

// RecordError reports which corpus position held an invalid record.
type RecordError struct {
	Position int
	Err      error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("record %d: %v", e.Position, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}
