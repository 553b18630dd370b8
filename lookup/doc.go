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


// Package lookup defines how remedymatch obtains the prescribing label of a
// medicine.
//
// A LabelSource turns a brand name into the raw "indications and usage" text
// of its label. The openfda subpackage implements LabelSource against the
// openFDA drug label endpoint, and the mock subpackage provides a
// programmable source for tests.
//
// Lookups are the only blocking operation in the system. Every call takes a
// context, is bounded by Config.Timeout, and may be retried with
// RetryWithBackoff when the failure is transient.
package lookup
