// Copyright 2025 Blink Labs Software
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

package ledger

import (
	"errors"
	"fmt"
)

var (
	ErrBadChecksum      = errors.New("entity id checksum mismatch")
	ErrMissingLedgerId  = errors.New("ledger id is required to validate checksum")
	ErrInvalidChecksum  = errors.New("checksum must be exactly 5 lowercase letters")
	ErrInvalidEntityId  = errors.New("expected <shard>.<realm>.<num>")
	ErrInvalidTimestamp = errors.New("expected <seconds>.<nanos>")
)

// ParseError is returned when a user supplied string cannot be turned into
// an identifier, key or timestamp. It is local and never retried.
type ParseError struct {
	Kind  string
	Input string
	Err   error
}

func NewParseError(kind string, input string, err error) *ParseError {
	return &ParseError{
		Kind:  kind,
		Input: input,
		Err:   err,
	}
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s %q: %s", e.Kind, e.Input, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// BadChecksumError carries the id and both checksums when validation fails
type BadChecksumError struct {
	Id       EntityId
	Expected string
	Actual   string
}

func (e *BadChecksumError) Error() string {
	return fmt.Sprintf(
		"invalid checksum for entity id %s: expected %s, found %s",
		e.Id.String(),
		e.Expected,
		e.Actual,
	)
}

func (e *BadChecksumError) Unwrap() error {
	return ErrBadChecksum
}
