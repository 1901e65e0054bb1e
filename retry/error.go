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

package retry

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrEmptyTransient is the outcome of an attempt for which no candidate
	// node was healthy
	ErrEmptyTransient = errors.New("no candidate node is currently healthy")
	// ErrNoHealthyNodes is the cause of a timeout where no attempt reached a node
	ErrNoHealthyNodes = errors.New("no healthy nodes")
	ErrNoCandidates   = errors.New("no candidate nodes")
)

// Reason describes why a request stopped retrying
type Reason uint8

const (
	ReasonBackoffExhausted Reason = iota + 1
	ReasonMaxAttempts
	ReasonDeadline
)

func (r Reason) String() string {
	switch r {
	case ReasonBackoffExhausted:
		return "backoff exhausted"
	case ReasonMaxAttempts:
		return "max attempts"
	case ReasonDeadline:
		return "deadline"
	default:
		return "unknown"
	}
}

// TimedOutError is returned when a request never succeeded within its retry
// budget. Cause is the last transient error.
type TimedOutError struct {
	Reason   Reason
	Attempts int
	Cause    error
}

func (e *TimedOutError) Error() string {
	ret := fmt.Sprintf("request timed out after %d attempts (%s)", e.Attempts, e.Reason.String())
	if e.Cause != nil {
		ret += ": " + e.Cause.Error()
	}
	return ret
}

func (e *TimedOutError) Unwrap() []error {
	ret := []error{}
	if e.Cause != nil {
		ret = append(ret, e.Cause)
	}
	if e.Reason == ReasonDeadline {
		ret = append(ret, context.DeadlineExceeded)
	}
	return ret
}

type outcomeKind uint8

const (
	outcomeTransient outcomeKind = iota + 1
	outcomePermanent
	outcomeNodeFault
)

type outcomeError struct {
	kind outcomeKind
	err  error
}

func (e *outcomeError) Error() string {
	return e.err.Error()
}

func (e *outcomeError) Unwrap() error {
	return e.err
}

// Transient marks an error as retryable, possibly on the same node
func Transient(err error) error {
	return &outcomeError{kind: outcomeTransient, err: err}
}

// Permanent marks an error that stops the request immediately
func Permanent(err error) error {
	return &outcomeError{kind: outcomePermanent, err: err}
}

// NodeFault marks a retryable error caused by the node itself. The node is
// marked unhealthy and another node is tried.
func NodeFault(err error) error {
	return &outcomeError{kind: outcomeNodeFault, err: err}
}

// classify returns the outcome of an attempt error along with its cause.
// Unmarked errors are permanent.
func classify(err error) (outcomeKind, error) {
	var tmpErr *outcomeError
	if errors.As(err, &tmpErr) {
		return tmpErr.kind, tmpErr.err
	}
	if errors.Is(err, ErrEmptyTransient) {
		return outcomeTransient, err
	}
	return outcomePermanent, err
}
