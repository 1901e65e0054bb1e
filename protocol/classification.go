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

package protocol

// StatusClass describes how a precheck status is handled by the retry engine
type StatusClass uint8

const (
	// Any status missing from a classification is permanent
	ClassPermanent StatusClass = iota
	ClassOk
	// Back off and retry, possibly on the same node
	ClassTransient
	// The node can't take the request right now, rotate to another node
	ClassBusy
	// The transaction id is too old, a fresh one may be generated
	ClassExpired
)

func (c StatusClass) String() string {
	switch c {
	case ClassOk:
		return "ok"
	case ClassTransient:
		return "transient"
	case ClassBusy:
		return "busy"
	case ClassExpired:
		return "expired"
	default:
		return "permanent"
	}
}

// StatusClassification maps precheck statuses to their handling. It is data
// supplied to the client rather than logic, so that it can follow the
// network's response code table as that evolves.
type StatusClassification map[Status]StatusClass

// DefaultStatusClassification returns a fresh copy of the built-in table
func DefaultStatusClassification() StatusClassification {
	return StatusClassification{
		StatusOk:                            ClassOk,
		StatusBusy:                          ClassBusy,
		StatusPlatformNotActive:             ClassBusy,
		StatusTransactionExpired:            ClassExpired,
		StatusPlatformTransactionNotCreated: ClassTransient,
	}
}

// Classify returns the handling for the given status
func (s StatusClassification) Classify(status Status) StatusClass {
	if class, ok := s[status]; ok {
		return class
	}
	return ClassPermanent
}

// Copy returns a copy of the classification. This is mostly for convenience,
// since callers layer overrides on top of a shared table
func (s StatusClassification) Copy() StatusClassification {
	ret := StatusClassification{}
	for k, v := range s {
		ret[k] = v
	}
	return ret
}

// With returns a copy of the classification with the given overrides applied
func (s StatusClassification) With(overrides StatusClassification) StatusClassification {
	ret := s.Copy()
	for k, v := range overrides {
		ret[k] = v
	}
	return ret
}

// ReceiptClass describes the consensus status found in a receipt
type ReceiptClass uint8

const (
	ReceiptPending ReceiptClass = iota
	ReceiptSuccess
	ReceiptFailure
)

// ClassifyReceipt partitions receipt statuses into "still processing",
// success and terminal failure
func ClassifyReceipt(status Status) ReceiptClass {
	switch status {
	case StatusUnknown:
		return ReceiptPending
	case StatusSuccess:
		return ReceiptSuccess
	default:
		return ReceiptFailure
	}
}
