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

// Package cbor provides the CBOR encoding/decoding used for all wire messages.
//
// It wraps github.com/fxamacker/cbor/v2 with cached, deterministic encode and
// decode modes. Map keys are always sorted so that the bytes a signature covers
// are reproducible.
//
// Embeddable types for struct encoding:
//   - StructAsArray: Embed to encode struct fields as CBOR array instead of map
//   - DecodeStoreCbor: Embed to preserve original CBOR bytes for signature checks
//
// Types with a custom MarshalCBOR/UnmarshalCBOR that only want to add
// validation can call EncodeGeneric/DecodeGeneric, which bypass the custom
// methods:
//
//	func (m *MyType) UnmarshalCBOR(data []byte) error {
//	    if err := cbor.DecodeGeneric(data, m); err != nil {
//	        return err
//	    }
//	    return m.validate()
//	}
package cbor
