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

package keys

import (
	"errors"

	"github.com/blinklabs-io/gohedera/protocol"
)

var ErrKeyListUnsupported = errors.New("key lists cannot be converted to a single public key")

// ProtocolKey returns the wire form of the key
func (p PublicKey) ProtocolKey() protocol.Key {
	switch p.keyType {
	case KeyTypeEd25519:
		return protocol.Key{Ed25519: p.Bytes()}
	case KeyTypeEcdsaSecp256k1:
		return protocol.Key{ECDSASecp256k1: p.Bytes()}
	default:
		return protocol.Key{}
	}
}

// SignaturePair pairs a signature with the full public key as its prefix
func (p PublicKey) SignaturePair(signature []byte) protocol.SignaturePair {
	ret := protocol.SignaturePair{
		PubKeyPrefix: p.Bytes(),
	}
	if p.keyType == KeyTypeEcdsaSecp256k1 {
		ret.ECDSASecp256k1 = signature
	} else {
		ret.Ed25519 = signature
	}
	return ret
}

// PublicKeyFromProtocol converts a single wire key
func PublicKeyFromProtocol(key protocol.Key) (PublicKey, error) {
	switch {
	case key.Ed25519 != nil:
		return Ed25519PublicKeyFromBytes(key.Ed25519)
	case key.ECDSASecp256k1 != nil:
		return EcdsaPublicKeyFromBytes(key.ECDSASecp256k1)
	case key.KeyList != nil:
		return PublicKey{}, ErrKeyListUnsupported
	default:
		return PublicKey{}, ErrUnknownKeyType
	}
}

// KeyListFromPublicKeys builds the wire key list used by files
func KeyListFromPublicKeys(publicKeys ...PublicKey) protocol.KeyList {
	ret := protocol.KeyList{}
	for _, publicKey := range publicKeys {
		ret.Keys = append(ret.Keys, publicKey.ProtocolKey())
	}
	return ret
}
