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

// Package keys provides the ed25519 and ECDSA(secp256k1) keys used to sign
// transactions and to describe account and file keys.
package keys

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"filippo.io/edwards25519"
	"github.com/blinklabs-io/gohedera/ledger"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"golang.org/x/crypto/sha3"
)

type KeyType uint8

const (
	KeyTypeEd25519 KeyType = iota + 1
	KeyTypeEcdsaSecp256k1
)

func (k KeyType) String() string {
	switch k {
	case KeyTypeEd25519:
		return "ed25519"
	case KeyTypeEcdsaSecp256k1:
		return "ecdsa"
	default:
		return "unknown"
	}
}

const (
	ecdsaPublicKeySize  = 33
	ecdsaPrivateKeySize = 32
	ecdsaSignatureSize  = 64
)

var (
	ErrInvalidKeyLength = errors.New("invalid key length")
	ErrInvalidPoint     = errors.New("public key is not a valid curve point")
	ErrUnknownKeyType   = errors.New("unknown key type")
)

// Signer produces signatures for transaction bodies. PrivateKey implements
// it; external signers (remote key stores, hardware) can use SignerFunc.
type Signer interface {
	PublicKey() PublicKey
	Sign(message []byte) ([]byte, error)
}

type signerFunc struct {
	publicKey PublicKey
	signFunc  func([]byte) ([]byte, error)
}

// SignerFunc wraps a signing callback for the given public key
func SignerFunc(publicKey PublicKey, signFunc func([]byte) ([]byte, error)) Signer {
	return &signerFunc{
		publicKey: publicKey,
		signFunc:  signFunc,
	}
}

func (s *signerFunc) PublicKey() PublicKey {
	return s.publicKey
}

func (s *signerFunc) Sign(message []byte) ([]byte, error) {
	return s.signFunc(message)
}

type PublicKey struct {
	keyType KeyType
	data    []byte
}

// Ed25519PublicKeyFromBytes validates that the bytes encode a point on the curve
func Ed25519PublicKeyFromBytes(data []byte) (PublicKey, error) {
	if len(data) != ed25519.PublicKeySize {
		return PublicKey{}, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidKeyLength, ed25519.PublicKeySize, len(data))
	}
	if _, err := new(edwards25519.Point).SetBytes(data); err != nil {
		return PublicKey{}, fmt.Errorf("%w: %w", ErrInvalidPoint, err)
	}
	return PublicKey{
		keyType: KeyTypeEd25519,
		data:    bytes.Clone(data),
	}, nil
}

// EcdsaPublicKeyFromBytes accepts compressed or uncompressed secp256k1 keys
func EcdsaPublicKeyFromBytes(data []byte) (PublicKey, error) {
	pubKey, err := secp256k1.ParsePubKey(data)
	if err != nil {
		return PublicKey{}, fmt.Errorf("%w: %w", ErrInvalidPoint, err)
	}
	return PublicKey{
		keyType: KeyTypeEcdsaSecp256k1,
		data:    pubKey.SerializeCompressed(),
	}, nil
}

// PublicKeyFromBytes guesses the key type from the length
func PublicKeyFromBytes(data []byte) (PublicKey, error) {
	switch len(data) {
	case ed25519.PublicKeySize:
		return Ed25519PublicKeyFromBytes(data)
	case ecdsaPublicKeySize, 65:
		return EcdsaPublicKeyFromBytes(data)
	default:
		return PublicKey{}, fmt.Errorf("%w: %d bytes", ErrInvalidKeyLength, len(data))
	}
}

// PublicKeyFromString parses a hex public key with an optional "ed25519:" or
// "ecdsa:" prefix
func PublicKeyFromString(s string) (PublicKey, error) {
	keyType, hexData := splitKeyString(s)
	data, err := hex.DecodeString(hexData)
	if err != nil {
		return PublicKey{}, ledger.NewParseError("public key", s, err)
	}
	var ret PublicKey
	switch keyType {
	case KeyTypeEd25519:
		ret, err = Ed25519PublicKeyFromBytes(data)
	case KeyTypeEcdsaSecp256k1:
		ret, err = EcdsaPublicKeyFromBytes(data)
	default:
		ret, err = PublicKeyFromBytes(data)
	}
	if err != nil {
		return PublicKey{}, ledger.NewParseError("public key", s, err)
	}
	return ret, nil
}

func (p PublicKey) Type() KeyType {
	return p.keyType
}

func (p PublicKey) Bytes() []byte {
	return bytes.Clone(p.data)
}

func (p PublicKey) IsZero() bool {
	return p.keyType == 0
}

func (p PublicKey) Equal(other PublicKey) bool {
	return p.keyType == other.keyType && bytes.Equal(p.data, other.data)
}

func (p PublicKey) String() string {
	if p.IsZero() {
		return ""
	}
	return p.keyType.String() + ":" + hex.EncodeToString(p.data)
}

// Verify checks a signature produced by the matching private key
func (p PublicKey) Verify(message []byte, signature []byte) bool {
	switch p.keyType {
	case KeyTypeEd25519:
		return ed25519.Verify(ed25519.PublicKey(p.data), message, signature)
	case KeyTypeEcdsaSecp256k1:
		if len(signature) != ecdsaSignatureSize {
			return false
		}
		pubKey, err := secp256k1.ParsePubKey(p.data)
		if err != nil {
			return false
		}
		var r, s secp256k1.ModNScalar
		if overflow := r.SetByteSlice(signature[:32]); overflow {
			return false
		}
		if overflow := s.SetByteSlice(signature[32:]); overflow {
			return false
		}
		return ecdsa.NewSignature(&r, &s).Verify(keccak256(message), pubKey)
	default:
		return false
	}
}

type PrivateKey struct {
	keyType KeyType
	ed      ed25519.PrivateKey
	ecdsa   *secp256k1.PrivateKey
}

func GenerateEd25519PrivateKey() (PrivateKey, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return PrivateKey{}, err
	}
	return PrivateKey{keyType: KeyTypeEd25519, ed: priv}, nil
}

func GenerateEcdsaPrivateKey() (PrivateKey, error) {
	priv, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return PrivateKey{}, err
	}
	return PrivateKey{keyType: KeyTypeEcdsaSecp256k1, ecdsa: priv}, nil
}

// Ed25519PrivateKeyFromBytes accepts either a 32 byte seed or a 64 byte
// seed+public key
func Ed25519PrivateKeyFromBytes(data []byte) (PrivateKey, error) {
	switch len(data) {
	case ed25519.SeedSize:
		return PrivateKey{keyType: KeyTypeEd25519, ed: ed25519.NewKeyFromSeed(data)}, nil
	case ed25519.PrivateKeySize:
		return PrivateKey{keyType: KeyTypeEd25519, ed: ed25519.NewKeyFromSeed(data[:ed25519.SeedSize])}, nil
	default:
		return PrivateKey{}, fmt.Errorf("%w: expected %d or %d bytes, got %d", ErrInvalidKeyLength, ed25519.SeedSize, ed25519.PrivateKeySize, len(data))
	}
}

func EcdsaPrivateKeyFromBytes(data []byte) (PrivateKey, error) {
	if len(data) != ecdsaPrivateKeySize {
		return PrivateKey{}, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidKeyLength, ecdsaPrivateKeySize, len(data))
	}
	return PrivateKey{keyType: KeyTypeEcdsaSecp256k1, ecdsa: secp256k1.PrivKeyFromBytes(data)}, nil
}

// PrivateKeyFromString parses a hex private key with an optional "ed25519:"
// or "ecdsa:" prefix. Unprefixed keys are ed25519.
func PrivateKeyFromString(s string) (PrivateKey, error) {
	keyType, hexData := splitKeyString(s)
	data, err := hex.DecodeString(hexData)
	if err != nil {
		return PrivateKey{}, ledger.NewParseError("private key", "<redacted>", err)
	}
	var ret PrivateKey
	switch keyType {
	case KeyTypeEcdsaSecp256k1:
		ret, err = EcdsaPrivateKeyFromBytes(data)
	default:
		ret, err = Ed25519PrivateKeyFromBytes(data)
	}
	if err != nil {
		return PrivateKey{}, ledger.NewParseError("private key", "<redacted>", err)
	}
	return ret, nil
}

func (k PrivateKey) Type() KeyType {
	return k.keyType
}

func (k PrivateKey) IsZero() bool {
	return k.keyType == 0
}

func (k PrivateKey) PublicKey() PublicKey {
	switch k.keyType {
	case KeyTypeEd25519:
		return PublicKey{
			keyType: KeyTypeEd25519,
			data:    bytes.Clone(k.ed.Public().(ed25519.PublicKey)),
		}
	case KeyTypeEcdsaSecp256k1:
		return PublicKey{
			keyType: KeyTypeEcdsaSecp256k1,
			data:    k.ecdsa.PubKey().SerializeCompressed(),
		}
	default:
		return PublicKey{}
	}
}

// Sign signs the message. ECDSA signatures cover the keccak256 digest of the
// message and are returned as r||s.
func (k PrivateKey) Sign(message []byte) ([]byte, error) {
	switch k.keyType {
	case KeyTypeEd25519:
		return ed25519.Sign(k.ed, message), nil
	case KeyTypeEcdsaSecp256k1:
		sig := ecdsa.SignCompact(k.ecdsa, keccak256(message), true)
		// Drop the leading recovery byte
		return sig[1:], nil
	default:
		return nil, ErrUnknownKeyType
	}
}

// String returns the prefixed hex private key
func (k PrivateKey) String() string {
	switch k.keyType {
	case KeyTypeEd25519:
		return k.keyType.String() + ":" + hex.EncodeToString(k.ed.Seed())
	case KeyTypeEcdsaSecp256k1:
		return k.keyType.String() + ":" + hex.EncodeToString(k.ecdsa.Serialize())
	default:
		return ""
	}
}

func splitKeyString(s string) (KeyType, string) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	if tmp, ok := strings.CutPrefix(s, "ed25519:"); ok {
		return KeyTypeEd25519, tmp
	}
	if tmp, ok := strings.CutPrefix(s, "ecdsa:"); ok {
		return KeyTypeEcdsaSecp256k1, tmp
	}
	return 0, s
}

func keccak256(data []byte) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	return h.Sum(nil)
}
