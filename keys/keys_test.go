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

package keys_test

import (
	"encoding/hex"
	"testing"

	"github.com/blinklabs-io/gohedera/internal/test"
	"github.com/blinklabs-io/gohedera/keys"
	"github.com/blinklabs-io/gohedera/ledger"
	"github.com/blinklabs-io/gohedera/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RFC 8032 test vector 1
const (
	testEd25519Seed   = "9d61b19deffd5a60ba844af492ec2cc44449c5697b326919703bac031cae7f60"
	testEd25519Public = "d75a980182b10ab7d54bfed3c964073a0ee172f3daa62325af021a68f707511a"
)

func TestEd25519KnownKey(t *testing.T) {
	priv, err := keys.PrivateKeyFromString(testEd25519Seed)
	require.NoError(t, err)
	assert.Equal(t, keys.KeyTypeEd25519, priv.Type())
	assert.Equal(t, testEd25519Public, hex.EncodeToString(priv.PublicKey().Bytes()))
	assert.Equal(t, "ed25519:"+testEd25519Seed, priv.String())
}

func TestSignVerify(t *testing.T) {
	generators := map[string]func() (keys.PrivateKey, error){
		"ed25519": keys.GenerateEd25519PrivateKey,
		"ecdsa":   keys.GenerateEcdsaPrivateKey,
	}
	message := []byte("transaction body bytes")
	for name, generate := range generators {
		t.Run(name, func(t *testing.T) {
			priv, err := generate()
			require.NoError(t, err)
			sig, err := priv.Sign(message)
			require.NoError(t, err)
			assert.Len(t, sig, 64)
			pub := priv.PublicKey()
			assert.True(t, pub.Verify(message, sig))
			assert.False(t, pub.Verify([]byte("other bytes"), sig))
			tampered := append([]byte{}, sig...)
			tampered[10] ^= 0xff
			assert.False(t, pub.Verify(message, tampered))
			assert.False(t, pub.Verify(message, sig[:63]))
		})
	}
}

func TestPrivateKeyStringRoundTrip(t *testing.T) {
	for _, generate := range []func() (keys.PrivateKey, error){
		keys.GenerateEd25519PrivateKey,
		keys.GenerateEcdsaPrivateKey,
	} {
		priv, err := generate()
		require.NoError(t, err)
		parsed, err := keys.PrivateKeyFromString(priv.String())
		require.NoError(t, err)
		assert.Equal(t, priv.Type(), parsed.Type())
		assert.True(t, priv.PublicKey().Equal(parsed.PublicKey()))
	}
}

func TestPublicKeyStringRoundTrip(t *testing.T) {
	priv, err := keys.GenerateEcdsaPrivateKey()
	require.NoError(t, err)
	pub := priv.PublicKey()
	assert.Len(t, pub.Bytes(), 33)
	parsed, err := keys.PublicKeyFromString(pub.String())
	require.NoError(t, err)
	assert.True(t, pub.Equal(parsed))
	// Unprefixed keys are typed by length
	parsed, err = keys.PublicKeyFromString(hex.EncodeToString(pub.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, keys.KeyTypeEcdsaSecp256k1, parsed.Type())
}

func TestParseErrors(t *testing.T) {
	testDefs := []string{
		"zz",
		"ed25519:abcd",
		"ecdsa:" + testEd25519Public + "00",
		"0102",
	}
	for _, input := range testDefs {
		_, err := keys.PublicKeyFromString(input)
		require.Error(t, err, input)
		var parseErr *ledger.ParseError
		assert.ErrorAs(t, err, &parseErr, input)
	}
	_, err := keys.PrivateKeyFromString("ecdsa:0102")
	require.ErrorIs(t, err, keys.ErrInvalidKeyLength)
	assert.NotContains(t, err.Error(), "0102")
}

func TestProtocolKey(t *testing.T) {
	priv, err := keys.PrivateKeyFromString(testEd25519Seed)
	require.NoError(t, err)
	pub := priv.PublicKey()
	wireKey := pub.ProtocolKey()
	assert.Equal(t, pub.Bytes(), wireKey.Ed25519)
	converted, err := keys.PublicKeyFromProtocol(wireKey)
	require.NoError(t, err)
	assert.True(t, pub.Equal(converted))
	_, err = keys.PublicKeyFromProtocol(protocol.Key{KeyList: &protocol.KeyList{}})
	assert.ErrorIs(t, err, keys.ErrKeyListUnsupported)
	keyList := keys.KeyListFromPublicKeys(pub, pub)
	assert.Len(t, keyList.Keys, 2)
	assert.Empty(t, keys.KeyListFromPublicKeys().Keys)
}

func TestSignerFunc(t *testing.T) {
	priv, err := keys.GenerateEd25519PrivateKey()
	require.NoError(t, err)
	signer := keys.SignerFunc(priv.PublicKey(), priv.Sign)
	sig, err := signer.Sign([]byte("abc"))
	require.NoError(t, err)
	assert.True(t, signer.PublicKey().Verify([]byte("abc"), sig))
	pair := signer.PublicKey().SignaturePair(sig)
	assert.Equal(t, sig, pair.Signature())
	assert.Nil(t, pair.ECDSASecp256k1)
}

func TestEd25519PrivateKeyFromBytes(t *testing.T) {
	seed := test.DecodeHexString(testEd25519Seed)
	priv, err := keys.Ed25519PrivateKeyFromBytes(seed)
	require.NoError(t, err)
	assert.Equal(t, test.DecodeHexString(testEd25519Public), priv.PublicKey().Bytes())
	// Seed followed by the public key
	expanded := append(seed, test.DecodeHexString(testEd25519Public)...)
	priv2, err := keys.Ed25519PrivateKeyFromBytes(expanded)
	require.NoError(t, err)
	assert.True(t, priv.PublicKey().Equal(priv2.PublicKey()))
	_, err = keys.Ed25519PrivateKeyFromBytes(seed[:31])
	assert.ErrorIs(t, err, keys.ErrInvalidKeyLength)
}
