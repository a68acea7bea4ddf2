// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package orbs

import (
	"bytes"
	"encoding/hex"
	"github.com/orbs-network/counter-controller/services/counter/adapter"
	"github.com/orbs-network/orbs-client-sdk-go/crypto/digest"
	orbsClient "github.com/orbs-network/orbs-client-sdk-go/orbs"
	"github.com/pkg/errors"
	"golang.org/x/crypto/ed25519"
	"strings"
	"sync"
)

const ED25519_PUBLIC_KEY_SIZE = 32
const ED25519_PRIVATE_KEY_SIZE = 64

// AccountWallet signs Orbs transactions with one ed25519 account, a nil account leaves it disconnected
type AccountWallet struct {
	mu      sync.RWMutex
	account *orbsClient.OrbsAccount
	address string
}

func NewAccountWallet(publicKeyHex string, privateKeyHex string) (*AccountWallet, error) {
	w := &AccountWallet{}
	if publicKeyHex == "" && privateKeyHex == "" {
		return w, nil
	}

	publicKey, err := decodeKey(publicKeyHex, ED25519_PUBLIC_KEY_SIZE)
	if err != nil {
		return nil, errors.Wrap(err, "invalid orbs public key")
	}
	privateKey, err := decodeKey(privateKeyHex, ED25519_PRIVATE_KEY_SIZE)
	if err != nil {
		return nil, errors.Wrap(err, "invalid orbs private key")
	}
	if !bytes.Equal(ed25519.PrivateKey(privateKey).Public().(ed25519.PublicKey), publicKey) {
		return nil, errors.New("orbs private key does not match the public key")
	}

	return w, w.Connect(&orbsClient.OrbsAccount{PublicKey: publicKey, PrivateKey: privateKey})
}

// NewGeneratedWallet connects a freshly created account
func NewGeneratedWallet() (*AccountWallet, error) {
	account, err := orbsClient.CreateAccount()
	if err != nil {
		return nil, errors.Wrap(err, "failed creating orbs account")
	}
	w := &AccountWallet{}
	return w, w.Connect(account)
}

func (w *AccountWallet) Connect(account *orbsClient.OrbsAccount) error {
	address, err := digest.CalcClientAddressOfEd25519PublicKey(account.PublicKey)
	if err != nil {
		return errors.Wrap(err, "failed deriving orbs address")
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.account = account
	w.address = "0x" + hex.EncodeToString(address)
	return nil
}

func (w *AccountWallet) Disconnect() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.account = nil
	w.address = ""
}

func (w *AccountWallet) CurrentIdentity() adapter.Identity {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.account == nil {
		return adapter.Disconnected
	}
	return adapter.Identity(w.address)
}

func (w *AccountWallet) signer() (*orbsClient.OrbsAccount, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.account, w.account != nil
}

func decodeKey(keyHex string, size int) ([]byte, error) {
	key, err := hex.DecodeString(strings.TrimPrefix(keyHex, "0x"))
	if err != nil {
		return nil, err
	}
	if len(key) != size {
		return nil, errors.Errorf("expected %d bytes, got %d", size, len(key))
	}
	return key, nil
}
