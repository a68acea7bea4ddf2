// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package ethereum

import (
	"crypto/ecdsa"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/orbs-network/counter-controller/services/counter/adapter"
	"github.com/pkg/errors"
	"strings"
	"sync"
)

// KeyWallet signs with a single private key, an empty key leaves it disconnected
type KeyWallet struct {
	mu      sync.RWMutex
	key     *ecdsa.PrivateKey
	address common.Address
}

func NewKeyWallet(privateKeyHex string) (*KeyWallet, error) {
	w := &KeyWallet{}
	if privateKeyHex == "" {
		return w, nil
	}
	return w, w.Connect(privateKeyHex)
}

func (w *KeyWallet) Connect(privateKeyHex string) error {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return errors.Wrap(err, "invalid ethereum private key")
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.key = key
	w.address = crypto.PubkeyToAddress(key.PublicKey)
	return nil
}

func (w *KeyWallet) Disconnect() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.key = nil
	w.address = common.Address{}
}

func (w *KeyWallet) CurrentIdentity() adapter.Identity {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.key == nil {
		return adapter.Disconnected
	}
	return adapter.Identity(w.address.Hex())
}

func (w *KeyWallet) signer() (*ecdsa.PrivateKey, common.Address, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.key, w.address, w.key != nil
}
