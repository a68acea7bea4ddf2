// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package memory

import (
	"github.com/orbs-network/counter-controller/services/counter/adapter"
	"sync"
)

// Wallet is a session whose identity is switched by hand
type Wallet struct {
	mu       sync.RWMutex
	identity adapter.Identity
}

func NewWallet(identity adapter.Identity) *Wallet {
	return &Wallet{identity: identity}
}

func (w *Wallet) CurrentIdentity() adapter.Identity {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.identity
}

func (w *Wallet) Connect(identity adapter.Identity) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.identity = identity
}

func (w *Wallet) Disconnect() {
	w.Connect(adapter.Disconnected)
}
