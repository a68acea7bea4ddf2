// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package memory

import (
	"context"
	"github.com/orbs-network/counter-controller/instrumentation/logfields"
	"github.com/orbs-network/counter-controller/services/counter/adapter"
	"github.com/orbs-network/scribe/log"
	"github.com/pkg/errors"
	"math"
	"math/big"
	"strings"
	"sync"
)

var LogTag = log.String("adapter", "memory-contract")

// Encoding selects the shape in which reads are returned, real transports differ in this
type Encoding int

const (
	ENCODING_NATIVE Encoding = iota
	ENCODING_BIG_INT
	ENCODING_WRAPPED
)

// Contract mirrors the rules of the deployed counter contract in process
type Contract struct {
	logger   log.Logger
	wallet   adapter.Wallet
	encoding Encoding
	resetFee uint64

	mu struct {
		sync.Mutex
		counter  uint32
		owner    adapter.Identity
		balances map[adapter.Identity]uint64
	}

	faults struct {
		sync.Mutex
		read  error
		write map[adapter.Method]error
		gate  chan struct{}
	}

	calls struct {
		sync.Mutex
		reads  int
		writes map[adapter.Method]int
	}
}

func NewContract(parent log.Logger, wallet adapter.Wallet, owner adapter.Identity) *Contract {
	c := &Contract{
		logger: parent.WithTags(LogTag),
		wallet: wallet,
	}
	c.mu.owner = owner
	c.mu.balances = make(map[adapter.Identity]uint64)
	c.faults.write = make(map[adapter.Method]error)
	c.calls.writes = make(map[adapter.Method]int)
	return c
}

func (c *Contract) WithEncoding(encoding Encoding) *Contract {
	c.encoding = encoding
	return c
}

// reset_counter charges the caller this amount, like the native fee token transfer on chain
func (c *Contract) WithResetFee(fee uint64) *Contract {
	c.resetFee = fee
	return c
}

func (c *Contract) Fund(identity adapter.Identity, amount uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mu.balances[normalizeIdentity(identity)] += amount
}

func (c *Contract) Balance(identity adapter.Identity) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mu.balances[normalizeIdentity(identity)]
}

// Seed sets the stored value directly, bypassing the contract rules
func (c *Contract) Seed(value uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mu.counter = value
}

func (c *Contract) Value() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mu.counter
}

func (c *Contract) FailReadsWith(err error) {
	c.faults.Lock()
	defer c.faults.Unlock()
	c.faults.read = err
}

func (c *Contract) FailWritesWith(method adapter.Method, err error) {
	c.faults.Lock()
	defer c.faults.Unlock()
	c.faults.write[method] = err
}

func (c *Contract) ClearFaults() {
	c.faults.Lock()
	defer c.faults.Unlock()
	c.faults.read = nil
	c.faults.write = make(map[adapter.Method]error)
}

// HoldWrites makes every write block until the returned release function is called
func (c *Contract) HoldWrites() (release func()) {
	gate := make(chan struct{})
	c.faults.Lock()
	c.faults.gate = gate
	c.faults.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.faults.Lock()
			if c.faults.gate == gate {
				c.faults.gate = nil
			}
			c.faults.Unlock()
			close(gate)
		})
	}
}

func (c *Contract) ReadCount() int {
	c.calls.Lock()
	defer c.calls.Unlock()
	return c.calls.reads
}

func (c *Contract) WriteCount(method adapter.Method) int {
	c.calls.Lock()
	defer c.calls.Unlock()
	return c.calls.writes[method]
}

func (c *Contract) ReadCounter(ctx context.Context) (adapter.RemoteValue, error) {
	if err := c.beforeRead(ctx); err != nil {
		return nil, err
	}

	return c.encode(c.Value()), nil
}

func (c *Contract) ReadOwner(ctx context.Context) (adapter.RemoteValue, error) {
	if err := c.beforeRead(ctx); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.encoding == ENCODING_WRAPPED {
		return []interface{}{string(c.mu.owner)}, nil
	}
	return string(c.mu.owner), nil
}

func (c *Contract) beforeRead(ctx context.Context) error {
	c.calls.Lock()
	c.calls.reads++
	c.calls.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	c.faults.Lock()
	defer c.faults.Unlock()
	return c.faults.read
}

func (c *Contract) encode(value uint32) adapter.RemoteValue {
	switch c.encoding {
	case ENCODING_BIG_INT:
		return new(big.Int).SetUint64(uint64(value))
	case ENCODING_WRAPPED:
		return []interface{}{new(big.Int).SetUint64(uint64(value))}
	default:
		return value
	}
}

func (c *Contract) Submit(ctx context.Context, method adapter.Method, args ...interface{}) error {
	c.calls.Lock()
	c.calls.writes[method]++
	c.calls.Unlock()

	if err := c.waitForGate(ctx); err != nil {
		return err
	}

	c.faults.Lock()
	fault := c.faults.write[method]
	c.faults.Unlock()
	if fault != nil {
		return fault
	}

	caller := c.wallet.CurrentIdentity()
	if !caller.IsConnected() {
		return errors.New("transaction not signed: no account connected")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var err error
	switch method {
	case adapter.INCREASE_COUNTER:
		err = c.increase(caller)
	case adapter.DECREASE_COUNTER:
		err = c.decrease(caller)
	case adapter.RESET_COUNTER:
		err = c.reset(caller)
	case adapter.SET_COUNTER:
		err = c.set(caller, args)
	default:
		err = errors.Errorf("contract has no method %s", method)
	}

	if err != nil {
		c.logger.Info("transaction reverted", logfields.Method(method.String()), logfields.Identity(caller.String()), log.Error(err))
		return err
	}

	c.logger.Info("transaction committed", logfields.Method(method.String()), logfields.Identity(caller.String()), log.Uint32("counter", c.mu.counter))
	return nil
}

func (c *Contract) waitForGate(ctx context.Context) error {
	c.faults.Lock()
	gate := c.faults.gate
	c.faults.Unlock()

	if gate == nil {
		return nil
	}

	select {
	case <-gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Contract) requireOwner(caller adapter.Identity) error {
	if !strings.EqualFold(string(caller), string(c.mu.owner)) {
		return errors.Errorf("caller %s is not the owner", caller)
	}
	return nil
}

func (c *Contract) increase(caller adapter.Identity) error {
	if err := c.requireOwner(caller); err != nil {
		return err
	}
	if c.mu.counter == math.MaxUint32 {
		return errors.New("counter overflow")
	}
	c.mu.counter++
	return nil
}

func (c *Contract) decrease(caller adapter.Identity) error {
	if err := c.requireOwner(caller); err != nil {
		return err
	}
	if c.mu.counter == 0 {
		return errors.New("counter cannot go below zero")
	}
	c.mu.counter--
	return nil
}

func (c *Contract) reset(caller adapter.Identity) error {
	if c.mu.counter == 0 {
		return errors.New("counter is already zero")
	}
	key := normalizeIdentity(caller)
	if c.mu.balances[key] < c.resetFee {
		return errors.Errorf("insufficient balance for reset fee of %d", c.resetFee)
	}
	c.mu.balances[key] -= c.resetFee
	c.mu.counter = 0
	return nil
}

func (c *Contract) set(caller adapter.Identity, args []interface{}) error {
	if err := c.requireOwner(caller); err != nil {
		return err
	}
	if len(args) != 1 {
		return errors.Errorf("set_counter expects one argument, got %d", len(args))
	}
	value, ok := args[0].(uint32)
	if !ok {
		return errors.Errorf("set_counter expects a uint32 argument, got %T", args[0])
	}
	c.mu.counter = value
	return nil
}

func normalizeIdentity(identity adapter.Identity) adapter.Identity {
	return adapter.Identity(strings.ToLower(string(identity)))
}
