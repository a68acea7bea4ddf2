// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package ethereum

import (
	"context"
	"crypto/ecdsa"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/orbs-network/counter-controller/config"
	"github.com/orbs-network/counter-controller/instrumentation/logfields"
	"github.com/orbs-network/counter-controller/services/counter/adapter"
	"github.com/orbs-network/scribe/log"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"math/big"
	"sync"
)

var LogTag = log.String("adapter", "ethereum")

type Connector struct {
	logger   log.Logger
	config   config.EthereumConnectorConfig
	client   Client
	wallet   *KeyWallet
	abi      abi.ABI
	contract common.Address
	fee      *big.Int

	// nonce allocation and broadcast happen under this lock so concurrent kinds do not reuse a nonce
	sendMutex sync.Mutex
}

func NewConnector(cfg config.EthereumConnectorConfig, logger log.Logger, client Client, wallet *KeyWallet) (*Connector, error) {
	parsed, err := CounterABI()
	if err != nil {
		return nil, err
	}

	if !common.IsHexAddress(cfg.EthereumCounterContractAddress()) {
		return nil, errors.Errorf("invalid counter contract address %q", cfg.EthereumCounterContractAddress())
	}

	fee, ok := new(big.Int).SetString(cfg.EthereumResetFeeWei(), 10)
	if !ok || fee.Sign() < 0 {
		return nil, errors.Errorf("invalid reset fee %q", cfg.EthereumResetFeeWei())
	}

	return &Connector{
		logger:   logger.WithTags(LogTag),
		config:   cfg,
		client:   client,
		wallet:   wallet,
		abi:      parsed,
		contract: common.HexToAddress(cfg.EthereumCounterContractAddress()),
		fee:      fee,
	}, nil
}

func (c *Connector) ReadCounter(ctx context.Context) (adapter.RemoteValue, error) {
	return c.call(ctx, adapter.GET_COUNTER)
}

func (c *Connector) ReadOwner(ctx context.Context) (adapter.RemoteValue, error) {
	return c.call(ctx, adapter.OWNER)
}

func (c *Connector) call(ctx context.Context, method adapter.Method) (adapter.RemoteValue, error) {
	input, err := c.abi.Pack(method.String())
	if err != nil {
		return nil, errors.Wrapf(err, "failed packing %s", method)
	}

	msg := ethereum.CallMsg{To: &c.contract, Data: input}
	if _, from, ok := c.wallet.signer(); ok {
		msg.From = from
	}

	output, err := c.client.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, err
	}

	if len(output) == 0 {
		// an empty result is either a missing contract or a broken node
		if code, err := c.client.CodeAt(ctx, c.contract, nil); err != nil {
			return nil, err
		} else if len(code) == 0 {
			return nil, bind.ErrNoCode
		}
		return nil, errors.Errorf("empty output calling %s", method)
	}

	values, err := c.abi.Methods[method.String()].Outputs.UnpackValues(output)
	if err != nil {
		return nil, errors.Wrapf(err, "failed unpacking %s output", method)
	}
	return values, nil
}

func (c *Connector) Submit(ctx context.Context, method adapter.Method, args ...interface{}) error {
	key, from, ok := c.wallet.signer()
	if !ok {
		return errors.New("transaction not signed: no private key configured")
	}

	input, err := c.abi.Pack(method.String(), args...)
	if err != nil {
		return errors.Wrapf(err, "failed packing %s", method)
	}

	value := big.NewInt(0)
	if method == adapter.RESET_COUNTER {
		value = new(big.Int).Set(c.fee)
	}

	tx, err := c.send(ctx, key, from, value, input)
	if err != nil {
		c.logger.Info("failed sending transaction", logfields.Method(method.String()), logfields.Identity(from.Hex()), log.Error(err))
		return err
	}

	logger := c.logger.WithTags(logfields.Method(method.String()), log.String("tx-hash", tx.Hash().Hex()))
	logger.Info("transaction sent, waiting to be mined", log.Uint64("nonce", tx.Nonce()))

	receipt, err := bind.WaitMined(ctx, c.client, tx)
	if err != nil {
		return errors.Wrapf(err, "gave up waiting for %s", tx.Hash().Hex())
	}

	if receipt.Status == types.ReceiptStatusFailed {
		logger.Info("transaction reverted", log.Uint64("gas-used", receipt.GasUsed))
		return errors.Errorf("transaction %s reverted", tx.Hash().Hex())
	}

	logger.Info("transaction mined", log.Uint64("gas-used", receipt.GasUsed))
	return nil
}

func (c *Connector) send(ctx context.Context, key *ecdsa.PrivateKey, from common.Address, value *big.Int, input []byte) (*types.Transaction, error) {
	c.sendMutex.Lock()
	defer c.sendMutex.Unlock()

	nonce, err := c.client.PendingNonceAt(ctx, from)
	if err != nil {
		return nil, errors.Wrap(err, "failed retrieving account nonce")
	}

	gasPrice, err := c.client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed suggesting gas price")
	}

	gasLimit, err := c.client.EstimateGas(ctx, ethereum.CallMsg{From: from, To: &c.contract, GasPrice: gasPrice, Value: value, Data: input})
	if err != nil {
		return nil, errors.Wrap(err, "failed estimating gas, the contract would likely revert")
	}

	chainId := new(big.Int).SetUint64(uint64(c.config.EthereumChainId()))
	tx, err := types.SignTx(types.NewTransaction(nonce, c.contract, value, gasLimit, gasPrice, input), types.NewEIP155Signer(chainId), key)
	if err != nil {
		return nil, errors.Wrap(err, "failed signing transaction")
	}

	if err := c.client.SendTransaction(ctx, tx); err != nil {
		return nil, errors.Wrap(err, "failed broadcasting transaction")
	}
	return tx, nil
}

func (c *Connector) CheckHealth(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		code, err := c.client.CodeAt(ctx, c.contract, nil)
		if err != nil {
			return errors.Wrap(err, "failed reading contract code")
		}
		if len(code) == 0 {
			return errors.Wrapf(bind.ErrNoCode, "at %s", c.contract.Hex())
		}
		return nil
	})

	g.Go(func() error {
		chainId, err := c.client.ChainID(ctx)
		if err != nil {
			return errors.Wrap(err, "failed reading chain id")
		}
		if !chainId.IsUint64() || chainId.Uint64() != uint64(c.config.EthereumChainId()) {
			return errors.Errorf("connected to chain %s, configured for %d", chainId, c.config.EthereumChainId())
		}
		return nil
	})

	return g.Wait()
}
