// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package orbs

import (
	"context"
	"fmt"
	"github.com/orbs-network/counter-controller/config"
	"github.com/orbs-network/counter-controller/instrumentation/logfields"
	"github.com/orbs-network/counter-controller/services/counter/adapter"
	"github.com/orbs-network/orbs-client-sdk-go/codec"
	orbsClient "github.com/orbs-network/orbs-client-sdk-go/orbs"
	"github.com/orbs-network/scribe/log"
	"github.com/pkg/errors"
)

var LogTag = log.String("adapter", "orbs")

// Client is the part of *orbsClient.OrbsClient the connector uses
type Client interface {
	CreateTransaction(publicKey []byte, privateKey []byte, contractName string, methodName string, inputArguments ...interface{}) ([]byte, string, error)
	SendTransaction(rawTransaction []byte) (*codec.SendTransactionResponse, error)
	CreateQuery(publicKey []byte, contractName string, methodName string, inputArguments ...interface{}) ([]byte, error)
	SendQuery(rawQuery []byte) (*codec.RunQueryResponse, error)
}

func NewClient(cfg config.OrbsConnectorConfig) Client {
	return orbsClient.NewClient(cfg.OrbsEndpoint(), cfg.OrbsVirtualChainId(), codec.NETWORK_TYPE_TEST_NET)
}

type Connector struct {
	logger log.Logger
	config config.OrbsConnectorConfig
	client Client
	wallet *AccountWallet

	// queries must still be signed by some public key, used when the wallet is disconnected
	queryAccount *orbsClient.OrbsAccount
}

func NewConnector(cfg config.OrbsConnectorConfig, logger log.Logger, client Client, wallet *AccountWallet) (*Connector, error) {
	queryAccount, err := orbsClient.CreateAccount()
	if err != nil {
		return nil, errors.Wrap(err, "failed creating orbs query account")
	}

	return &Connector{
		logger:       logger.WithTags(LogTag, log.String("contract", cfg.OrbsCounterContractName())),
		config:       cfg,
		client:       client,
		wallet:       wallet,
		queryAccount: queryAccount,
	}, nil
}

func (c *Connector) ReadCounter(ctx context.Context) (adapter.RemoteValue, error) {
	return c.query(ctx, adapter.GET_COUNTER)
}

func (c *Connector) ReadOwner(ctx context.Context) (adapter.RemoteValue, error) {
	return c.query(ctx, adapter.OWNER)
}

func (c *Connector) query(ctx context.Context, method adapter.Method) (adapter.RemoteValue, error) {
	account := c.queryAccount
	if signer, ok := c.wallet.signer(); ok {
		account = signer
	}

	raw, err := c.client.CreateQuery(account.PublicKey, c.config.OrbsCounterContractName(), method.String())
	if err != nil {
		return nil, errors.Wrapf(err, "failed creating query %s", method)
	}

	var res *codec.RunQueryResponse
	err = c.await(ctx, func() (e error) {
		res, e = c.client.SendQuery(raw)
		return
	})
	if err != nil {
		return nil, err
	}

	if res.RequestStatus != codec.REQUEST_STATUS_COMPLETED || res.ExecutionResult != codec.EXECUTION_RESULT_SUCCESS {
		return nil, errors.Errorf("query %s failed: %s, %s%s", method, res.RequestStatus, res.ExecutionResult, describeOutput(res.OutputArguments))
	}
	return res.OutputArguments, nil
}

func (c *Connector) Submit(ctx context.Context, method adapter.Method, args ...interface{}) error {
	account, ok := c.wallet.signer()
	if !ok {
		return errors.New("transaction not signed: no orbs account configured")
	}

	raw, txId, err := c.client.CreateTransaction(account.PublicKey, account.PrivateKey, c.config.OrbsCounterContractName(), method.String(), args...)
	if err != nil {
		return errors.Wrapf(err, "failed creating transaction %s", method)
	}

	logger := c.logger.WithTags(logfields.Method(method.String()), log.String("tx-id", txId))
	logger.Info("sending transaction")

	var res *codec.SendTransactionResponse
	err = c.await(ctx, func() (e error) {
		res, e = c.client.SendTransaction(raw)
		return
	})
	if err != nil {
		logger.Info("failed sending transaction", log.Error(err))
		return err
	}

	if res.TransactionStatus != codec.TRANSACTION_STATUS_COMMITTED || res.ExecutionResult != codec.EXECUTION_RESULT_SUCCESS {
		logger.Info("transaction rejected", log.Stringable("tx-status", res.TransactionStatus), log.Stringable("execution-result", res.ExecutionResult))
		return errors.Errorf("transaction %s rejected: %s, %s%s", txId, res.TransactionStatus, res.ExecutionResult, describeOutput(res.OutputArguments))
	}

	logger.Info("transaction committed")
	return nil
}

func (c *Connector) CheckHealth(ctx context.Context) error {
	_, err := c.ReadCounter(ctx)
	return errors.Wrap(err, "orbs health check failed")
}

// await runs a blocking sdk call, abandoning it when ctx ends first
func (c *Connector) await(ctx context.Context, call func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() {
		done <- call()
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func describeOutput(outputs []interface{}) string {
	if len(outputs) == 0 {
		return ""
	}
	return fmt.Sprintf(" (%v)", outputs[0])
}
