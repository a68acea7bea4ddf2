// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package bootstrap

import (
	"context"
	"github.com/orbs-network/counter-controller/config"
	"github.com/orbs-network/counter-controller/services/contractconnector/ethereum"
	"github.com/orbs-network/counter-controller/services/contractconnector/orbs"
	"github.com/orbs-network/counter-controller/services/counter/adapter"
	"github.com/orbs-network/counter-controller/services/counter/adapter/memory"
	"github.com/orbs-network/scribe/log"
	"github.com/pkg/errors"
)

// Connection is the wallet and contract of the configured connector
type Connection struct {
	Name     string
	Wallet   adapter.Wallet
	Contract adapter.Contract

	// nil when the connector has nothing remote to check
	HealthChecker adapter.HealthChecker
}

func NewConnection(ctx context.Context, cfg config.NodeConfig, logger log.Logger) (*Connection, error) {
	switch name := cfg.ContractConnector(); name {
	case config.CONNECTOR_ETHEREUM:
		client, err := ethereum.Dial(ctx, cfg.EthereumEndpoint())
		if err != nil {
			return nil, err
		}
		wallet, err := ethereum.NewKeyWallet(cfg.EthereumPrivateKey())
		if err != nil {
			return nil, err
		}
		connector, err := ethereum.NewConnector(cfg, logger, client, wallet)
		if err != nil {
			return nil, err
		}
		return &Connection{Name: name, Wallet: wallet, Contract: connector, HealthChecker: connector}, nil

	case config.CONNECTOR_ORBS:
		wallet, err := orbs.NewAccountWallet(cfg.OrbsPublicKey(), cfg.OrbsPrivateKey())
		if err != nil {
			return nil, err
		}
		connector, err := orbs.NewConnector(cfg, logger, orbs.NewClient(cfg), wallet)
		if err != nil {
			return nil, err
		}
		return &Connection{Name: name, Wallet: wallet, Contract: connector, HealthChecker: connector}, nil

	case config.CONNECTOR_MEMORY:
		owner := adapter.Identity(cfg.MemoryContractOwner())
		wallet := memory.NewWallet(owner)
		return &Connection{Name: name, Wallet: wallet, Contract: memory.NewContract(logger, wallet, owner)}, nil

	default:
		return nil, errors.Errorf("unknown contract connector %q", name)
	}
}
