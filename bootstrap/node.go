// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package bootstrap

import (
	"context"
	"github.com/orbs-network/counter-controller/bootstrap/httpserver"
	"github.com/orbs-network/counter-controller/config"
	"github.com/orbs-network/counter-controller/instrumentation/logfields"
	"github.com/orbs-network/counter-controller/instrumentation/metric"
	"github.com/orbs-network/counter-controller/services/contractconnector"
	"github.com/orbs-network/counter-controller/services/counter"
	"github.com/orbs-network/govnr"
	"github.com/orbs-network/scribe/log"
	"github.com/pkg/errors"
)

var LogTag = log.String("component", "node")

type Node struct {
	govnr.TreeSupervisor
	logger     log.Logger
	service    *counter.Service
	httpServer *httpserver.HttpServer
	ctxCancel  context.CancelFunc
}

func NewNode(nodeConfig config.NodeConfig, parent log.Logger) (*Node, error) {
	if err := config.ValidateNodeConfig(nodeConfig); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	logger := parent.WithTags(LogTag, log.String("connector", nodeConfig.ContractConnector()))
	ctx, ctxCancel := context.WithCancel(context.Background())

	connection, err := NewConnection(ctx, nodeConfig, logger)
	if err != nil {
		ctxCancel()
		return nil, errors.Wrap(err, "failed connecting to the counter contract")
	}

	registry := metric.NewRegistry().WithLabel("connector", connection.Name)
	service := counter.NewService(ctx, nodeConfig, logger, connection.Wallet, connection.Contract, registry)

	n := &Node{
		logger:     logger,
		service:    service,
		httpServer: httpserver.NewHttpServer(nodeConfig, connection.Name, logger, service, registry),
		ctxCancel:  ctxCancel,
	}
	n.Supervise(service)

	// the first read is not awaited so a slow node does not delay serving
	govnr.Once(logfields.GovnrErrorer(logger), func() {
		service.Refresh(ctx)
	})

	if interval := nodeConfig.MetricsReportInterval(); interval > 0 {
		n.Supervise(registry.ReportEvery(ctx, interval, logger))
		n.Supervise(metric.NewSystemReporter(ctx, registry, logger))
		if connection.HealthChecker != nil {
			n.Supervise(contractconnector.ReportConnectionStatus(ctx, connection.Name, connection.HealthChecker, registry, interval, logger))
		}
	}

	if endpoint := nodeConfig.NtpEndpoint(); endpoint != "" {
		n.Supervise(metric.NewNtpReporter(ctx, registry, logger, endpoint))
	}

	logger.Info("counter controller started", log.Stringable("identity", service.Identity()), log.String("version", config.GetVersion().String()))
	return n, nil
}

func (n *Node) Service() *counter.Service {
	return n.service
}

func (n *Node) HttpServer() *httpserver.HttpServer {
	return n.httpServer
}

func (n *Node) GracefulShutdown(shutdownContext context.Context) {
	n.logger.Info("shutting down")
	n.ctxCancel()
	n.httpServer.GracefulShutdown(shutdownContext)
}
