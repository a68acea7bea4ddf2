// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package httpserver

import (
	"context"
	"fmt"
	"github.com/go-chi/chi/v5"
	"github.com/orbs-network/counter-controller/config"
	"github.com/orbs-network/counter-controller/instrumentation/logfields"
	"github.com/orbs-network/counter-controller/instrumentation/metric"
	"github.com/orbs-network/counter-controller/services/counter"
	"github.com/orbs-network/counter-controller/services/counter/adapter"
	"github.com/orbs-network/govnr"
	"github.com/orbs-network/scribe/log"
	"golang.org/x/net/netutil"
	"golang.org/x/time/rate"
	"net"
	"net/http"
	"time"
)

var LogTag = log.String("adapter", "http-server")

type httpErr struct {
	code     int
	logField *log.Field
	message  string
}

// CounterService is what the http api needs from the counter controller
type CounterService interface {
	Affordances(input string) counter.Affordances
	Reading() counter.Reading
	Owner() counter.OwnerRecord
	Identity() adapter.Identity
	ActionState(kind counter.ActionKind) counter.ActionState
	Refresh(ctx context.Context)
	SubmitAsync(request counter.ActionRequest) error
}

type HttpServer struct {
	httpServer     *http.Server
	logger         log.Logger
	service        CounterService
	metricRegistry metric.Registry
	config         config.HttpServerConfig
	limiter        *rate.Limiter
	connector      string
	startTime      time.Time

	port int
}

type tcpKeepAliveListener struct {
	*net.TCPListener
}

func (ln tcpKeepAliveListener) Accept() (net.Conn, error) {
	tc, err := ln.AcceptTCP()
	if err != nil {
		return nil, err
	}
	err = tc.SetKeepAlive(true)
	if err != nil {
		return nil, err
	}
	err = tc.SetKeepAlivePeriod(35 * time.Second)
	if err != nil {
		return nil, err
	}
	return tc, nil
}

func newServer(cfg config.HttpServerConfig, connector string, logger log.Logger, service CounterService, metricRegistry metric.Registry) *HttpServer {
	limit := rate.Inf
	if cfg.HttpSubmissionRate() > 0 {
		limit = rate.Limit(cfg.HttpSubmissionRate())
	}

	return &HttpServer{
		logger:         logger.WithTags(LogTag),
		service:        service,
		metricRegistry: metricRegistry,
		config:         cfg,
		limiter:        rate.NewLimiter(limit, int(cfg.HttpSubmissionBurst())),
		connector:      connector,
		startTime:      time.Now(),
	}
}

func NewHttpServer(cfg config.HttpServerConfig, connector string, logger log.Logger, service CounterService, metricRegistry metric.Registry) *HttpServer {
	server := newServer(cfg, connector, logger, service, metricRegistry)

	listener, err := net.Listen("tcp", cfg.HttpAddress())
	if err != nil {
		panic(fmt.Sprintf("failed to start http server: %s", err.Error()))
	}
	server.port = listener.Addr().(*net.TCPAddr).Port
	server.httpServer = &http.Server{
		Handler: server.createRouter(),
	}

	var limited net.Listener = tcpKeepAliveListener{listener.(*net.TCPListener)}
	if max := cfg.HttpMaxConnections(); max > 0 {
		limited = netutil.LimitListener(limited, int(max))
	}

	// We prefer not to use `HttpServer.ListenAndServe` because we want to block until the socket is listening or exit immediately
	govnr.Once(logfields.GovnrErrorer(server.logger), func() {
		if err := server.httpServer.Serve(limited); err != nil && err != http.ErrServerClosed {
			server.logger.Error("http server stopped serving", log.Error(err))
		}
	})

	server.logger.Info("started http server", log.String("address", cfg.HttpAddress()), log.Int("port", server.port))

	return server
}

func (s *HttpServer) Port() int {
	return s.port
}

func (s *HttpServer) GracefulShutdown(shutdownContext context.Context) {
	if err := s.httpServer.Shutdown(shutdownContext); err != nil {
		s.logger.Error("failed to stop http server gracefully", log.Error(err))
	}
}

func (s *HttpServer) createRouter() http.Handler {
	router := chi.NewRouter()
	router.Use(wrapHandlerWithCORS)

	router.Get("/robots.txt", s.robots)
	router.Get("/metrics", s.dumpMetricsAsPrometheus)
	router.Get("/metrics.json", s.dumpMetrics)
	router.Get("/status", s.getStatus)

	router.Route("/api/v1/counter", func(r chi.Router) {
		r.Get("/", s.getCounterHandler)
		r.Get("/validate", s.validateHandler)
		r.Get("/actions/{action}", s.getActionStateHandler)
		r.Post("/refresh", s.refreshHandler)

		r.Group(func(r chi.Router) {
			r.Use(s.limitSubmissions)
			r.Post("/set", s.setHandler)
			r.Post("/{action}", s.submitHandler)
		})
	})

	return router
}

func (s *HttpServer) limitSubmissions(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			s.writeErrorResponseAndLog(w, &httpErr{http.StatusTooManyRequests, log.String("path", r.URL.Path), "too many submissions, try again later"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Allows handler to be called via XHR requests from any host
func wrapHandlerWithCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		w.Header().Set("Access-Control-Allow-Methods", "*")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
		} else {
			next.ServeHTTP(w, r)
		}
	})
}
