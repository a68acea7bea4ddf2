// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package counter

import (
	"context"
	"fmt"
	"github.com/orbs-network/counter-controller/config"
	"github.com/orbs-network/counter-controller/instrumentation/logfields"
	"github.com/orbs-network/counter-controller/instrumentation/metric"
	"github.com/orbs-network/counter-controller/services/counter/adapter"
	"github.com/orbs-network/counter-controller/synchronization"
	"github.com/orbs-network/govnr"
	"github.com/orbs-network/scribe/log"
	"golang.org/x/sync/errgroup"
	"sync"
	"sync/atomic"
	"time"
)

// ReadCoordinator holds the single counter reading of the process, Refresh is its only write path
type ReadCoordinator struct {
	govnr.TreeSupervisor
	logger  log.Logger
	reader  adapter.ContractReader
	metrics *coordinatorMetrics

	counterSeq uint64
	ownerSeq   uint64

	mu struct {
		sync.RWMutex
		reading      Reading
		appliedSeq   uint64
		inFlight     int
		owner        OwnerRecord
		ownerApplied uint64
	}

	// changes are queued under mu in the order they were applied and delivered after it is released
	deliveries  dispatcher
	subscribers struct {
		sync.Mutex
		nextId int
		byId   map[int]func(Reading)
		order  []int
	}
}

func NewReadCoordinator(parent log.Logger, reader adapter.ContractReader, metricFactory metric.Factory) *ReadCoordinator {
	c := &ReadCoordinator{
		logger:  parent.WithTags(log.String("component", "read-coordinator")),
		reader:  reader,
		metrics: newCoordinatorMetrics(metricFactory),
	}
	c.subscribers.byId = make(map[int]func(Reading))
	return c
}

func (c *ReadCoordinator) Reading() Reading {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.mu.reading
}

func (c *ReadCoordinator) Owner() OwnerRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.mu.owner
}

// Subscribe registers f to receive every applied change in order. f is called with no coordinator
// or lifecycle lock held, so it may read the service; a Refresh from f is delivered after f returns.
func (c *ReadCoordinator) Subscribe(f func(Reading)) (unsubscribe func()) {
	c.subscribers.Lock()
	defer c.subscribers.Unlock()

	id := c.subscribers.nextId
	c.subscribers.nextId++
	c.subscribers.byId[id] = f
	c.subscribers.order = append(c.subscribers.order, id)

	var once sync.Once
	return func() {
		once.Do(func() {
			c.subscribers.Lock()
			defer c.subscribers.Unlock()
			delete(c.subscribers.byId, id)
			for i, existing := range c.subscribers.order {
				if existing == id {
					c.subscribers.order = append(c.subscribers.order[:i], c.subscribers.order[i+1:]...)
					break
				}
			}
		})
	}
}

// Refresh re-reads the counter and never fails, a transport failure is recorded on the reading
func (c *ReadCoordinator) Refresh(ctx context.Context) {
	seq := c.beginCounterRead()
	c.completeCounterRead(ctx, seq)
}

// RefreshAsync marks the read as in flight before returning, the read itself runs supervised
func (c *ReadCoordinator) RefreshAsync(ctx context.Context) {
	seq := c.beginCounterRead()
	govnr.Once(logfields.GovnrErrorer(c.logger), func() {
		c.completeCounterRead(ctx, seq)
	})
}

func (c *ReadCoordinator) RefreshOwner(ctx context.Context) {
	seq := atomic.AddUint64(&c.ownerSeq, 1)

	raw, err := c.reader.ReadOwner(ctx)

	var next OwnerRecord
	if err != nil {
		next = OwnerRecord{Err: &TransportReadError{Method: adapter.OWNER, Cause: err}}
		c.metrics.ownerFailures.Inc()
		c.logger.Info("failed reading owner", log.Error(err), logfields.Sequence(seq))
	} else {
		next = NormalizeOwner(raw)
		if !next.Known {
			c.logger.Info("owner read returned no recognizable address", log.String("shape", fmt.Sprintf("%T", raw)), logfields.Sequence(seq))
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq <= c.mu.ownerApplied {
		return
	}
	c.mu.ownerApplied = seq
	c.mu.owner = next
	c.metrics.owner.Update(next.Address)
}

// RefreshAll reads counter and owner concurrently and returns when both were applied
func (c *ReadCoordinator) RefreshAll(ctx context.Context) {
	var g errgroup.Group
	g.Go(func() error {
		c.Refresh(ctx)
		return nil
	})
	g.Go(func() error {
		c.RefreshOwner(ctx)
		return nil
	})
	_ = g.Wait()
}

// StartPolling keeps the reading fresh between mutations, a zero interval disables that poller
func (c *ReadCoordinator) StartPolling(ctx context.Context, cfg config.ReadCoordinatorConfig) {
	if interval := cfg.CounterPollingInterval(); interval > 0 {
		c.Supervise(synchronization.NewPeriodicalTrigger(ctx, "counter poller", interval, c.logger, func() {
			c.Refresh(ctx)
		}, nil))
	}

	if interval := cfg.OwnerPollingInterval(); interval > 0 {
		c.Supervise(synchronization.NewPeriodicalTrigger(ctx, "owner poller", interval, c.logger, func() {
			c.RefreshOwner(ctx)
		}, nil))
	}
}

func (c *ReadCoordinator) beginCounterRead() uint64 {
	c.mu.Lock()
	seq := atomic.AddUint64(&c.counterSeq, 1)
	c.mu.inFlight++
	if !c.mu.reading.Loading {
		c.mu.reading.Loading = true
		c.queuePublish(c.mu.reading)
	}
	c.mu.Unlock()

	c.deliveries.drain()
	return seq
}

func (c *ReadCoordinator) completeCounterRead(ctx context.Context, seq uint64) {
	start := time.Now()
	raw, err := c.reader.ReadCounter(ctx)
	c.metrics.readLatency.RecordSince(start)

	var next Reading
	if err != nil {
		next = Reading{Err: &TransportReadError{Method: adapter.GET_COUNTER, Cause: err}}
		c.metrics.readFailures.Inc()
		c.logger.Info("failed reading counter", log.Error(err), logfields.Sequence(seq))
	} else {
		next = Normalize(raw)
		if !next.Known {
			c.logger.Info("counter read returned an unrecognized value", log.String("shape", fmt.Sprintf("%T", raw)), logfields.Sequence(seq))
		}
	}
	next.UpdatedAt = time.Now()

	c.applyCounterRead(seq, next)
}

func (c *ReadCoordinator) applyCounterRead(seq uint64, next Reading) {
	c.mu.Lock()
	c.mu.inFlight--
	stale := seq <= c.mu.appliedSeq
	if !stale {
		c.mu.appliedSeq = seq
		c.mu.reading = next
		c.metrics.value.UpdateUint64(next.Value)
		c.metrics.known.UpdateBool(next.Known)
	}
	c.mu.reading.Loading = c.mu.inFlight > 0
	c.queuePublish(c.mu.reading)
	c.mu.Unlock()

	if stale {
		c.metrics.staleReads.Inc()
		c.logger.Info("dropped stale counter read", logfields.Sequence(seq))
	}

	c.deliveries.drain()
}

// queuePublish must be called with mu held
func (c *ReadCoordinator) queuePublish(reading Reading) {
	c.deliveries.enqueue(func() {
		c.publish(reading)
	})
}

func (c *ReadCoordinator) publish(reading Reading) {
	c.subscribers.Lock()
	subscribers := make([]func(Reading), 0, len(c.subscribers.order))
	for _, id := range c.subscribers.order {
		subscribers = append(subscribers, c.subscribers.byId[id])
	}
	c.subscribers.Unlock()

	for _, f := range subscribers {
		f(reading)
	}
}
