// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package counter

import "sync"

// dispatcher delivers callbacks in the order they were queued, with no controller lock held.
// Callers queue while holding the lock that orders the change, release it, then drain.
// A drain that finds another goroutine draining returns at once, that goroutine delivers the rest.
type dispatcher struct {
	mu       sync.Mutex
	queue    []func()
	draining bool
}

func (d *dispatcher) enqueue(f func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.queue = append(d.queue, f)
}

func (d *dispatcher) drain() {
	d.mu.Lock()
	if d.draining {
		d.mu.Unlock()
		return
	}
	d.draining = true

	for len(d.queue) > 0 {
		next := d.queue[0]
		d.queue[0] = nil
		d.queue = d.queue[1:]

		d.mu.Unlock()
		d.deliver(next)
		d.mu.Lock()
	}

	d.draining = false
	d.mu.Unlock()
}

// a panicking callback must not leave the dispatcher marked as draining
func (d *dispatcher) deliver(f func()) {
	defer func() {
		if r := recover(); r != nil {
			d.mu.Lock()
			d.draining = false
			d.mu.Unlock()
			panic(r)
		}
	}()
	f()
}
