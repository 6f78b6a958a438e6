// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package messagebus

import (
	"sync"

	"github.com/bitmark-inc/pubconnector/counter"
)

// Message - a command and its encoded parameters
type Message struct {
	Command    string
	Parameters [][]byte
}

// BroadcastQueue - every listener receives every message sent while
// it is registered
type BroadcastQueue struct {
	sync.Mutex
	listeners []chan Message
	dropped   counter.Counter
}

// the bus itself
type busses struct {
	Broadcast *BroadcastQueue
}

// Bus - the global set of queues
var Bus = busses{
	Broadcast: &BroadcastQueue{},
}

// Send - deliver to every listener with room for it
func (queue *BroadcastQueue) Send(command string, parameters ...[]byte) {
	m := Message{
		Command:    command,
		Parameters: parameters,
	}

	queue.Lock()
	defer queue.Unlock()

	for _, listener := range queue.listeners {
		select {
		case listener <- m:
		default:
			queue.dropped.Increment()
		}
	}
}

// Chan - register a new listener
func (queue *BroadcastQueue) Chan(size int) <-chan Message {
	if size < 0 {
		size = 0
	}
	c := make(chan Message, size)

	queue.Lock()
	queue.listeners = append(queue.listeners, c)
	queue.Unlock()

	return c
}

// Release - unregister a listener and close its channel
func (queue *BroadcastQueue) Release(c <-chan Message) {
	queue.Lock()
	defer queue.Unlock()

	for i, listener := range queue.listeners {
		if (<-chan Message)(listener) == c {
			queue.listeners = append(queue.listeners[:i], queue.listeners[i+1:]...)
			close(listener)
			return
		}
	}
}

// Listeners - number of registered listeners
func (queue *BroadcastQueue) Listeners() int {
	queue.Lock()
	defer queue.Unlock()
	return len(queue.listeners)
}

// Dropped - total messages a listener had no room for
func (queue *BroadcastQueue) Dropped() uint64 {
	return queue.dropped.Uint64()
}
