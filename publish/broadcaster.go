// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package publish

import (
	zmq "github.com/pebbe/zmq4"

	"github.com/bitmark-inc/logger"
	"github.com/bitmark-inc/pubconnector/counter"
	"github.com/bitmark-inc/pubconnector/messagebus"
	"github.com/bitmark-inc/pubconnector/zmqutil"
)

const (
	broadcasterZapDomain = "broadcaster"
	listenerQueueSize    = 100
)

type broadcaster struct {
	log     *logger.L
	socket4 *zmq.Socket
	socket6 *zmq.Socket
	queue   <-chan messagebus.Message
	sent    counter.Counter
	failed  counter.Counter
}

// initialise the broadcaster
func (brdc *broadcaster) initialise(keys zmqutil.Keys, broadcast []string) error {

	log := logger.New("broadcaster")
	brdc.log = log

	log.Info("initialising…")

	var err error
	brdc.socket4, brdc.socket6, err = zmqutil.NewBind(log, zmq.PUB, broadcasterZapDomain, keys, broadcast)
	if nil != err {
		log.Errorf("bind error: %s", err)
		return err
	}

	// register before any refresh can start so no event is missed
	brdc.queue = messagebus.Bus.Broadcast.Chan(listenerQueueSize)

	return nil
}

// Run - forward every bus message to the PUB sockets
func (brdc *broadcaster) Run(args interface{}, shutdown <-chan struct{}) {

	log := brdc.log

	log.Info("starting…")

loop:
	for {
		select {
		case <-shutdown:
			break loop
		case item, ok := <-brdc.queue:
			if !ok {
				break loop
			}
			log.Debugf("sending: %s  parameters: %d", item.Command, len(item.Parameters))
			brdc.process(brdc.socket4, &item)
			brdc.process(brdc.socket6, &item)
		}
	}

	messagebus.Bus.Broadcast.Release(brdc.queue)

	if nil != brdc.socket4 {
		brdc.socket4.Close()
	}
	if nil != brdc.socket6 {
		brdc.socket6.Close()
	}
	log.Infof("stopped  sent: %d  failed: %d", brdc.sent.Uint64(), brdc.failed.Uint64())
}

// send one message as a multipart frame: command then parameters
func (brdc *broadcaster) process(socket *zmq.Socket, item *messagebus.Message) {
	if nil == socket {
		return
	}

	flags := zmq.DONTWAIT
	if 0 != len(item.Parameters) {
		flags |= zmq.SNDMORE
	}
	_, err := socket.Send(item.Command, flags)

	last := len(item.Parameters) - 1
	for i, p := range item.Parameters {
		if nil != err {
			break
		}
		if i == last {
			_, err = socket.SendBytes(p, zmq.DONTWAIT)
		} else {
			_, err = socket.SendBytes(p, zmq.SNDMORE|zmq.DONTWAIT)
		}
	}

	if nil != err {
		brdc.failed.Increment()
		brdc.log.Warnf("send: %s  error: %s", item.Command, err)
		return
	}
	brdc.sent.Increment()
}
