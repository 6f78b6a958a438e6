// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package zmqutil - ZeroMQ socket and CURVE key helpers
package zmqutil

import (
	"time"

	zmq "github.com/pebbe/zmq4"

	"github.com/bitmark-inc/logger"
	"github.com/bitmark-inc/pubconnector/fault"
	"github.com/bitmark-inc/pubconnector/util"
)

const (
	heartbeatInterval = 15 * time.Second
	heartbeatTimeout  = 60 * time.Second
	heartbeatTTL      = 120 * time.Second
	lingerTime        = 250 * time.Millisecond
)

// Keys - optional CURVE server keys, both empty for a plain socket
type Keys struct {
	Private []byte
	Public  []byte
}

// Secure - true if CURVE is to be used
func (k Keys) Secure() bool {
	return 0 != len(k.Private) && 0 != len(k.Public)
}

// NewBind - bind a list of "host:port" addresses
//
// creates up to 2 sockets for separate IPv4 and IPv6 traffic, either
// may be nil
func NewBind(log *logger.L, socketType zmq.Type, zapDomain string, keys Keys, listen []string) (*zmq.Socket, *zmq.Socket, error) {

	if (0 == len(keys.Private)) != (0 == len(keys.Public)) {
		return nil, nil, fault.ErrMissingKeyPair
	}

	socket4 := (*zmq.Socket)(nil) // IPv4 traffic
	socket6 := (*zmq.Socket)(nil) // IPv6 traffic

	fail := func(err error) (*zmq.Socket, *zmq.Socket, error) {
		if nil != socket4 {
			socket4.Close()
		}
		if nil != socket6 {
			socket6.Close()
		}
		return nil, nil, err
	}

	for i, address := range listen {
		bindTo, v6, err := util.CanonicalIPandPort("tcp://", address)
		if nil != err {
			log.Errorf("invalid bind[%d]: %q  error: %s", i, address, err)
			return fail(err)
		}

		socket := socket4
		if v6 {
			socket = socket6
		}
		if nil == socket {
			socket, err = NewServerSocket(socketType, zapDomain, keys, v6)
			if nil != err {
				return fail(err)
			}
			if v6 {
				socket6 = socket
			} else {
				socket4 = socket
			}
		}

		err = socket.Bind(bindTo)
		if nil != err {
			log.Errorf("cannot bind[%d]: %q  error: %s", i, bindTo, err)
			return fail(err)
		}
		log.Infof("bind[%d]: %q  IPv6: %v  CURVE: %v", i, bindTo, v6, keys.Secure())
	}
	return socket4, socket6, nil
}

// NewServerSocket - create a socket suitable for a server side connection
func NewServerSocket(socketType zmq.Type, zapDomain string, keys Keys, v6 bool) (*zmq.Socket, error) {

	socket, err := zmq.NewSocket(socketType)
	if nil != err {
		return nil, err
	}

	if keys.Secure() {
		// any client holding the server public key may connect
		zmq.AuthCurveAdd(zapDomain, zmq.CURVE_ALLOW_ANY)

		err = socket.SetCurveServer(1)
		if nil == err {
			err = socket.SetCurveSecretkey(string(keys.Private))
		}
		if nil == err {
			err = socket.SetZapDomain(zapDomain)
		}
		if nil != err {
			socket.Close()
			return nil, err
		}
	}

	socket.SetIpv6(v6)
	socket.SetLinger(lingerTime)

	socket.SetHeartbeatIvl(heartbeatInterval)
	socket.SetHeartbeatTimeout(heartbeatTimeout)
	socket.SetHeartbeatTtl(heartbeatTTL)

	return socket, nil
}
