// Package natsutil classifies NATS client errors for the KV partition writer.
package natsutil

import (
	"context"
	"errors"
	"net"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// unreachable lists the client errors a KV bucket operation returns when the
// server, or its JetStream subsystem, never answered.
var unreachable = []error{
	context.DeadlineExceeded,
	nats.ErrTimeout,
	nats.ErrNoServers,
	nats.ErrNoResponders,
	nats.ErrDisconnected,
	nats.ErrConnectionClosed,
	nats.ErrConnectionDraining,
	jetstream.ErrNoStreamResponse,
	jetstream.ErrJetStreamNotEnabled,
}

// Unreachable reports whether a bucket delete, create or put failed because
// nothing answered, as opposed to the server rejecting the request (bucket
// missing, key missing, bad configuration).
//
// Network errors from the dialer (refused, reset, i/o timeout) count as
// unreachable too.
func Unreachable(err error) bool {
	if err == nil {
		return false
	}

	for _, target := range unreachable {
		if errors.Is(err, target) {
			return true
		}
	}

	var netErr net.Error

	return errors.As(err, &netErr)
}
