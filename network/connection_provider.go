package network

import (
	"context"
	"errors"
	"fmt"
)

/* ConnectionProvider hides how an rpc reaches another party. Services are
identified by an address string: a p2p multiaddr for libp2p, or any name for
the in-process provider used in tests. Swapping providers should not change
the calling code. */
type ConnectionProvider interface {
	// Call invokes svcName.svcMeth on the party at addr, decoding the result into reply.
	Call(ctx context.Context, addr string, svcName string, svcMeth string, args interface{}, reply interface{}) error
	// RegisterName exposes rcvr's rpc methods under name.
	RegisterName(name string, rcvr interface{}) error
	// Me is the address other parties use to reach this provider.
	Me() string
}

// ErrUnreachable is returned when no party answers at an address.
var ErrUnreachable = errors.New("network: peer unreachable")

// RemoteError is an error returned by the remote handler. Only its message
// survives the trip.
type RemoteError struct {
	Service string
	Method  string
	Msg     string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote %s.%s: %s", e.Service, e.Method, e.Msg)
}
