package network

import (
	"context"
	"fmt"
	"strings"

	"github.com/libp2p/go-libp2p"
	"github.com/libp2p/go-libp2p/core/host"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/libp2p/go-libp2p/core/protocol"
	gorpc "github.com/libp2p/go-libp2p-gorpc"
	"github.com/multiformats/go-multiaddr"

	"github.com/arvid220u/blockgamal/debug"
)

const rpcProtocolID = protocol.ID("/blockgamal/rpc/1.0.0")

// Libp2pConnectionProvider implements the ConnectionProvider interface using libp2p
type Libp2pConnectionProvider struct {
	Host   host.Host
	Client *gorpc.Client
	Server *gorpc.Server
}

// NewLibp2p starts a host listening on listenAddr, e.g. "/ip4/0.0.0.0/tcp/0".
func NewLibp2p(listenAddr string) (*Libp2pConnectionProvider, error) {
	h, err := libp2p.New(libp2p.ListenAddrStrings(listenAddr))
	if err != nil {
		return nil, fmt.Errorf("network: starting libp2p host on %s: %w", listenAddr, err)
	}
	cp := &Libp2pConnectionProvider{Host: h}
	cp.Server = gorpc.NewServer(h, rpcProtocolID)
	cp.Client = gorpc.NewClientWithServer(h, rpcProtocolID, cp.Server)
	debug.Logf(debug.TNet, "libp2p", "host %s listening on %v", h.ID(), h.Addrs())
	return cp, nil
}

func (cp *Libp2pConnectionProvider) RegisterName(name string, rcvr interface{}) error {
	return cp.Server.RegisterName(name, rcvr)
}

func (cp *Libp2pConnectionProvider) Call(ctx context.Context, addr string, svcName string, svcMeth string, args interface{}, reply interface{}) error {
	ma, err := multiaddr.NewMultiaddr(addr)
	if err != nil {
		return fmt.Errorf("network: bad address %q: %w", addr, err)
	}
	peerInfo, err := peer.AddrInfoFromP2pAddr(ma)
	if err != nil {
		return fmt.Errorf("network: address %q has no peer id: %w", addr, err)
	}

	if peerInfo.ID != cp.Host.ID() {
		if err := cp.Host.Connect(ctx, *peerInfo); err != nil {
			debug.Logf(debug.TNet, "libp2p", "connect to %s failed: %v", peerInfo.ID, err)
			return fmt.Errorf("%w: %s: %v", ErrUnreachable, peerInfo.ID, err)
		}
	}

	err = cp.Client.CallContext(ctx, peerInfo.ID, svcName, svcMeth, args, reply)
	if err != nil && gorpc.IsServerError(err) {
		return &RemoteError{Service: svcName, Method: svcMeth, Msg: err.Error()}
	}
	return err
}

// Me returns a dialable p2p multiaddr for this host, preferring a
// non-loopback address.
func (cp *Libp2pConnectionProvider) Me() string {
	pi := peer.AddrInfo{
		ID:    cp.Host.ID(),
		Addrs: cp.Host.Addrs(),
	}
	addrs, err := peer.AddrInfoToP2pAddrs(&pi)
	if err != nil || len(addrs) == 0 {
		return ""
	}
	chosenAddr := addrs[0].String()
	for _, addr := range addrs {
		if !strings.Contains(addr.String(), "127.0.0.1") {
			chosenAddr = addr.String()
		}
	}
	return chosenAddr
}

// Addrs returns every p2p multiaddr of this host.
func (cp *Libp2pConnectionProvider) Addrs() []string {
	addrs, err := peer.AddrInfoToP2pAddrs(&peer.AddrInfo{ID: cp.Host.ID(), Addrs: cp.Host.Addrs()})
	if err != nil {
		return nil
	}
	out := make([]string, len(addrs))
	for i, a := range addrs {
		out[i] = a.String()
	}
	return out
}

func (cp *Libp2pConnectionProvider) Close() error {
	return cp.Host.Close()
}
