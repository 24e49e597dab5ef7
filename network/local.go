package network

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"
	"reflect"
	"sync"

	"github.com/arvid220u/blockgamal/debug"
)

var (
	contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
)

// LocalNetwork connects LocalConnectionProviders inside one process. Args and
// replies are gob-encoded on every call so handlers never share memory with
// callers, as over a real connection.
type LocalNetwork struct {
	mu       sync.Mutex
	services map[string]map[string]interface{} // addr -> service name -> receiver
	enabled  map[string]bool
}

func NewLocalNetwork() *LocalNetwork {
	return &LocalNetwork{
		services: make(map[string]map[string]interface{}),
		enabled:  make(map[string]bool),
	}
}

// Provider returns the provider for addr, creating it if needed.
func (n *LocalNetwork) Provider(addr string) *LocalConnectionProvider {
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, ok := n.services[addr]; !ok {
		n.services[addr] = make(map[string]interface{})
		n.enabled[addr] = true
	}
	return &LocalConnectionProvider{net: n, addr: addr}
}

// Enable connects or disconnects addr.
func (n *LocalNetwork) Enable(addr string, enabled bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.enabled[addr] = enabled
}

func (n *LocalNetwork) lookup(addr, svcName string) (interface{}, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.enabled[addr] {
		return nil, false
	}
	rcvr, ok := n.services[addr][svcName]
	return rcvr, ok
}

// LocalConnectionProvider implements the ConnectionProvider interface on a LocalNetwork.
type LocalConnectionProvider struct {
	net  *LocalNetwork
	addr string
}

func (cp *LocalConnectionProvider) Me() string {
	return cp.addr
}

func (cp *LocalConnectionProvider) RegisterName(name string, rcvr interface{}) error {
	cp.net.mu.Lock()
	defer cp.net.mu.Unlock()
	if _, dup := cp.net.services[cp.addr][name]; dup {
		return fmt.Errorf("network: service %q already registered at %s", name, cp.addr)
	}
	cp.net.services[cp.addr][name] = rcvr
	return nil
}

func (cp *LocalConnectionProvider) Call(ctx context.Context, addr string, svcName string, svcMeth string, args interface{}, reply interface{}) error {
	if !cp.net.isEnabled(cp.addr) {
		return fmt.Errorf("%w: %s is disconnected", ErrUnreachable, cp.addr)
	}
	rcvr, ok := cp.net.lookup(addr, svcName)
	if !ok {
		return fmt.Errorf("%w: no %s at %s", ErrUnreachable, svcName, addr)
	}
	method := reflect.ValueOf(rcvr).MethodByName(svcMeth)
	if !method.IsValid() {
		return fmt.Errorf("network: %s has no method %s", svcName, svcMeth)
	}
	mt := method.Type()
	if mt.NumIn() != 3 || mt.NumOut() != 1 || mt.In(0) != contextType ||
		mt.In(2).Kind() != reflect.Ptr || mt.Out(0) != errorType {
		return fmt.Errorf("network: %s.%s is not an rpc method", svcName, svcMeth)
	}

	argv := reflect.New(mt.In(1))
	if err := gobCopy(args, argv.Interface()); err != nil {
		return fmt.Errorf("network: encoding args for %s.%s: %w", svcName, svcMeth, err)
	}
	replyv := reflect.New(mt.In(2).Elem())
	debug.Logf(debug.TNet, cp.addr, "call %s.%s at %s", svcName, svcMeth, addr)
	out := method.Call([]reflect.Value{reflect.ValueOf(ctx), argv.Elem(), replyv})
	if err, _ := out[0].Interface().(error); err != nil {
		return &RemoteError{Service: svcName, Method: svcMeth, Msg: err.Error()}
	}
	if rv := reflect.ValueOf(reply); rv.Kind() == reflect.Ptr && !rv.IsNil() {
		rv.Elem().Set(reflect.Zero(rv.Elem().Type()))
	}
	if err := gobCopy(replyv.Interface(), reply); err != nil {
		return fmt.Errorf("network: decoding reply of %s.%s: %w", svcName, svcMeth, err)
	}
	return nil
}

func (n *LocalNetwork) isEnabled(addr string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.enabled[addr]
}

func gobCopy(src, dst interface{}) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(src); err != nil {
		return err
	}
	return gob.NewDecoder(&buf).Decode(dst)
}
