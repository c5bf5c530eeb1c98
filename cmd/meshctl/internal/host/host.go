// Package host implements an in-process simulation of a native meshkit host
// for meshctl. It answers the permission and platform channels the adapters
// speak, keeps a mutable grant table, and emits change events the way a real
// host would after a user answers a dialog.
package host

import (
	"runtime"
	"sync"
	"time"

	"github.com/go-mesh/meshkit/pkg/adapter"
	"github.com/go-mesh/meshkit/pkg/bridge"
	"github.com/go-mesh/meshkit/pkg/permission"
)

// Host simulates the native side of the bridge.
type Host struct {
	transport *bridge.MemoryTransport

	mu       sync.Mutex
	statuses map[string]string
}

// New creates a host whose permissions all start denied, as on first launch.
func New() *Host {
	h := &Host{
		transport: bridge.NewMemoryTransport(),
		statuses:  make(map[string]string),
	}
	for _, p := range permission.All() {
		h.statuses[string(p)] = string(permission.StatusDenied)
	}

	h.transport.Handle(adapter.PermissionsChannel, h.handlePermissions)
	h.transport.Handle(adapter.PlatformChannel, h.handlePlatform)
	return h
}

// Transport returns the transport to build a Bridge over. Call
// Transport().Bind(bridge) after constructing the bridge so the host can
// deliver events.
func (h *Host) Transport() *bridge.MemoryTransport {
	return h.transport
}

// SetStatus overrides one permission's simulated status.
func (h *Host) SetStatus(p permission.Permission, s permission.Status) {
	h.mu.Lock()
	h.statuses[string(p)] = string(s)
	h.mu.Unlock()
}

// EmitChange pushes a simulated platform-originated change through the
// bridge, updating the grant table first.
func (h *Host) EmitChange(p permission.Permission, s permission.Status) error {
	h.mu.Lock()
	previous := h.statuses[string(p)]
	h.statuses[string(p)] = string(s)
	h.mu.Unlock()

	return h.transport.Emit(adapter.ChangesChannel, map[string]any{
		"permission": string(p),
		"status":     string(s),
		"previous":   previous,
		"timestamp":  time.Now().UnixMilli(),
	})
}

func (h *Host) handlePermissions(method string, args any) (any, error) {
	switch method {
	case "check":
		return h.check(args), nil
	case "request":
		return h.request(args), nil
	case "openSettings":
		return nil, nil
	default:
		return nil, bridge.ErrMethodNotFound
	}
}

func (h *Host) check(args any) any {
	names := bridge.ParseStringSlice(bridge.ParseMap(args)["permissions"])
	h.mu.Lock()
	defer h.mu.Unlock()
	statuses := make(map[string]any, len(names))
	for _, name := range names {
		statuses[name] = h.statuses[name]
	}
	return map[string]any{"statuses": statuses}
}

// request grants every requested permission and emits the matching change
// events, simulating a user who taps Allow on each dialog.
func (h *Host) request(args any) any {
	names := bridge.ParseStringSlice(bridge.ParseMap(args)["permissions"])
	for _, name := range names {
		p := permission.Permission(name)
		if p.Valid() {
			// Emit failures only mean nobody is listening yet.
			_ = h.EmitChange(p, permission.StatusGranted)
		}
	}
	return map[string]any{"granted": true}
}

func (h *Host) handlePlatform(method string, args any) (any, error) {
	if method != "info" {
		return nil, bridge.ErrMethodNotFound
	}
	caps := []any{
		string(permission.CapBluetooth),
		string(permission.CapBLE),
		string(permission.CapScanning),
		string(permission.CapAdvertising),
		string(permission.CapLocation),
		string(permission.CapNotifications),
		string(permission.CapFilesystem),
		string(permission.CapNetwork),
		string(permission.CapSecureStorage),
	}
	return map[string]any{
		"osVersion":    runtime.GOOS + "/" + runtime.GOARCH,
		"deviceModel":  "meshctl-sim",
		"capabilities": caps,
		"tier":         string(permission.TierBalanced),
		"metadata": map[string]any{
			"simulated": "true",
		},
	}, nil
}
