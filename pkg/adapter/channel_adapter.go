package adapter

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/go-mesh/meshkit/pkg/bridge"
	"github.com/go-mesh/meshkit/pkg/errors"
	"github.com/go-mesh/meshkit/pkg/permission"
)

// channelAdapter implements Adapter over the shared channel protocol. The
// per-family mapping rules are the only thing that varies between platforms.
type channelAdapter struct {
	family   permission.Family
	rules    map[permission.Permission]rule
	methods  *bridge.MethodChannel
	platform *bridge.MethodChannel
	events   *bridge.EventChannel
	changes  *bridge.Stream[permission.Change]
	disposed atomic.Bool
}

func newChannelAdapter(b *bridge.Bridge, family permission.Family, rules map[permission.Permission]rule) *channelAdapter {
	events := b.Events(ChangesChannel)
	return &channelAdapter{
		family:   family,
		rules:    rules,
		methods:  b.Method(PermissionsChannel),
		platform: b.Method(PlatformChannel),
		events:   events,
		changes:  bridge.NewStream(events, parseChange),
	}
}

func (a *channelAdapter) Family() permission.Family {
	return a.family
}

// split partitions perms into native permissions and fixed-status results.
func (a *channelAdapter) split(perms []permission.Permission) (native []permission.Permission, fixed map[permission.Permission]permission.Status) {
	fixed = make(map[permission.Permission]permission.Status)
	for _, p := range perms {
		r, ok := a.rules[p]
		switch {
		case !ok:
			fixed[p] = permission.StatusNotApplicable
		case r.native:
			native = append(native, p)
		default:
			fixed[p] = r.fallback
		}
	}
	return native, fixed
}

func (a *channelAdapter) RequestPermissions(ctx context.Context, perms []permission.Permission) (bool, error) {
	if a.disposed.Load() {
		return false, bridge.ErrClosed
	}

	native, fixed := a.split(perms)
	fixedOK := true
	for _, s := range fixed {
		if !s.Satisfied() {
			fixedOK = false
		}
	}
	if len(native) == 0 {
		return fixedOK, nil
	}

	result, err := a.methods.Invoke("request", map[string]any{
		"permissions": permissionNames(native),
	})
	if err != nil {
		return false, err
	}
	reply := parseRequestReply(result)
	return reply.granted && fixedOK, nil
}

func (a *channelAdapter) PermissionStatus(ctx context.Context, perms []permission.Permission) (map[permission.Permission]permission.Status, error) {
	if a.disposed.Load() {
		return nil, bridge.ErrClosed
	}

	native, fixed := a.split(perms)
	statuses := make(map[permission.Permission]permission.Status, len(perms))
	for p, s := range fixed {
		statuses[p] = s
	}
	if len(native) == 0 {
		return statuses, nil
	}

	result, err := a.methods.Invoke("check", map[string]any{
		"permissions": permissionNames(native),
	})
	if err != nil {
		return nil, err
	}
	reply := parseStatusReply(result)
	for _, p := range native {
		if s, ok := reply[p]; ok {
			statuses[p] = s
		} else {
			statuses[p] = permission.StatusUnknown
		}
	}
	return statuses, nil
}

func (a *channelAdapter) PlatformInfo(ctx context.Context) permission.PlatformInfo {
	if a.disposed.Load() {
		return permission.DegradedInfo(a.family)
	}

	result, err := a.platform.Invoke("info", nil)
	if err != nil {
		errors.Report(&errors.MeshError{
			Op:      "adapter.platformInfo",
			Kind:    errors.KindBridge,
			Channel: PlatformChannel,
			Err:     err,
		})
		return permission.DegradedInfo(a.family)
	}
	info, ok := parsePlatformInfo(a.family, result)
	if !ok {
		errors.Report(&errors.MeshError{
			Op:      "adapter.platformInfo",
			Kind:    errors.KindParsing,
			Channel: PlatformChannel,
			Err: &errors.ParseError{
				Channel:  PlatformChannel,
				DataType: "PlatformInfo",
				Got:      result,
			},
		})
		return permission.DegradedInfo(a.family)
	}
	return info
}

func (a *channelAdapter) OpenSettings(ctx context.Context) error {
	if a.disposed.Load() {
		return bridge.ErrClosed
	}
	_, err := a.methods.Invoke("openSettings", nil)
	return err
}

func (a *channelAdapter) Changes() *bridge.Stream[permission.Change] {
	return a.changes
}

func (a *channelAdapter) Dispose() {
	if a.disposed.CompareAndSwap(false, true) {
		a.events.Close()
	}
}

func permissionNames(perms []permission.Permission) []string {
	names := make([]string, len(perms))
	for i, p := range perms {
		names[i] = string(p)
	}
	return names
}

// requestReply is the typed shape of a native "request" response.
type requestReply struct {
	granted bool
}

func parseRequestReply(result any) requestReply {
	m := bridge.ParseMap(result)
	if m == nil {
		return requestReply{}
	}
	return requestReply{granted: bridge.ParseBool(m["granted"])}
}

// parseStatusReply decodes a native "check" response into model statuses.
// Unrecognized status strings become unknown; unrecognized permission names
// are dropped.
func parseStatusReply(result any) map[permission.Permission]permission.Status {
	statuses := make(map[permission.Permission]permission.Status)
	m := bridge.ParseMap(result)
	if m == nil {
		return statuses
	}
	for name, raw := range bridge.ParseMap(m["statuses"]) {
		p := permission.Permission(name)
		if !p.Valid() {
			continue
		}
		statuses[p] = permission.ParseStatus(bridge.ParseString(raw))
	}
	return statuses
}

// parsePlatformInfo decodes a native "info" response. The adapter's own
// family is authoritative; the payload contributes version, model,
// capabilities, tier, and metadata.
func parsePlatformInfo(family permission.Family, result any) (permission.PlatformInfo, bool) {
	m := bridge.ParseMap(result)
	if m == nil {
		return permission.PlatformInfo{}, false
	}

	caps := permission.CapabilitySet{}
	for _, name := range bridge.ParseStringSlice(m["capabilities"]) {
		caps[permission.Capability(name)] = true
	}

	tier := permission.PerformanceTier(bridge.ParseString(m["tier"]))
	switch tier {
	case permission.TierLow, permission.TierBalanced, permission.TierHigh:
	default:
		tier = permission.TierUnknown
	}

	metadata := make(map[string]string)
	for key, val := range bridge.ParseMap(m["metadata"]) {
		metadata[key] = bridge.ParseString(val)
	}

	return permission.PlatformInfo{
		Family:       family,
		OSVersion:    bridge.ParseString(m["osVersion"]),
		DeviceModel:  bridge.ParseString(m["deviceModel"]),
		Capabilities: caps,
		Tier:         tier,
		Metadata:     metadata,
	}, true
}

// parseChange decodes a change event from the host.
func parseChange(data any) (permission.Change, error) {
	m := bridge.ParseMap(data)
	if m == nil {
		return permission.Change{}, &errors.ParseError{
			Channel:  ChangesChannel,
			DataType: "permission.Change",
			Got:      data,
		}
	}
	p := permission.Permission(bridge.ParseString(m["permission"]))
	if !p.Valid() {
		return permission.Change{}, &errors.ParseError{
			Channel:  ChangesChannel,
			DataType: "permission.Change",
			Got:      data,
		}
	}
	change := permission.Change{
		Permission: p,
		Status:     permission.ParseStatus(bridge.ParseString(m["status"])),
		Timestamp:  bridge.ParseTime(m["timestamp"]),
	}
	if prev := bridge.ParseString(m["previous"]); prev != "" {
		change.Previous = permission.ParseStatus(prev)
	}
	if change.Timestamp.IsZero() {
		change.Timestamp = time.Now()
	}
	return change, nil
}
