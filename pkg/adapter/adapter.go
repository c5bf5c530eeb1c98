// Package adapter translates meshkit's permission and capability model into
// native platform calls. One Adapter implementation exists per OS family;
// all of them speak the same channel protocol and differ only in which
// permissions are native on that platform and which resolve to fixed
// defaults. Select an implementation at startup with New.
package adapter

import (
	"context"
	"fmt"
	"runtime"

	"github.com/go-mesh/meshkit/pkg/bridge"
	"github.com/go-mesh/meshkit/pkg/permission"
)

// Channel names shared with native host code.
const (
	// PermissionsChannel carries check/request/openSettings method calls.
	PermissionsChannel = "meshkit/permissions"

	// PlatformChannel carries platform info queries.
	PlatformChannel = "meshkit/platform"

	// ChangesChannel streams permission change events from the host.
	ChangesChannel = "meshkit/permissions/changes"
)

// Adapter is the per-platform boundary of the permission subsystem. All
// implementations are safe for concurrent use.
type Adapter interface {
	// Family returns the OS family this adapter targets.
	Family() permission.Family

	// RequestPermissions issues a native request for every permission that
	// is native on this platform and not already resolved, returning true
	// only if all requested permissions end up granted. May trigger OS-level
	// UI. The adapter applies no internal timeout; bound the call with ctx
	// or an external race.
	RequestPermissions(ctx context.Context, perms []permission.Permission) (bool, error)

	// PermissionStatus queries current statuses without side effects.
	// Permissions that are not native on this platform resolve to their
	// fixed default (granted or not_applicable), never unknown, so callers
	// can treat the permission set uniformly across platforms.
	PermissionStatus(ctx context.Context, perms []permission.Permission) (map[permission.Permission]permission.Status, error)

	// PlatformInfo returns a snapshot of the device. Best-effort: on native
	// failure it returns a degraded but valid snapshot instead of an error.
	PlatformInfo(ctx context.Context) permission.PlatformInfo

	// OpenSettings opens the system settings screen for the app, for
	// permissions that can no longer be requested through a dialog.
	OpenSettings(ctx context.Context) error

	// Changes returns the stream of platform-originated permission change
	// events. Subscribers that attach late miss prior events.
	Changes() *bridge.Stream[permission.Change]

	// Dispose tears the adapter down: the change stream is closed and no
	// further notifications are delivered. Idempotent.
	Dispose()
}

// New returns the adapter for the given platform family. An unknown family
// is a programming error and fails hard rather than degrading.
func New(family permission.Family, b *bridge.Bridge) (Adapter, error) {
	switch family {
	case permission.FamilyAndroid:
		return newChannelAdapter(b, permission.FamilyAndroid, androidRules), nil
	case permission.FamilyApple:
		return newChannelAdapter(b, permission.FamilyApple, appleRules), nil
	case permission.FamilyDesktop:
		return newChannelAdapter(b, permission.FamilyDesktop, desktopRules), nil
	default:
		return nil, fmt.Errorf("adapter: unsupported platform family %q", family)
	}
}

// Detect maps the running OS to a platform family.
func Detect() permission.Family {
	switch runtime.GOOS {
	case "android":
		return permission.FamilyAndroid
	case "ios":
		return permission.FamilyApple
	case "linux", "windows", "darwin":
		return permission.FamilyDesktop
	default:
		return permission.FamilyUnknown
	}
}
