package adapter

import "github.com/go-mesh/meshkit/pkg/permission"

// rule describes how one permission behaves on a platform family: either it
// maps to a native runtime permission, or it resolves to a fixed default
// status because the platform does not gate it separately.
type rule struct {
	native   bool
	fallback permission.Status
}

var nativeRule = rule{native: true}

func fixed(s permission.Status) rule {
	return rule{fallback: s}
}

// androidRules: every permission in the model is a distinct runtime
// permission. The base bluetooth permission acts as the umbrella for the
// runtime Bluetooth group on the native side.
var androidRules = map[permission.Permission]rule{
	permission.Bluetooth:          nativeRule,
	permission.BluetoothAdvertise: nativeRule,
	permission.BluetoothConnect:   nativeRule,
	permission.BluetoothScan:      nativeRule,
	permission.Location:           nativeRule,
	permission.LocationWhenInUse:  nativeRule,
	permission.LocationAlways:     nativeRule,
	permission.Notification:       nativeRule,
	permission.Storage:            nativeRule,
	permission.Camera:             nativeRule,
	permission.Microphone:         nativeRule,
}

// appleRules: the base Bluetooth grant covers scanning, connecting, and
// advertising, and the app sandbox covers storage. Those resolve to granted
// rather than being dropped so callers see a uniform permission set.
var appleRules = map[permission.Permission]rule{
	permission.Bluetooth:          nativeRule,
	permission.BluetoothAdvertise: fixed(permission.StatusGranted),
	permission.BluetoothConnect:   fixed(permission.StatusGranted),
	permission.BluetoothScan:      fixed(permission.StatusGranted),
	permission.Location:           nativeRule,
	permission.LocationWhenInUse:  nativeRule,
	permission.LocationAlways:     nativeRule,
	permission.Notification:       nativeRule,
	permission.Storage:            fixed(permission.StatusGranted),
	permission.Camera:             nativeRule,
	permission.Microphone:         nativeRule,
}

// desktopRules: desktop hosts show no permission dialogs for this set.
// Location has no system service to gate, so it is not applicable rather
// than denied.
var desktopRules = map[permission.Permission]rule{
	permission.Bluetooth:          fixed(permission.StatusGranted),
	permission.BluetoothAdvertise: fixed(permission.StatusGranted),
	permission.BluetoothConnect:   fixed(permission.StatusGranted),
	permission.BluetoothScan:      fixed(permission.StatusGranted),
	permission.Location:           fixed(permission.StatusNotApplicable),
	permission.LocationWhenInUse:  fixed(permission.StatusNotApplicable),
	permission.LocationAlways:     fixed(permission.StatusNotApplicable),
	permission.Notification:       fixed(permission.StatusGranted),
	permission.Storage:            fixed(permission.StatusGranted),
	permission.Camera:             fixed(permission.StatusGranted),
	permission.Microphone:         fixed(permission.StatusGranted),
}
