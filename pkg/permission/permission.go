// Package permission defines the data model for meshkit's permission and
// capability negotiation subsystem: the closed set of permissions a mesh
// messaging app depends on, their statuses, device capabilities, platform
// snapshots, request policies, and request results.
package permission

// Permission identifies an OS-gated capability the application must be
// granted before using.
type Permission string

// The closed set of permissions. New values are added here and to the
// metadata table; permissions are never constructed dynamically.
const (
	// Bluetooth is the base Bluetooth permission. On Android it acts as the
	// umbrella for the runtime Bluetooth group; on Apple platforms it is the
	// single CoreBluetooth authorization.
	Bluetooth Permission = "bluetooth"

	// BluetoothAdvertise allows advertising to nearby devices.
	BluetoothAdvertise Permission = "bluetooth_advertise"

	// BluetoothConnect allows connecting to paired or discovered devices.
	BluetoothConnect Permission = "bluetooth_connect"

	// BluetoothScan allows discovering nearby devices.
	BluetoothScan Permission = "bluetooth_scan"

	// Location is the base location permission. Required for BLE discovery
	// scanning on platforms that gate scan results behind location access.
	Location Permission = "location"

	// LocationWhenInUse allows location access while the app is foregrounded.
	LocationWhenInUse Permission = "location_when_in_use"

	// LocationAlways allows location access in the background.
	LocationAlways Permission = "location_always"

	// Notification allows posting user notifications.
	Notification Permission = "notification"

	// Storage allows reading and writing shared storage.
	Storage Permission = "storage"

	// Camera allows capturing photos and video.
	Camera Permission = "camera"

	// Microphone allows recording audio.
	Microphone Permission = "microphone"
)

// meta carries the static, platform-independent metadata for a permission.
type meta struct {
	name        string
	description string
	critical    bool
}

// metadata is the single source of truth for permission metadata. Critical
// permissions are the ones core mesh connectivity cannot operate without.
var metadata = map[Permission]meta{
	Bluetooth: {
		name:        "Bluetooth",
		description: "Connect with nearby devices over Bluetooth",
		critical:    true,
	},
	BluetoothAdvertise: {
		name:        "Bluetooth Advertising",
		description: "Make this device discoverable to nearby peers",
		critical:    true,
	},
	BluetoothConnect: {
		name:        "Bluetooth Connections",
		description: "Establish links with discovered peers",
		critical:    true,
	},
	BluetoothScan: {
		name:        "Bluetooth Scanning",
		description: "Discover nearby peers",
		critical:    true,
	},
	Location: {
		name:        "Location",
		description: "Required by the OS for Bluetooth discovery scanning",
		critical:    true,
	},
	LocationWhenInUse: {
		name:        "Location While Using",
		description: "Location access while the app is open",
		critical:    false,
	},
	LocationAlways: {
		name:        "Background Location",
		description: "Location access while the app is in the background",
		critical:    false,
	},
	Notification: {
		name:        "Notifications",
		description: "Alerts when messages arrive from the mesh",
		critical:    false,
	},
	Storage: {
		name:        "Storage",
		description: "Save received media and attachments",
		critical:    false,
	},
	Camera: {
		name:        "Camera",
		description: "Capture photos to share with peers",
		critical:    false,
	},
	Microphone: {
		name:        "Microphone",
		description: "Record voice messages",
		critical:    false,
	},
}

// All returns every known permission in a stable order.
func All() []Permission {
	return []Permission{
		Bluetooth,
		BluetoothAdvertise,
		BluetoothConnect,
		BluetoothScan,
		Location,
		LocationWhenInUse,
		LocationAlways,
		Notification,
		Storage,
		Camera,
		Microphone,
	}
}

// Valid reports whether p is one of the known permissions.
func (p Permission) Valid() bool {
	_, ok := metadata[p]
	return ok
}

// DisplayName returns the human-readable name for the permission.
func (p Permission) DisplayName() string {
	return metadata[p].name
}

// Description returns the human-readable purpose of the permission.
func (p Permission) Description() string {
	return metadata[p].description
}

// Critical reports whether core mesh connectivity requires this permission.
func (p Permission) Critical() bool {
	return metadata[p].critical
}

// RequiredFor returns the permissions a given platform family needs for the
// app to function. Families with fine-grained scan gating (Android) require
// location for discovery; families where the base Bluetooth grant covers the
// whole group do not. Unknown families fall back to the universal minimum.
func RequiredFor(f Family) []Permission {
	switch f {
	case FamilyAndroid:
		return []Permission{Bluetooth, Location, Notification}
	case FamilyApple:
		return []Permission{Bluetooth, Notification}
	case FamilyDesktop:
		return []Permission{Bluetooth, Notification}
	default:
		return []Permission{Bluetooth}
	}
}

// CriticalFor filters RequiredFor(f) down to critical permissions.
func CriticalFor(f Family) []Permission {
	var critical []Permission
	for _, p := range RequiredFor(f) {
		if p.Critical() {
			critical = append(critical, p)
		}
	}
	return critical
}
