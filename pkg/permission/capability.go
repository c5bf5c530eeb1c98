package permission

// Capability identifies an optional hardware or OS feature whose presence
// gates which permissions are meaningful on a device.
type Capability string

// Device capability constants.
const (
	CapBluetooth     Capability = "bluetooth"
	CapBLE           Capability = "ble"
	CapAdvertising   Capability = "advertising"
	CapScanning      Capability = "scanning"
	CapBackground    Capability = "background_processing"
	CapLocation      Capability = "location_services"
	CapSecureStorage Capability = "secure_storage"
	CapBiometrics    Capability = "biometric_auth"
	CapNotifications Capability = "notifications"
	CapFilesystem    Capability = "filesystem"
	CapNetwork       Capability = "network"
)

// CapabilitySet is the set of capabilities a device supports.
type CapabilitySet map[Capability]bool

// NewCapabilitySet builds a set from the given capabilities.
func NewCapabilitySet(caps ...Capability) CapabilitySet {
	set := make(CapabilitySet, len(caps))
	for _, c := range caps {
		set[c] = true
	}
	return set
}

// Supports reports whether the set contains the capability.
func (s CapabilitySet) Supports(c Capability) bool {
	return s[c]
}

// List returns the supported capabilities in a stable order.
func (s CapabilitySet) List() []Capability {
	all := []Capability{
		CapBluetooth, CapBLE, CapAdvertising, CapScanning, CapBackground,
		CapLocation, CapSecureStorage, CapBiometrics, CapNotifications,
		CapFilesystem, CapNetwork,
	}
	var list []Capability
	for _, c := range all {
		if s[c] {
			list = append(list, c)
		}
	}
	return list
}

// requiredCapability maps each permission to the capability that makes it
// meaningful on a device. Permissions absent from this table are always
// applicable.
var requiredCapability = map[Permission]Capability{
	Bluetooth:          CapBluetooth,
	BluetoothAdvertise: CapAdvertising,
	BluetoothConnect:   CapBluetooth,
	BluetoothScan:      CapScanning,
	Location:           CapLocation,
	LocationWhenInUse:  CapLocation,
	LocationAlways:     CapLocation,
	Notification:       CapNotifications,
	Storage:            CapFilesystem,
}

// ApplicableOn reports whether the permission is meaningful on a device with
// the given capabilities.
func (p Permission) ApplicableOn(caps CapabilitySet) bool {
	c, ok := requiredCapability[p]
	if !ok {
		return true
	}
	return caps.Supports(c)
}
