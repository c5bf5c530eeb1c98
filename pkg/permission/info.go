package permission

// Family identifies the operating system family an adapter targets.
type Family string

// Platform family constants.
const (
	// FamilyAndroid covers devices with fine-grained runtime permission
	// control, including the split Bluetooth runtime group.
	FamilyAndroid Family = "android"

	// FamilyApple covers iOS and iPadOS, where the base Bluetooth grant
	// covers scanning, connecting, and advertising.
	FamilyApple Family = "apple"

	// FamilyDesktop covers desktop hosts without OS permission dialogs for
	// Bluetooth access.
	FamilyDesktop Family = "desktop"

	// FamilyUnknown is reported when the platform cannot be identified.
	FamilyUnknown Family = "unknown"
)

// PerformanceTier is a coarse classification of device performance used to
// tune mesh duty cycles.
type PerformanceTier string

// Performance tier constants.
const (
	TierLow      PerformanceTier = "low"
	TierBalanced PerformanceTier = "balanced"
	TierHigh     PerformanceTier = "high"
	TierUnknown  PerformanceTier = "unknown"
)

// PlatformInfo is an immutable snapshot of the device and OS an adapter is
// running on. It is created once per adapter and may be refreshed on demand,
// but is never mutated in place.
type PlatformInfo struct {
	// Family is the operating system family.
	Family Family

	// OSVersion is the OS version string as reported by the platform.
	OSVersion string

	// DeviceModel is the device model identifier, if available.
	DeviceModel string

	// Capabilities is the set of optional features the device supports.
	Capabilities CapabilitySet

	// Tier is the coarse performance classification.
	Tier PerformanceTier

	// Metadata carries free-form platform details (SDK level, vendor, ...).
	Metadata map[string]string
}

// DegradedInfo returns a conservative but valid PlatformInfo for use when the
// native platform query fails. Conservative means assuming every
// permission-gating capability is present: with the device unknown, a
// permission must be surfaced and requested rather than silently filtered
// out, so no required permission ever drops from a flow.
func DegradedInfo(f Family) PlatformInfo {
	return PlatformInfo{
		Family: f,
		Capabilities: NewCapabilitySet(
			CapBluetooth, CapBLE, CapScanning, CapAdvertising,
			CapLocation, CapNotifications, CapFilesystem, CapNetwork,
		),
		Tier: TierUnknown,
	}
}
