package permission

// Status represents the state of a permission as last reported by the
// platform.
type Status string

// Permission status constants.
const (
	// StatusGranted indicates full access has been granted.
	StatusGranted Status = "granted"

	// StatusDenied indicates the user denied the permission. The app may
	// request again.
	StatusDenied Status = "denied"

	// StatusPermanentlyDenied indicates the user denied with "don't ask
	// again" (Android) or denied repeatedly (iOS). The app cannot request
	// again; direct the user to system settings.
	StatusPermanentlyDenied Status = "permanently_denied"

	// StatusRestricted indicates a system policy prevents granting (parental
	// controls, MDM). The user cannot change this; no dialog will be shown.
	StatusRestricted Status = "restricted"

	// StatusUnknown indicates the status could not be determined.
	StatusUnknown Status = "unknown"

	// StatusNotApplicable indicates the permission has no meaning on this
	// platform. Treated as satisfied for uniform cross-platform handling.
	StatusNotApplicable Status = "not_applicable"
)

// IsGranted reports whether the permission is granted.
func (s Status) IsGranted() bool {
	return s == StatusGranted
}

// IsDenied reports whether the permission is denied in any form, including
// permanent denial and policy restriction.
func (s Status) IsDenied() bool {
	switch s {
	case StatusDenied, StatusPermanentlyDenied, StatusRestricted:
		return true
	default:
		return false
	}
}

// CanRequest reports whether showing a permission dialog can still change
// this status. Granted and permanently denied permissions must never be
// re-requested.
func (s Status) CanRequest() bool {
	return s == StatusDenied || s == StatusUnknown
}

// RequiresSettings reports whether the only remaining path to a grant is the
// system settings screen.
func (s Status) RequiresSettings() bool {
	return s == StatusPermanentlyDenied
}

// Satisfied reports whether the permission needs no further action: either
// granted or not applicable on this platform.
func (s Status) Satisfied() bool {
	return s == StatusGranted || s == StatusNotApplicable
}

// ParseStatus converts a wire-level status string to a Status, returning
// StatusUnknown for anything unrecognized.
func ParseStatus(raw string) Status {
	switch Status(raw) {
	case StatusGranted, StatusDenied, StatusPermanentlyDenied,
		StatusRestricted, StatusUnknown, StatusNotApplicable:
		return Status(raw)
	default:
		return StatusUnknown
	}
}
