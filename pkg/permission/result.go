package permission

// RequestResult is the externally observable outcome of a request flow. The
// partitions are computed from the final authoritative status query, not from
// the native request's advisory boolean.
type RequestResult struct {
	// FlowID uniquely identifies this request flow for log correlation.
	FlowID string

	// AllGranted is true when every applicable permission ended the flow
	// granted or not applicable.
	AllGranted bool

	// Statuses is the final per-permission status map.
	Statuses map[Permission]Status

	// Granted lists permissions that ended granted.
	Granted []Permission

	// Denied lists permissions that ended denied or restricted. Plain
	// denials can still be requested through a future dialog; restricted
	// ones cannot.
	Denied []Permission

	// RequiresSettings lists permanently denied permissions; the user must
	// grant these from the system settings screen.
	RequiresSettings []Permission

	// ErrorMessage describes why the flow fell short (timeout, disposal,
	// adapter failure). Empty on a clean pass.
	ErrorMessage string
}

// Partition splits statuses into granted / denied / requires-settings lists
// in the stable order of the perms slice.
func Partition(perms []Permission, statuses map[Permission]Status) (granted, denied, settings []Permission) {
	for _, p := range perms {
		s := statuses[p]
		switch {
		case s.Satisfied():
			granted = append(granted, p)
		case s.RequiresSettings():
			settings = append(settings, p)
		case s.IsDenied():
			denied = append(denied, p)
		}
	}
	return granted, denied, settings
}

// AllSatisfied reports whether every permission in perms is granted or not
// applicable according to statuses.
func AllSatisfied(perms []Permission, statuses map[Permission]Status) bool {
	for _, p := range perms {
		if !statuses[p].Satisfied() {
			return false
		}
	}
	return true
}
