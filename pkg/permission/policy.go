package permission

import "time"

// DefaultRequestTimeout bounds how long a request flow waits for the user to
// answer a single permission dialog.
const DefaultRequestTimeout = 30 * time.Second

// RequestPolicy configures how the orchestrator runs a request flow. The
// zero value disables rationale, retries, and settings navigation; use
// DefaultRequestPolicy for sensible defaults.
type RequestPolicy struct {
	// ShowRationale surfaces a rationale (via the configured presenter)
	// before the native request for each requestable permission.
	ShowRationale bool

	// AutoNavigateSettings opens the system settings screen when any
	// permission ends the flow permanently denied.
	AutoNavigateSettings bool

	// Rationale overrides the default per-permission rationale text.
	Rationale map[Permission]string

	// Timeout bounds each request attempt. Zero means DefaultRequestTimeout.
	Timeout time.Duration

	// RetryOnFailure retries failed request attempts with linearly
	// increasing backoff (1s, 2s, 3s, ...).
	RetryOnFailure bool

	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int
}

// DefaultRequestPolicy returns the policy used when callers have no special
// requirements: rationale on, two retries, no automatic settings navigation.
func DefaultRequestPolicy() RequestPolicy {
	return RequestPolicy{
		ShowRationale:  true,
		Timeout:        DefaultRequestTimeout,
		RetryOnFailure: true,
		MaxRetries:     2,
	}
}

// RationaleFor returns the rationale text for a permission, falling back to
// the permission's static description.
func (p RequestPolicy) RationaleFor(perm Permission) string {
	if text, ok := p.Rationale[perm]; ok && text != "" {
		return text
	}
	return perm.Description()
}

// EffectiveTimeout returns the per-attempt timeout, applying the default for
// a zero value.
func (p RequestPolicy) EffectiveTimeout() time.Duration {
	if p.Timeout <= 0 {
		return DefaultRequestTimeout
	}
	return p.Timeout
}

// Attempts returns the total number of request attempts the policy allows.
func (p RequestPolicy) Attempts() int {
	if !p.RetryOnFailure || p.MaxRetries < 0 {
		return 1
	}
	return 1 + p.MaxRetries
}
