package orchestrator

import (
	"context"
	"errors"
	"time"

	"github.com/go-mesh/meshkit/pkg/permission"
)

// errAttemptTimeout marks a request attempt abandoned because the user never
// answered within the policy window. The underlying native request is not
// canceled; the trailing status query reconciles any late grant.
var errAttemptTimeout = errors.New("permission request timed out")

// errAttemptFailed marks an attempt whose native request completed without
// granting everything.
var errAttemptFailed = errors.New("permission request not granted")

// requestOnce races one adapter request against a fresh timeout window.
func (o *Orchestrator) requestOnce(ctx context.Context, perms []permission.Permission, timeout time.Duration) error {
	type reply struct {
		granted bool
		err     error
	}
	replies := make(chan reply, 1)
	go func() {
		// The outer ctx, not the timeout ctx: the timer firing only stops
		// the wait, it must not cancel the native request.
		granted, err := o.adapter.RequestPermissions(ctx, perms)
		replies <- reply{granted: granted, err: err}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case r := <-replies:
		if r.err != nil {
			return r.err
		}
		if !r.granted {
			return errAttemptFailed
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return errAttemptTimeout
	}
}

// abortsFlow reports whether an attempt error ends the flow instead of
// consuming a retry: timeouts keep caller latency near one window, and a
// canceled context means nobody is waiting for the result.
func abortsFlow(err error) bool {
	return errors.Is(err, errAttemptTimeout) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}
