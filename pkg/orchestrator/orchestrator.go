// Package orchestrator coordinates permission request flows across the
// per-platform adapters: it computes required permission sets, runs requests
// under a timeout/retry policy, caches observed statuses, and republishes
// platform-originated change events to subscribers.
package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/go-mesh/meshkit/pkg/adapter"
	"github.com/go-mesh/meshkit/pkg/errors"
	"github.com/go-mesh/meshkit/pkg/permission"
)

// RationaleFunc presents a rationale for one permission before the native
// request. UI layers supply a real presenter; the default is a no-op.
type RationaleFunc func(ctx context.Context, perm permission.Permission, text string)

// SettingsFunc routes the user to the system settings screen. The default
// delegates to the adapter.
type SettingsFunc func(ctx context.Context) error

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithRationalePresenter installs the rationale hook invoked (when the
// policy asks for it) for each requestable permission, before the native
// request.
func WithRationalePresenter(fn RationaleFunc) Option {
	return func(o *Orchestrator) { o.showRationale = fn }
}

// WithSettingsNavigator replaces the settings-navigation side effect used
// when a flow ends with permanently denied permissions.
func WithSettingsNavigator(fn SettingsFunc) Option {
	return func(o *Orchestrator) { o.openSettings = fn }
}

// Orchestrator is the platform-independent core of the permission subsystem.
// One instance serves a process; construct it with New and tear it down with
// Dispose. Request flows are expected to be awaited one at a time, but the
// change-event pump runs independently and may update the cache concurrently
// with an in-flight request.
type Orchestrator struct {
	adapter adapter.Adapter
	info    permission.PlatformInfo
	cache   *statusCache
	queue   *eventQueue
	feed    *feed

	unsubscribe func()
	pumpDone    chan struct{}
	disposed    atomic.Bool
	disposeOnce sync.Once

	showRationale RationaleFunc
	openSettings  SettingsFunc

	// Test seams. Production values: real sleep, one-second backoff unit,
	// random UUIDs.
	sleep       func(ctx context.Context, d time.Duration) error
	backoffUnit time.Duration
	newFlowID   func() string
}

// New builds an Orchestrator over the adapter, snapshots platform info, and
// starts the change-event pump. The adapter remains owned by the caller;
// disposing the orchestrator does not dispose the adapter.
func New(ad adapter.Adapter, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		adapter:     ad,
		info:        ad.PlatformInfo(context.Background()),
		cache:       newStatusCache(),
		queue:       newEventQueue(),
		feed:        newFeed(),
		pumpDone:    make(chan struct{}),
		backoffUnit: time.Second,
		newFlowID:   uuid.NewString,
		sleep: func(ctx context.Context, d time.Duration) error {
			timer := time.NewTimer(d)
			defer timer.Stop()
			select {
			case <-timer.C:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	}
	o.openSettings = ad.OpenSettings
	for _, opt := range opts {
		opt(o)
	}

	o.unsubscribe = ad.Changes().Listen(o.queue.push)
	go o.pump()
	return o
}

// pump drains the owned queue in its own goroutine: each change updates the
// cache, then fans out to subscribers in delivery order.
func (o *Orchestrator) pump() {
	defer close(o.pumpDone)
	for {
		change, ok := o.queue.next()
		if !ok {
			return
		}
		o.cache.set(change.Permission, change.Status)
		o.feed.emit(change)
	}
}

// PlatformInfo returns the platform snapshot taken at construction.
func (o *Orchestrator) PlatformInfo() permission.PlatformInfo {
	return o.info
}

// RequiredPermissions returns the permissions this platform needs for the
// app to function.
func (o *Orchestrator) RequiredPermissions() []permission.Permission {
	return permission.RequiredFor(o.info.Family)
}

// CriticalPermissions returns the required permissions core connectivity
// cannot operate without.
func (o *Orchestrator) CriticalPermissions() []permission.Permission {
	return permission.CriticalFor(o.info.Family)
}

// Status queries current statuses from the adapter and updates the cache.
// Adapter failures degrade to cached values (unknown for permissions never
// observed) instead of propagating; stale permission information is more
// useful than a failed call.
func (o *Orchestrator) Status(ctx context.Context, perms []permission.Permission) map[permission.Permission]permission.Status {
	statuses, err := o.adapter.PermissionStatus(ctx, perms)
	if err != nil {
		errors.Report(&errors.MeshError{
			Op:   "orchestrator.status",
			Kind: errors.KindPermission,
			Err:  err,
		})
		return o.cache.lookup(perms)
	}
	o.cache.update(statuses)
	return statuses
}

// RequiredPermissionsGranted reports whether every required permission is
// currently satisfied.
func (o *Orchestrator) RequiredPermissionsGranted(ctx context.Context) bool {
	perms := o.RequiredPermissions()
	return permission.AllSatisfied(perms, o.Status(ctx, perms))
}

// CriticalPermissionsGranted reports whether every critical permission is
// currently satisfied.
func (o *Orchestrator) CriticalPermissionsGranted(ctx context.Context) bool {
	perms := o.CriticalPermissions()
	return permission.AllSatisfied(perms, o.Status(ctx, perms))
}

// Listen subscribes to the orchestrator's republished change stream and
// returns an unsubscribe function. Events arrive in the order the adapter
// emitted them.
func (o *Orchestrator) Listen(handler func(permission.Change)) (unsubscribe func()) {
	return o.feed.listen(handler)
}

// Request runs a full request flow for perms under the given policy.
//
// Permissions are filtered to those applicable on this device, partitioned
// by current status, and only the requestable remainder (denied or unknown)
// reaches the adapter: granted permissions are never re-prompted and
// permanently denied ones are routed to RequiresSettings. Each attempt races
// the adapter against a fresh policy timeout; failed attempts retry with
// linearly increasing backoff when the policy allows, and a timeout aborts
// the flow immediately. The native request's boolean is advisory only — the
// result is always computed from a trailing status query, so grants that
// land late or out of band are still reflected.
func (o *Orchestrator) Request(ctx context.Context, perms []permission.Permission, policy permission.RequestPolicy) permission.RequestResult {
	flowID := o.newFlowID()
	if o.disposed.Load() {
		return permission.RequestResult{
			FlowID:       flowID,
			ErrorMessage: "permission orchestrator disposed",
		}
	}

	applicable := o.filterApplicable(perms)
	if len(applicable) == 0 {
		return permission.RequestResult{
			FlowID:     flowID,
			AllGranted: true,
			Statuses:   map[permission.Permission]permission.Status{},
		}
	}

	statuses := o.Status(ctx, applicable)
	var requestable []permission.Permission
	for _, p := range applicable {
		if statuses[p].CanRequest() {
			requestable = append(requestable, p)
		}
	}
	if len(requestable) == 0 {
		return o.compose(ctx, flowID, applicable, statuses, policy, "")
	}

	if policy.ShowRationale && o.showRationale != nil {
		for _, p := range requestable {
			o.showRationale(ctx, p, policy.RationaleFor(p))
		}
	}

	var message string
	attempts := policy.Attempts()
	for attempt := 1; attempt <= attempts; attempt++ {
		err := o.requestOnce(ctx, requestable, policy.EffectiveTimeout())
		if err == nil {
			message = ""
			break
		}
		if abortsFlow(err) {
			message = fmt.Sprintf("permission request timed out after %s", policy.EffectiveTimeout())
			break
		}
		message = fmt.Sprintf("permission request failed: %v", err)
		if attempt < attempts {
			if o.sleep(ctx, time.Duration(attempt)*o.backoffUnit) != nil {
				break
			}
		}
	}

	final := o.Status(ctx, applicable)
	return o.compose(ctx, flowID, applicable, final, policy, message)
}

// compose builds the result partitions from authoritative statuses and
// performs the settings-navigation side effect when the policy asks for it.
func (o *Orchestrator) compose(ctx context.Context, flowID string, perms []permission.Permission, statuses map[permission.Permission]permission.Status, policy permission.RequestPolicy, message string) permission.RequestResult {
	granted, denied, settings := permission.Partition(perms, statuses)
	result := permission.RequestResult{
		FlowID:           flowID,
		AllGranted:       permission.AllSatisfied(perms, statuses),
		Statuses:         statuses,
		Granted:          granted,
		Denied:           denied,
		RequiresSettings: settings,
		ErrorMessage:     message,
	}

	if policy.AutoNavigateSettings && len(settings) > 0 && o.openSettings != nil {
		if err := o.openSettings(ctx); err != nil {
			errors.Report(&errors.MeshError{
				Op:   "orchestrator.openSettings",
				Kind: errors.KindPermission,
				Err:  err,
			})
		}
	}
	return result
}

// filterApplicable drops invalid permissions and ones the device's
// capability set makes meaningless.
func (o *Orchestrator) filterApplicable(perms []permission.Permission) []permission.Permission {
	var applicable []permission.Permission
	for _, p := range perms {
		if p.Valid() && p.ApplicableOn(o.info.Capabilities) {
			applicable = append(applicable, p)
		}
	}
	return applicable
}

// Dispose cancels the adapter subscription, drains and closes the
// republished change stream, and blocks new request flows. Safe to call
// multiple times. An in-flight request at dispose time is allowed to finish;
// its result carries no guarantees and callers should discard it.
func (o *Orchestrator) Dispose() {
	o.disposeOnce.Do(func() {
		o.disposed.Store(true)
		if o.unsubscribe != nil {
			o.unsubscribe()
		}
		o.queue.close()
		<-o.pumpDone
		o.feed.close()
	})
}
