package orchestrator

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-mesh/meshkit/pkg/bridge"
	"github.com/go-mesh/meshkit/pkg/permission"
)

const fakeChangesChannel = "test/permissions/changes"

// fakeAdapter is a scriptable in-memory Adapter. Statuses and request
// behavior are set per test; change events are emitted through a real bridge
// stream so delivery order matches production.
type fakeAdapter struct {
	mu            sync.Mutex
	family        permission.Family
	info          permission.PlatformInfo
	statuses      map[permission.Permission]permission.Status
	statusErr     error
	requestFn     func(perms []permission.Permission) (bool, error)
	requestDelay  time.Duration
	requestCalls  int
	statusCalls   int
	settingsCalls int

	transport *bridge.MemoryTransport
	changes   *bridge.Stream[permission.Change]
}

func newFakeAdapter(family permission.Family) *fakeAdapter {
	transport := bridge.NewMemoryTransport()
	b := bridge.New(transport)
	transport.Bind(b)

	f := &fakeAdapter{
		family: family,
		info: permission.PlatformInfo{
			Family: family,
			Capabilities: permission.NewCapabilitySet(
				permission.CapBluetooth, permission.CapBLE,
				permission.CapAdvertising, permission.CapScanning,
				permission.CapLocation, permission.CapNotifications,
				permission.CapFilesystem, permission.CapNetwork,
			),
			Tier: permission.TierBalanced,
		},
		statuses:  make(map[permission.Permission]permission.Status),
		transport: transport,
	}
	f.changes = bridge.NewStream(b.Events(fakeChangesChannel), func(data any) (permission.Change, error) {
		m := bridge.ParseMap(data)
		if m == nil {
			return permission.Change{}, errors.New("not a change payload")
		}
		return permission.Change{
			Permission: permission.Permission(bridge.ParseString(m["permission"])),
			Status:     permission.ParseStatus(bridge.ParseString(m["status"])),
			Previous:   permission.ParseStatus(bridge.ParseString(m["previous"])),
			Timestamp:  bridge.ParseTime(m["timestamp"]),
		}, nil
	})
	return f
}

func (f *fakeAdapter) setStatus(p permission.Permission, s permission.Status) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses[p] = s
}

func (f *fakeAdapter) emitChange(t *testing.T, p permission.Permission, status, previous permission.Status, ts time.Time) {
	t.Helper()
	err := f.transport.Emit(fakeChangesChannel, map[string]any{
		"permission": string(p),
		"status":     string(status),
		"previous":   string(previous),
		"timestamp":  ts.UnixMilli(),
	})
	if err != nil {
		t.Fatalf("emitChange: %v", err)
	}
}

func (f *fakeAdapter) Family() permission.Family { return f.family }

func (f *fakeAdapter) RequestPermissions(ctx context.Context, perms []permission.Permission) (bool, error) {
	f.mu.Lock()
	f.requestCalls++
	delay := f.requestDelay
	fn := f.requestFn
	f.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if fn != nil {
		return fn(perms)
	}
	f.mu.Lock()
	for _, p := range perms {
		f.statuses[p] = permission.StatusGranted
	}
	f.mu.Unlock()
	return true, nil
}

func (f *fakeAdapter) PermissionStatus(ctx context.Context, perms []permission.Permission) (map[permission.Permission]permission.Status, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statusCalls++
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	statuses := make(map[permission.Permission]permission.Status, len(perms))
	for _, p := range perms {
		if s, ok := f.statuses[p]; ok {
			statuses[p] = s
		} else {
			statuses[p] = permission.StatusUnknown
		}
	}
	return statuses, nil
}

func (f *fakeAdapter) PlatformInfo(ctx context.Context) permission.PlatformInfo { return f.info }

func (f *fakeAdapter) OpenSettings(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.settingsCalls++
	return nil
}

func (f *fakeAdapter) Changes() *bridge.Stream[permission.Change] { return f.changes }

func (f *fakeAdapter) Dispose() {}

func (f *fakeAdapter) requests() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requestCalls
}

func (f *fakeAdapter) settings() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.settingsCalls
}

func newTestOrchestrator(t *testing.T, fake *fakeAdapter, opts ...Option) *Orchestrator {
	t.Helper()
	o := New(fake, opts...)
	o.backoffUnit = time.Millisecond
	t.Cleanup(o.Dispose)
	return o
}

func TestRequestAlreadyGrantedSkipsAdapter(t *testing.T) {
	fake := newFakeAdapter(permission.FamilyAndroid)
	for _, p := range permission.RequiredFor(permission.FamilyAndroid) {
		fake.setStatus(p, permission.StatusGranted)
	}
	o := newTestOrchestrator(t, fake)

	result := o.Request(context.Background(), o.RequiredPermissions(), permission.DefaultRequestPolicy())
	if !result.AllGranted {
		t.Errorf("AllGranted = false, statuses = %v", result.Statuses)
	}
	if result.FlowID == "" {
		t.Error("FlowID empty")
	}
	if got := fake.requests(); got != 0 {
		t.Errorf("adapter requested %d times for already-granted permissions", got)
	}
}

func TestRequestPermanentlyDeniedRoutesToSettings(t *testing.T) {
	fake := newFakeAdapter(permission.FamilyAndroid)
	fake.setStatus(permission.Bluetooth, permission.StatusPermanentlyDenied)
	fake.setStatus(permission.Location, permission.StatusGranted)
	o := newTestOrchestrator(t, fake)

	perms := []permission.Permission{permission.Bluetooth, permission.Location}
	result := o.Request(context.Background(), perms, permission.RequestPolicy{})
	if result.AllGranted {
		t.Error("AllGranted should be false")
	}
	if len(result.RequiresSettings) != 1 || result.RequiresSettings[0] != permission.Bluetooth {
		t.Errorf("RequiresSettings = %v, want [bluetooth]", result.RequiresSettings)
	}
	if got := fake.requests(); got != 0 {
		t.Errorf("permanently denied permission was re-requested %d times", got)
	}
	if got := fake.settings(); got != 0 {
		t.Errorf("settings opened %d times without AutoNavigateSettings", got)
	}

	result = o.Request(context.Background(), perms, permission.RequestPolicy{AutoNavigateSettings: true})
	if len(result.RequiresSettings) != 1 {
		t.Fatalf("RequiresSettings = %v", result.RequiresSettings)
	}
	if got := fake.settings(); got != 1 {
		t.Errorf("settings opened %d times, want 1", got)
	}
}

func TestRequestRetriesUntilSuccess(t *testing.T) {
	fake := newFakeAdapter(permission.FamilyAndroid)
	fake.setStatus(permission.Bluetooth, permission.StatusDenied)

	attempt := 0
	fake.requestFn = func(perms []permission.Permission) (bool, error) {
		attempt++
		if attempt < 3 {
			return false, nil
		}
		for _, p := range perms {
			fake.setStatus(p, permission.StatusGranted)
		}
		return true, nil
	}
	o := newTestOrchestrator(t, fake)

	policy := permission.RequestPolicy{RetryOnFailure: true, MaxRetries: 2, Timeout: time.Second}
	result := o.Request(context.Background(), []permission.Permission{permission.Bluetooth}, policy)
	if got := fake.requests(); got != 3 {
		t.Errorf("adapter requested %d times, want 3", got)
	}
	if !result.AllGranted {
		t.Errorf("AllGranted = false after successful retry, statuses = %v", result.Statuses)
	}
	if result.ErrorMessage != "" {
		t.Errorf("ErrorMessage = %q, want empty after recovery", result.ErrorMessage)
	}
}

func TestRequestRetriesExhausted(t *testing.T) {
	fake := newFakeAdapter(permission.FamilyAndroid)
	fake.setStatus(permission.Bluetooth, permission.StatusDenied)
	fake.requestFn = func([]permission.Permission) (bool, error) {
		return false, errors.New("host busy")
	}
	o := newTestOrchestrator(t, fake)

	policy := permission.RequestPolicy{RetryOnFailure: true, MaxRetries: 2, Timeout: time.Second}
	result := o.Request(context.Background(), []permission.Permission{permission.Bluetooth}, policy)
	if got := fake.requests(); got != 3 {
		t.Errorf("adapter requested %d times, want 3", got)
	}
	if result.AllGranted {
		t.Error("AllGranted should be false")
	}
	if !strings.Contains(result.ErrorMessage, "host busy") {
		t.Errorf("ErrorMessage = %q, want the last failure", result.ErrorMessage)
	}
	if len(result.Denied) != 1 || result.Denied[0] != permission.Bluetooth {
		t.Errorf("Denied = %v", result.Denied)
	}
}

func TestRequestTimeoutAbortsFlow(t *testing.T) {
	fake := newFakeAdapter(permission.FamilyAndroid)
	fake.setStatus(permission.Bluetooth, permission.StatusDenied)
	fake.requestDelay = 300 * time.Millisecond
	fake.requestFn = func([]permission.Permission) (bool, error) { return true, nil }
	o := newTestOrchestrator(t, fake)

	policy := permission.RequestPolicy{RetryOnFailure: true, MaxRetries: 2, Timeout: 50 * time.Millisecond}
	start := time.Now()
	result := o.Request(context.Background(), []permission.Permission{permission.Bluetooth}, policy)
	elapsed := time.Since(start)

	if elapsed > 250*time.Millisecond {
		t.Errorf("flow took %v, want roughly one timeout window", elapsed)
	}
	if got := fake.requests(); got != 1 {
		t.Errorf("adapter requested %d times after timeout, want 1 (no retries)", got)
	}
	if !strings.Contains(result.ErrorMessage, "timed out") {
		t.Errorf("ErrorMessage = %q, want timeout text", result.ErrorMessage)
	}
	if result.AllGranted {
		t.Error("AllGranted should reflect the still-denied status")
	}
}

func TestStatusFallsBackToCache(t *testing.T) {
	fake := newFakeAdapter(permission.FamilyAndroid)
	fake.setStatus(permission.Bluetooth, permission.StatusGranted)
	o := newTestOrchestrator(t, fake)

	// Prime the cache with a successful query, then break the adapter.
	o.Status(context.Background(), []permission.Permission{permission.Bluetooth})
	fake.mu.Lock()
	fake.statusErr = errors.New("bridge torn")
	fake.mu.Unlock()

	statuses := o.Status(context.Background(), []permission.Permission{permission.Bluetooth, permission.Location})
	if statuses[permission.Bluetooth] != permission.StatusGranted {
		t.Errorf("bluetooth = %v, want cached granted", statuses[permission.Bluetooth])
	}
	if statuses[permission.Location] != permission.StatusUnknown {
		t.Errorf("location = %v, want unknown for never-observed permission", statuses[permission.Location])
	}
}

func TestChangeRepublishAndCache(t *testing.T) {
	fake := newFakeAdapter(permission.FamilyAndroid)
	o := newTestOrchestrator(t, fake)

	received := make(chan permission.Change, 1)
	unsubscribe := o.Listen(func(c permission.Change) { received <- c })
	defer unsubscribe()

	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	fake.emitChange(t, permission.Bluetooth, permission.StatusGranted, permission.StatusDenied, ts)

	var change permission.Change
	select {
	case change = <-received:
	case <-time.After(2 * time.Second):
		t.Fatal("change never republished")
	}
	if change.Permission != permission.Bluetooth || change.Status != permission.StatusGranted || change.Previous != permission.StatusDenied {
		t.Errorf("change = %+v", change)
	}
	if change.Timestamp.UnixMilli() != ts.UnixMilli() {
		t.Errorf("Timestamp = %v, want %v", change.Timestamp, ts)
	}

	// Delivery through the feed implies the cache was updated first.
	fake.mu.Lock()
	fake.statusErr = errors.New("bridge torn")
	fake.mu.Unlock()
	statuses := o.Status(context.Background(), []permission.Permission{permission.Bluetooth})
	if statuses[permission.Bluetooth] != permission.StatusGranted {
		t.Errorf("cached status = %v, want granted from change event", statuses[permission.Bluetooth])
	}
}

func TestDisposeFailsFast(t *testing.T) {
	fake := newFakeAdapter(permission.FamilyAndroid)
	o := New(fake)
	o.Dispose()
	o.Dispose() // idempotent

	result := o.Request(context.Background(), []permission.Permission{permission.Bluetooth}, permission.DefaultRequestPolicy())
	if !strings.Contains(result.ErrorMessage, "disposed") {
		t.Errorf("ErrorMessage = %q, want disposal notice", result.ErrorMessage)
	}
	if result.AllGranted {
		t.Error("AllGranted should be false on a disposed orchestrator")
	}
	if got := fake.requests(); got != 0 {
		t.Errorf("adapter requested %d times after dispose", got)
	}
}

func TestRequestFiltersInapplicable(t *testing.T) {
	fake := newFakeAdapter(permission.FamilyAndroid)
	fake.info.Capabilities = permission.NewCapabilitySet(permission.CapBluetooth)
	o := newTestOrchestrator(t, fake)

	// Location is not applicable without location services and the bogus
	// name is invalid; nothing is left to request.
	result := o.Request(context.Background(), []permission.Permission{
		permission.Location, permission.Permission("jetpack"),
	}, permission.DefaultRequestPolicy())
	if !result.AllGranted {
		t.Error("empty applicable set should be vacuously granted")
	}
	if len(result.Statuses) != 0 {
		t.Errorf("Statuses = %v, want empty", result.Statuses)
	}
	if got := fake.requests(); got != 0 {
		t.Errorf("adapter requested %d times", got)
	}
}

func TestRequestUnderDegradedInfoKeepsRequiredSet(t *testing.T) {
	// When the platform-info fetch failed, the adapter reports the degraded
	// snapshot. The request flow must still carry every required permission;
	// location on android must not be filtered out and then reported granted.
	fake := newFakeAdapter(permission.FamilyAndroid)
	fake.info = permission.DegradedInfo(permission.FamilyAndroid)
	for _, p := range permission.RequiredFor(permission.FamilyAndroid) {
		fake.setStatus(p, permission.StatusDenied)
	}

	var requested []permission.Permission
	fake.requestFn = func(perms []permission.Permission) (bool, error) {
		requested = perms
		for _, p := range perms {
			fake.setStatus(p, permission.StatusGranted)
		}
		return true, nil
	}
	o := newTestOrchestrator(t, fake)

	result := o.Request(context.Background(), o.RequiredPermissions(), permission.DefaultRequestPolicy())
	if len(requested) != 3 {
		t.Fatalf("adapter saw %v, want all three required permissions", requested)
	}
	if _, ok := result.Statuses[permission.Location]; !ok {
		t.Error("location missing from result statuses under degraded info")
	}
	if !result.AllGranted || len(result.Granted) != 3 {
		t.Errorf("result = %+v, want all three granted", result)
	}
}

func TestEndToEndAndroidFlow(t *testing.T) {
	fake := newFakeAdapter(permission.FamilyAndroid)
	for _, p := range permission.RequiredFor(permission.FamilyAndroid) {
		fake.setStatus(p, permission.StatusDenied)
	}

	var rationale []permission.Permission
	o := newTestOrchestrator(t, fake, WithRationalePresenter(
		func(_ context.Context, p permission.Permission, text string) {
			if text == "" {
				t.Errorf("empty rationale for %s", p)
			}
			rationale = append(rationale, p)
		}))

	required := o.RequiredPermissions()
	if len(required) != 3 {
		t.Fatalf("required = %v, want 3 permissions", required)
	}
	if o.RequiredPermissionsGranted(context.Background()) {
		t.Error("required permissions reported granted before the flow")
	}

	result := o.Request(context.Background(), required, permission.DefaultRequestPolicy())
	if !result.AllGranted {
		t.Fatalf("AllGranted = false, statuses = %v, error = %q", result.Statuses, result.ErrorMessage)
	}
	if len(result.Granted) != 3 || len(result.Denied) != 0 || len(result.RequiresSettings) != 0 {
		t.Errorf("partitions = %v / %v / %v", result.Granted, result.Denied, result.RequiresSettings)
	}
	if len(rationale) != 3 {
		t.Errorf("rationale shown for %v, want all three", rationale)
	}
	if got := fake.requests(); got != 1 {
		t.Errorf("adapter requested %d times, want 1", got)
	}
	if !o.RequiredPermissionsGranted(context.Background()) {
		t.Error("required permissions not reported granted after the flow")
	}
	if !o.CriticalPermissionsGranted(context.Background()) {
		t.Error("critical permissions not reported granted after the flow")
	}
}
