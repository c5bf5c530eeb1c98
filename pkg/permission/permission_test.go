package permission

import "testing"

func TestMetadataCoversAllPermissions(t *testing.T) {
	for _, p := range All() {
		if !p.Valid() {
			t.Errorf("%s missing from metadata", p)
		}
		if p.DisplayName() == "" {
			t.Errorf("%s has no display name", p)
		}
		if p.Description() == "" {
			t.Errorf("%s has no description", p)
		}
	}

	if Permission("jetpack").Valid() {
		t.Error("unexpected permission reported valid")
	}
}

func TestCriticalFlags(t *testing.T) {
	critical := []Permission{Bluetooth, BluetoothAdvertise, BluetoothConnect, BluetoothScan, Location}
	for _, p := range critical {
		if !p.Critical() {
			t.Errorf("%s should be critical", p)
		}
	}
	optional := []Permission{LocationWhenInUse, LocationAlways, Notification, Storage, Camera, Microphone}
	for _, p := range optional {
		if p.Critical() {
			t.Errorf("%s should not be critical", p)
		}
	}
}

func TestRequiredFor(t *testing.T) {
	tests := []struct {
		family Family
		want   []Permission
	}{
		{FamilyAndroid, []Permission{Bluetooth, Location, Notification}},
		{FamilyApple, []Permission{Bluetooth, Notification}},
		{FamilyDesktop, []Permission{Bluetooth, Notification}},
		{FamilyUnknown, []Permission{Bluetooth}},
		{Family("beos"), []Permission{Bluetooth}},
	}

	for _, tt := range tests {
		t.Run(string(tt.family), func(t *testing.T) {
			got := RequiredFor(tt.family)
			if len(got) != len(tt.want) {
				t.Fatalf("RequiredFor(%s) = %v, want %v", tt.family, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("RequiredFor(%s)[%d] = %v, want %v", tt.family, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestCriticalFor(t *testing.T) {
	got := CriticalFor(FamilyAndroid)
	want := []Permission{Bluetooth, Location}
	if len(got) != len(want) {
		t.Fatalf("CriticalFor(android) = %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("CriticalFor(android)[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	apple := CriticalFor(FamilyApple)
	if len(apple) != 1 || apple[0] != Bluetooth {
		t.Errorf("CriticalFor(apple) = %v, want [bluetooth]", apple)
	}
}

func TestApplicableOn(t *testing.T) {
	caps := NewCapabilitySet(CapBluetooth, CapScanning, CapNotifications)

	tests := []struct {
		perm Permission
		want bool
	}{
		{Bluetooth, true},
		{BluetoothScan, true},
		{BluetoothConnect, true},
		{BluetoothAdvertise, false},
		{Location, false},
		{Notification, true},
		{Storage, false},
		{Camera, true}, // no gating capability
	}

	for _, tt := range tests {
		t.Run(string(tt.perm), func(t *testing.T) {
			if got := tt.perm.ApplicableOn(caps); got != tt.want {
				t.Errorf("ApplicableOn = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDegradedInfo(t *testing.T) {
	info := DegradedInfo(FamilyApple)
	if info.Family != FamilyApple {
		t.Errorf("Family = %v, want apple", info.Family)
	}
	if info.Tier != TierUnknown {
		t.Errorf("Tier = %v, want unknown", info.Tier)
	}

	// With the device unknown, every permission must stay applicable so
	// none drops out of a request flow. Location on android is the case
	// that matters most: required, critical, and capability-gated.
	for _, f := range []Family{FamilyAndroid, FamilyApple, FamilyDesktop, FamilyUnknown} {
		caps := DegradedInfo(f).Capabilities
		for _, p := range All() {
			if !p.ApplicableOn(caps) {
				t.Errorf("%s not applicable on degraded %s info", p, f)
			}
		}
		for _, p := range RequiredFor(f) {
			if !p.ApplicableOn(caps) {
				t.Errorf("required permission %s not applicable on degraded %s info", p, f)
			}
		}
	}
}
