package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/go-mesh/meshkit/pkg/permission"
)

func TestLoadOptionalMissingFile(t *testing.T) {
	cfg, err := LoadOptional(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadOptional: %v", err)
	}

	family, err := cfg.PlatformFamily()
	if err != nil || family != permission.FamilyDesktop {
		t.Errorf("PlatformFamily = %v, %v; want desktop", family, err)
	}
	policy, err := cfg.RequestPolicy()
	if err != nil {
		t.Fatalf("RequestPolicy: %v", err)
	}
	if !reflect.DeepEqual(policy, permission.DefaultRequestPolicy()) {
		t.Errorf("policy = %+v, want defaults", policy)
	}
}

func TestLoadOptionalOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meshctl.yaml")
	data := `
family: android
codec: cbor
policy:
  show_rationale: false
  auto_navigate_settings: true
  timeout: 5s
  retry_on_failure: false
  rationale:
    bluetooth: "Needed to reach peers nearby"
logging:
  verbose: true
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadOptional(path)
	if err != nil {
		t.Fatalf("LoadOptional: %v", err)
	}
	if cfg.Codec != "cbor" || !cfg.Logging.Verbose {
		t.Errorf("cfg = %+v", cfg)
	}

	family, err := cfg.PlatformFamily()
	if err != nil || family != permission.FamilyAndroid {
		t.Errorf("PlatformFamily = %v, %v", family, err)
	}

	policy, err := cfg.RequestPolicy()
	if err != nil {
		t.Fatalf("RequestPolicy: %v", err)
	}
	if policy.ShowRationale {
		t.Error("ShowRationale override ignored")
	}
	if !policy.AutoNavigateSettings {
		t.Error("AutoNavigateSettings override ignored")
	}
	if policy.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", policy.Timeout)
	}
	if policy.RetryOnFailure {
		t.Error("RetryOnFailure override ignored")
	}
	if policy.MaxRetries != permission.DefaultRequestPolicy().MaxRetries {
		t.Errorf("MaxRetries = %d, want default", policy.MaxRetries)
	}
	if policy.Rationale[permission.Bluetooth] != "Needed to reach peers nearby" {
		t.Errorf("Rationale = %v", policy.Rationale)
	}
}

func TestRequestPolicyRejectsBadValues(t *testing.T) {
	cfg := &Config{Policy: PolicyConfig{Timeout: "eventually"}}
	if _, err := cfg.RequestPolicy(); err == nil {
		t.Error("expected error for unparseable timeout")
	}

	cfg = &Config{Policy: PolicyConfig{Rationale: map[string]string{"jetpack": "why not"}}}
	if _, err := cfg.RequestPolicy(); err == nil {
		t.Error("expected error for unknown rationale permission")
	}

	cfg = &Config{Family: "beos"}
	if _, err := cfg.PlatformFamily(); err == nil {
		t.Error("expected error for unknown family")
	}
}
