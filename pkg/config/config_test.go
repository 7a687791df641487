package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Server.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.ShowMissingRoutes {
		t.Error("ShowMissingRoutes defaults to true, want false")
	}
	if !cfg.Observability.Metrics.Enabled || cfg.Observability.Metrics.Path != "/metrics" {
		t.Errorf("Metrics = %+v", cfg.Observability.Metrics)
	}
}

func TestApplyEnvOverrides_AdapterKeys(t *testing.T) {
	cfg := Defaults()

	applyEnvOverrides(&cfg, []string{
		"IRI_API_ADAPTER_SPARK=jwt.JWTAdapter",
		"IRI_API_ADAPTER_NSLS2=postgres.PostgresAdapter",
		"UNRELATED=1",
	})

	if got, ok := cfg.AdapterLocator("spark"); !ok || got != "jwt.JWTAdapter" {
		t.Errorf("AdapterLocator(spark) = (%q, %v)", got, ok)
	}
	if got, ok := cfg.AdapterLocator("nsls2"); !ok || got != "postgres.PostgresAdapter" {
		t.Errorf("AdapterLocator(nsls2) = (%q, %v)", got, ok)
	}
	if _, ok := cfg.AdapterLocator("ghost"); ok {
		t.Error("AdapterLocator(ghost) found an entry")
	}
}

func TestApplyEnvOverrides_ShowMissingTruthySet(t *testing.T) {
	// Matched case-sensitively against {"true", "1", "on", "yes"}.
	tests := []struct {
		value string
		want  bool
	}{
		{"true", true},
		{"1", true},
		{"on", true},
		{"yes", true},
		{"TRUE", false},
		{"True", false},
		{"0", false},
		{"off", false},
		{"enabled", false},
		{"", false},
	}

	for _, tc := range tests {
		cfg := Defaults()
		applyEnvOverrides(&cfg, []string{"IRI_API_SHOW_MISSING_ROUTES=" + tc.value})
		if cfg.ShowMissingRoutes != tc.want {
			t.Errorf("value %q: ShowMissingRoutes = %v, want %v", tc.value, cfg.ShowMissingRoutes, tc.want)
		}
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  port: 9090
routers:
  - prefix: /spark
  - prefix: /nsls2
adapters:
  spark: apikey.APIKeyAdapter
show_missing_routes: true
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Server.Port)
	}
	if len(cfg.Routers) != 2 || cfg.Routers[0].Prefix != "/spark" {
		t.Errorf("Routers = %+v", cfg.Routers)
	}
	// YAML adapter keys are normalized to the uppercased group name.
	if got, ok := cfg.AdapterLocator("spark"); !ok || got != "apikey.APIKeyAdapter" {
		t.Errorf("AdapterLocator(spark) = (%q, %v)", got, ok)
	}
	if !cfg.ShowMissingRoutes {
		t.Error("ShowMissingRoutes not loaded from YAML")
	}
	// Defaults survive for fields the file omits.
	if cfg.Server.ReadTimeout != 30*time.Second {
		t.Errorf("ReadTimeout = %v", cfg.Server.ReadTimeout)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("adapters:\n  spark: demo.DemoAdapter\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("IRI_API_ADAPTER_SPARK", "jwt.JWTAdapter")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got, _ := cfg.AdapterLocator("spark"); got != "jwt.JWTAdapter" {
		t.Errorf("AdapterLocator(spark) = %q, env should win over file", got)
	}
}

func TestValidate_Errors(t *testing.T) {
	cfg := Defaults()
	cfg.Server.Port = -1
	cfg.Routers = []RouterConfig{{Prefix: "///"}}
	cfg.Adapters = map[string]string{"SPARK": "nodots"}

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation errors")
	}
}

func TestValidate_NormalizesAdapterKeys(t *testing.T) {
	cfg := Defaults()
	cfg.Adapters = map[string]string{"spark": "demo.DemoAdapter"}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if _, ok := cfg.Adapters["SPARK"]; !ok {
		t.Error("adapter key not normalized to uppercase")
	}
}

func TestLoad_ExplicitMissingFileIsError(t *testing.T) {
	// A file named via IRI_CONFIG must exist; silent fallback to
	// defaults would mask a deployment mistake.
	t.Setenv("IRI_CONFIG", filepath.Join(t.TempDir(), "nope", "config.yaml"))

	if _, err := Load(""); err == nil {
		t.Fatal("expected error for unreadable IRI_CONFIG path")
	}
}
