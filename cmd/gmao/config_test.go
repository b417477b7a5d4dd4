package main

import (
	"os"
	"path/filepath"
	"testing"
)

// resetFlags restores global flag state after each test.
func resetFlags(t *testing.T) {
	t.Helper()
	orig := struct{ url, actor, fmt string }{flagURL, flagActor, flagFmt}
	t.Cleanup(func() {
		flagURL = orig.url
		flagActor = orig.actor
		flagFmt = orig.fmt
	})
	flagURL = defaultURL
	flagActor = ""
}

// isolate points HOME at a fresh directory and clears the GMAO env vars.
func isolate(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)
	t.Setenv("GMAO_URL", "")
	t.Setenv("GMAO_ACTOR", "")
	return tmp
}

func writeTestConfig(t *testing.T, home, content string) {
	t.Helper()
	dir := filepath.Join(home, ".gmao")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestResolveConfigEnvURL(t *testing.T) {
	resetFlags(t)
	isolate(t)
	t.Setenv("GMAO_URL", "http://env-server:9090")

	resolveConfig()

	if flagURL != "http://env-server:9090" {
		t.Errorf("flagURL: got %q, want %q", flagURL, "http://env-server:9090")
	}
}

func TestResolveConfigEnvActor(t *testing.T) {
	resetFlags(t)
	isolate(t)
	t.Setenv("GMAO_ACTOR", "alice")

	resolveConfig()

	if flagActor != "alice" {
		t.Errorf("flagActor: got %q, want %q", flagActor, "alice")
	}
}

// An explicit flag value is not overridden by the environment.
func TestResolveConfigFlagTakesPrecedenceOverEnv(t *testing.T) {
	resetFlags(t)
	isolate(t)
	t.Setenv("GMAO_URL", "http://env-server:9090")

	flagURL = "http://explicit-flag:1234"
	resolveConfig()

	if flagURL != "http://explicit-flag:1234" {
		t.Errorf("explicit flag should win; got %q", flagURL)
	}
}

func TestResolveConfigFlatYAML(t *testing.T) {
	resetFlags(t)
	home := isolate(t)
	writeTestConfig(t, home, "url: http://from-file:8080\nactor: bob\n")

	resolveConfig()

	if flagURL != "http://from-file:8080" {
		t.Errorf("flagURL from flat config: got %q", flagURL)
	}
	if flagActor != "bob" {
		t.Errorf("flagActor from flat config: got %q", flagActor)
	}
}

func TestResolveConfigProfileYAML(t *testing.T) {
	resetFlags(t)
	home := isolate(t)
	writeTestConfig(t, home, `
active_profile: site-b
profiles:
  default:
    url: http://default:3030
    actor: default-tech
  site-b:
    url: http://site-b:4040
    actor: carol
`)

	resolveConfig()

	if flagURL != "http://site-b:4040" {
		t.Errorf("flagURL from profile: got %q", flagURL)
	}
	if flagActor != "carol" {
		t.Errorf("flagActor from profile: got %q", flagActor)
	}
}

// An empty active_profile selects "default".
func TestResolveConfigDefaultProfile(t *testing.T) {
	resetFlags(t)
	home := isolate(t)
	writeTestConfig(t, home, `
profiles:
  default:
    url: http://default-profile:5050
`)

	resolveConfig()

	if flagURL != "http://default-profile:5050" {
		t.Errorf("flagURL from default profile: got %q", flagURL)
	}
}

func TestResolveConfigMissingFile(t *testing.T) {
	resetFlags(t)
	isolate(t)

	resolveConfig()

	if flagURL != defaultURL {
		t.Errorf("flagURL should stay default; got %q", flagURL)
	}
	if flagActor != "" {
		t.Errorf("flagActor should stay empty; got %q", flagActor)
	}
}

func TestResolveConfigInvalidYAML(t *testing.T) {
	resetFlags(t)
	home := isolate(t)
	writeTestConfig(t, home, ":::not-yaml:::")

	resolveConfig()

	if flagURL != defaultURL {
		t.Errorf("flagURL should stay default on bad YAML; got %q", flagURL)
	}
}

func TestResolveConfigEnvNotOverriddenByFile(t *testing.T) {
	resetFlags(t)
	home := isolate(t)
	t.Setenv("GMAO_ACTOR", "env-wins")
	writeTestConfig(t, home, "url: http://file:9000\nactor: file-actor\n")

	resolveConfig()

	if flagActor != "env-wins" {
		t.Errorf("flagActor should be env value; got %q", flagActor)
	}
	if flagURL != "http://file:9000" {
		t.Errorf("flagURL should come from file; got %q", flagURL)
	}
}

func TestWriteConfigRoundTrip(t *testing.T) {
	resetFlags(t)
	isolate(t)

	path, err := writeConfig("", "http://written:3030", "dave")
	if err != nil {
		t.Fatalf("writeConfig: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("config mode: got %v, want 0600", info.Mode().Perm())
	}

	resolveConfig()
	if flagURL != "http://written:3030" || flagActor != "dave" {
		t.Errorf("got url=%q actor=%q", flagURL, flagActor)
	}
}

func TestWriteConfigKeepsOtherProfiles(t *testing.T) {
	resetFlags(t)
	home := isolate(t)
	writeTestConfig(t, home, "url: http://flat:3030\nactor: erin\n")

	path, err := writeConfig("night", "http://night:3030", "frank")
	if err != nil {
		t.Fatalf("writeConfig: %v", err)
	}

	_, cfg, err := loadConfigFile()
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	if cfg.ActiveProfile != "night" {
		t.Errorf("active profile = %q, want night", cfg.ActiveProfile)
	}
	if got := cfg.Profiles["default"]; got.URL != "http://flat:3030" || got.Actor != "erin" {
		t.Errorf("flat values not kept as default profile: %+v", got)
	}

	resolveConfig()
	if flagURL != "http://night:3030" || flagActor != "frank" {
		t.Errorf("got url=%q actor=%q", flagURL, flagActor)
	}
}
