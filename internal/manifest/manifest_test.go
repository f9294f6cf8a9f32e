package manifest

import (
	"strings"
	"testing"
)

const sampleManifest = `{
	"manifest_version": 4,
	"target": "{exedir}/Patcher.exe",
	"target_arguments": [
		{"value": ["--installdir", "{installdir}"]},
		{"value": ["--lockfile", "{lockfile}"]}
	],
	"capabilities": ["pack1_compression_lzma2"]
}`

func TestParse(t *testing.T) {
	r, err := Parse([]byte(sampleManifest))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	m := r.Manifest()
	if m.ManifestVersion != 4 {
		t.Fatalf("manifest_version = %d", m.ManifestVersion)
	}
	if len(m.TargetArguments) != 2 {
		t.Fatalf("expected 2 argument groups, got %d", len(m.TargetArguments))
	}
	if len(m.Capabilities) != 1 || m.Capabilities[0] != "pack1_compression_lzma2" {
		t.Fatalf("capabilities = %v", m.Capabilities)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"malformed", `{not json`},
		{"missing version", `{"target": "x"}`},
		{"missing target", `{"manifest_version": 4}`},
	}
	for _, tc := range cases {
		if _, err := Parse([]byte(tc.data)); err == nil {
			t.Fatalf("%s: expected parse error", tc.name)
		}
	}
}

func TestResolution(t *testing.T) {
	r, err := Parse([]byte(sampleManifest))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	r.SetVariable("exedir", "/path/to/exe")
	r.SetVariable("installdir", "/path/to/install")
	r.SetVariable("lockfile", "/path/to/lock")

	target, err := r.Target()
	if err != nil {
		t.Fatalf("Target: %v", err)
	}
	if target != "/path/to/exe/Patcher.exe" {
		t.Fatalf("target = %q", target)
	}

	args, err := r.Arguments()
	if err != nil {
		t.Fatalf("Arguments: %v", err)
	}
	want := []string{"--installdir", "/path/to/install", "--lockfile", "/path/to/lock"}
	if len(args) != len(want) {
		t.Fatalf("args = %v, want %v", args, want)
	}
	for i := range want {
		if args[i] != want[i] {
			t.Fatalf("args[%d] = %q, want %q", i, args[i], want[i])
		}
	}
}

func TestUnresolvedVariable(t *testing.T) {
	r, err := Parse([]byte(sampleManifest))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if _, err := r.Target(); err == nil {
		t.Fatal("expected error with no variables bound")
	}

	r.SetVariable("exedir", "/opt/x")
	if _, err := r.Target(); err != nil {
		t.Fatalf("Target with exedir bound: %v", err)
	}
	if _, err := r.Arguments(); err == nil || !strings.Contains(err.Error(), "installdir") {
		t.Fatalf("expected unresolved installdir error, got %v", err)
	}
}

func TestLaterBindingWins(t *testing.T) {
	r, err := Parse([]byte(`{"manifest_version": 1, "target": "{exedir}/run"}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	r.SetVariable("exedir", "/first")
	r.SetVariable("exedir", "/second")

	target, err := r.Target()
	if err != nil {
		t.Fatalf("Target: %v", err)
	}
	if target != "/second/run" {
		t.Fatalf("target = %q", target)
	}
}

func TestResolvedValuesNotRescanned(t *testing.T) {
	r, err := Parse([]byte(`{"manifest_version": 1, "target": "{exedir}/run"}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	// A value containing brace syntax is substituted literally, not expanded.
	r.SetVariable("exedir", "/opt/{inner}")

	target, err := r.Target()
	if err != nil {
		t.Fatalf("Target: %v", err)
	}
	if target != "/opt/{inner}/run" {
		t.Fatalf("target = %q", target)
	}
}

func TestUnterminatedPlaceholder(t *testing.T) {
	r, err := Parse([]byte(`{"manifest_version": 1, "target": "{exedir/run"}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, err := r.Target(); err == nil {
		t.Fatal("expected error for unterminated placeholder")
	}
}
