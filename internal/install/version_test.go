package install

import (
	"os"
	"testing"
)

func testManager(t *testing.T) *Manager {
	t.Helper()
	l := NewLayout("linux", "testslug", t.TempDir())
	return NewManager(l, t.Logf)
}

func TestParseVersionInfo(t *testing.T) {
	info, ok := ParseVersionInfo("secret123:1.0.0")
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	if info.PatcherSecret != "secret123" || info.Version != "1.0.0" {
		t.Fatalf("unexpected info %+v", info)
	}

	for _, bad := range []string{"invalid_format", "too:many:parts", ""} {
		if _, ok := ParseVersionInfo(bad); ok {
			t.Fatalf("expected parse of %q to fail", bad)
		}
	}
}

func TestVersionInfoRoundTrip(t *testing.T) {
	cases := []VersionInfo{
		{PatcherSecret: "s1", Version: "1.0.0"},
		{PatcherSecret: "rotated-secret", Version: "42"},
	}
	for _, want := range cases {
		got, ok := ParseVersionInfo(want.String())
		if !ok {
			t.Fatalf("round trip parse failed for %q", want.String())
		}
		if got != want {
			t.Fatalf("round trip: got %+v, want %+v", got, want)
		}
	}
}

func TestVersionLifecycle(t *testing.T) {
	m := testManager(t)

	if _, ok, err := m.CurrentVersion(); err != nil || ok {
		t.Fatalf("expected no initial version, ok=%v err=%v", ok, err)
	}

	needs, err := m.NeedsUpdate("1.0.0", "s1")
	if err != nil || !needs {
		t.Fatalf("expected update needed with no stored version, needs=%v err=%v", needs, err)
	}

	if err := m.SaveVersion("1.0.0", "s1"); err != nil {
		t.Fatalf("SaveVersion: %v", err)
	}

	current, ok, err := m.CurrentVersion()
	if err != nil || !ok {
		t.Fatalf("CurrentVersion after save: ok=%v err=%v", ok, err)
	}
	if current.Version != "1.0.0" || current.PatcherSecret != "s1" {
		t.Fatalf("unexpected current version %+v", current)
	}

	cases := []struct {
		version string
		secret  string
		want    bool
	}{
		{"1.0.0", "s1", false},
		{"2.0.0", "s1", true},
		{"1.0.0", "s2", true},
		{"2.0.0", "s2", true},
	}
	for _, tc := range cases {
		needs, err := m.NeedsUpdate(tc.version, tc.secret)
		if err != nil {
			t.Fatalf("NeedsUpdate(%s, %s): %v", tc.version, tc.secret, err)
		}
		if needs != tc.want {
			t.Fatalf("NeedsUpdate(%s, %s) = %v, want %v", tc.version, tc.secret, needs, tc.want)
		}
	}
}

func TestVersionFileUnrecognizedFormat(t *testing.T) {
	m := testManager(t)
	if err := os.MkdirAll(m.Layout().PatcherDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(m.Layout().VersionFile, []byte("1.0.0"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, ok, err := m.CurrentVersion(); err != nil || ok {
		t.Fatalf("expected old-format file to read as absent, ok=%v err=%v", ok, err)
	}
	needs, err := m.NeedsUpdate("1.0.0", "s1")
	if err != nil || !needs {
		t.Fatalf("expected old-format file to force update, needs=%v err=%v", needs, err)
	}
}
