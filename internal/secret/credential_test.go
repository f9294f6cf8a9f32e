package secret

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"
)

func writeEncodedString(buf *bytes.Buffer, s string) {
	block := encodeBlock(s)
	_ = binary.Write(buf, binary.LittleEndian, uint32(len(block)))
	buf.Write(block)
}

func TestReadCredential(t *testing.T) {
	var buf bytes.Buffer
	writeEncodedString(&buf, "patcher-secret")
	writeEncodedString(&buf, "app-secret-123")

	cred, err := ReadCredential(&buf)
	if err != nil {
		t.Fatalf("ReadCredential: %v", err)
	}
	if cred.PatcherSecret != "patcher-secret" {
		t.Fatalf("patcher secret = %q", cred.PatcherSecret)
	}
	if cred.AppSecret != "app-secret-123" {
		t.Fatalf("app secret = %q", cred.AppSecret)
	}
}

func TestReadCredentialTruncated(t *testing.T) {
	var buf bytes.Buffer
	writeEncodedString(&buf, "patcher-secret")

	if _, err := ReadCredential(&buf); err == nil {
		t.Fatal("expected error for missing app secret")
	}
}

func TestReadCredentialJSON(t *testing.T) {
	doc := `{"patcher_secret":"ps","app_secret":"as12345678","app_display_name":"Demo App"}`

	var buf bytes.Buffer
	buf.Write(magicBytes[:])
	writeEncodedString(&buf, doc)

	cred, err := ReadCredentialJSON(&buf)
	if err != nil {
		t.Fatalf("ReadCredentialJSON: %v", err)
	}
	if cred.PatcherSecret != "ps" || cred.AppSecret != "as12345678" {
		t.Fatalf("unexpected credential %+v", cred)
	}
	if cred.DisplayName != "Demo App" {
		t.Fatalf("display name = %q", cred.DisplayName)
	}
}

func TestReadCredentialJSONBadMagic(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("nope")
	writeEncodedString(&buf, "{}")

	_, err := ReadCredentialJSON(&buf)
	if err == nil || !strings.Contains(err.Error(), "magic") {
		t.Fatalf("expected magic byte error, got %v", err)
	}
}

func TestSlug(t *testing.T) {
	cases := []struct {
		appSecret string
		want      string
	}{
		{"abcdefghij", "abcdefgh"},
		{"short", "short"},
		{"", ""},
	}
	for _, tc := range cases {
		got := Credential{AppSecret: tc.appSecret}.Slug()
		if got != tc.want {
			t.Fatalf("Slug(%q) = %q, want %q", tc.appSecret, got, tc.want)
		}
	}
}
