package secret

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
)

// magicBytes frames the JSON variant of the credential file (".bLa").
var magicBytes = [4]byte{46, 98, 76, 97}

// Credential holds the secrets recovered from an obfuscated credential file.
// DisplayName, Author and Identifier are only present in the JSON variant.
type Credential struct {
	PatcherSecret string `json:"patcher_secret"`
	AppSecret     string `json:"app_secret"`
	DisplayName   string `json:"app_display_name,omitempty"`
	Author        string `json:"app_author,omitempty"`
	Identifier    string `json:"app_identifier,omitempty"`
}

// Slug derives the per-application directory slug from the app secret: its
// first eight characters, or the whole secret when shorter.
func (c Credential) Slug() string {
	if len(c.AppSecret) > 8 {
		return c.AppSecret[:8]
	}
	return c.AppSecret
}

// ReadCredential parses the binary credential file layout: two length-prefixed
// encoded blocks, patcher secret first, then app secret.
func ReadCredential(r io.Reader) (Credential, error) {
	patcher, err := readEncodedString(r)
	if err != nil {
		return Credential{}, fmt.Errorf("read patcher secret: %w", err)
	}
	app, err := readEncodedString(r)
	if err != nil {
		return Credential{}, fmt.Errorf("read app secret: %w", err)
	}
	return Credential{PatcherSecret: patcher, AppSecret: app}, nil
}

// ReadCredentialJSON parses the magic-framed JSON variant: four magic bytes
// followed by a single length-prefixed encoded block containing a JSON
// document.
func ReadCredentialJSON(r io.Reader) (Credential, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return Credential{}, fmt.Errorf("read magic bytes: %w", err)
	}
	if !bytes.Equal(magic[:], magicBytes[:]) {
		return Credential{}, fmt.Errorf("invalid magic bytes %v", magic)
	}

	doc, err := readEncodedString(r)
	if err != nil {
		return Credential{}, fmt.Errorf("read credential document: %w", err)
	}

	var cred Credential
	if err := json.Unmarshal([]byte(doc), &cred); err != nil {
		return Credential{}, fmt.Errorf("unmarshal credential document: %w", err)
	}
	return cred, nil
}

// readEncodedString reads one u32 little-endian length prefix followed by that
// many encoded bytes, and decodes the block.
func readEncodedString(r io.Reader) (string, error) {
	var length uint32
	if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
		return "", fmt.Errorf("read length prefix: %w", err)
	}

	block := make([]byte, length)
	if _, err := io.ReadFull(r, block); err != nil {
		return "", fmt.Errorf("read encoded block: %w", err)
	}
	return DecodeBlock(block)
}
