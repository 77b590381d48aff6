package cloudinary

import (
	"testing"

	"github.com/rs/zerolog"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := New(Config{
		CloudName:    "demo",
		APIKey:       "key123",
		APISecret:    "s3cr3t",
		UploadFolder: "barter",
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("storage init: %v", err)
	}
	return s
}

func TestSign_KnownAnswer(t *testing.T) {
	s := newTestStorage(t)

	got := s.sign(map[string]string{
		"timestamp": "1700000000",
		"folder":    "barter/u1",
	})
	// sha1("folder=barter/u1&timestamp=1700000000" + "s3cr3t")
	want := "a72b23fc460a86f1fb73539384092df9d1466c0f"
	if got != want {
		t.Fatalf("sign() = %s, want %s", got, want)
	}
}

func TestSignUpload_ScopesFolderAndSignsConsistently(t *testing.T) {
	s := newTestStorage(t)

	params := s.SignUpload("u1")
	if params.Folder != "barter/u1" {
		t.Fatalf("folder must be scoped to the user, got %q", params.Folder)
	}
	if params.APIKey != "key123" || params.CloudName != "demo" {
		t.Fatalf("credentials not propagated: %+v", params)
	}

	// The signature must cover exactly the parameters handed to the client.
	want := s.sign(map[string]string{
		"timestamp": params.Timestamp,
		"folder":    params.Folder,
	})
	if params.Signature != want {
		t.Fatalf("signature does not match signed params: %s != %s", params.Signature, want)
	}
}
