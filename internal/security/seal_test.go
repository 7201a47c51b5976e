package security

import (
	"bytes"
	"testing"
)

func TestSealer_RoundTrip(t *testing.T) {
	s := NewSealer("install-1", "token")
	plain := []byte("eyJhbGciOiJIUzI1NiJ9.payload.sig")

	sealed, err := s.Seal(plain)
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if bytes.Contains(sealed, plain) {
		t.Fatal("sealed value contains plaintext")
	}

	opened, err := s.Open(sealed)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !bytes.Equal(opened, plain) {
		t.Errorf("Open = %q, want %q", opened, plain)
	}
}

func TestSealer_WrongKeyFails(t *testing.T) {
	sealed, err := NewSealer("install-1", "token").Seal([]byte("secret"))
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if _, err := NewSealer("install-2", "token").Open(sealed); err != ErrSealCorrupt {
		t.Errorf("Open with wrong install: want ErrSealCorrupt, got %v", err)
	}
	if _, err := NewSealer("install-1", "other").Open(sealed); err != ErrSealCorrupt {
		t.Errorf("Open with wrong scope: want ErrSealCorrupt, got %v", err)
	}
}

func TestSealer_TruncatedValue(t *testing.T) {
	s := NewSealer("install-1", "token")
	if _, err := s.Open([]byte("short")); err != ErrSealCorrupt {
		t.Errorf("Open truncated: want ErrSealCorrupt, got %v", err)
	}
}

func TestSealer_TamperedValue(t *testing.T) {
	s := NewSealer("install-1", "token")
	sealed, err := s.Seal([]byte("secret"))
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	sealed[len(sealed)-1] ^= 0xff
	if _, err := s.Open(sealed); err != ErrSealCorrupt {
		t.Errorf("Open tampered: want ErrSealCorrupt, got %v", err)
	}
}

func TestDeriveKey_Separation(t *testing.T) {
	a := DeriveKey("install-1", "token")
	b := DeriveKey("install-1", "user")
	c := DeriveKey("install-2", "token")
	if bytes.Equal(a, b) || bytes.Equal(a, c) {
		t.Error("derived keys not separated by scope/install")
	}
	if len(a) != 32 {
		t.Errorf("key length = %d, want 32", len(a))
	}
}

func TestTokenHashEqual(t *testing.T) {
	h := HashToken("tok-1")
	if !TokenHashEqual("tok-1", h) {
		t.Error("TokenHashEqual = false for matching token")
	}
	if TokenHashEqual("tok-2", h) {
		t.Error("TokenHashEqual = true for different token")
	}
}

func TestTokenFingerprint(t *testing.T) {
	fp := TokenFingerprint("tok-1")
	if len(fp) != 12 {
		t.Errorf("fingerprint length = %d, want 12", len(fp))
	}
	if TokenFingerprint("") != "" {
		t.Error("fingerprint of empty token should be empty")
	}
}
