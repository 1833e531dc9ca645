package encryption

import (
	"bytes"
	"testing"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

func TestEncryptDecryptRoundTrip(t *testing.T) {
	for _, value := range []string{"", "x", "NSC_AAAC=abc123; long cookie value"} {
		sealed, err := EncryptValue(value, testKey)
		if err != nil {
			t.Fatalf("encrypt %q: %v", value, err)
		}
		if bytes.Contains(sealed, []byte("abc123")) {
			t.Error("plaintext visible in ciphertext")
		}
		plain, err := DecryptValue(sealed, testKey)
		if err != nil {
			t.Fatalf("decrypt %q: %v", value, err)
		}
		if string(plain) != value {
			t.Errorf("got %q, want %q", plain, value)
		}
	}
}

func TestEncryptIsNotDeterministic(t *testing.T) {
	a, err := EncryptValue("secret", testKey)
	if err != nil {
		t.Fatal(err)
	}
	b, err := EncryptValue("secret", testKey)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(a, b) {
		t.Error("two seals of the same value must differ (nonce reuse)")
	}
}

func TestDecryptRejectsBadInput(t *testing.T) {
	if _, err := DecryptValue([]byte("not sealed at all"), testKey); err == nil {
		t.Error("unknown format accepted")
	}
	if _, err := DecryptValue([]byte("gcm1"), testKey); err == nil {
		t.Error("truncated ciphertext accepted")
	}
	sealed, err := EncryptValue("secret", testKey)
	if err != nil {
		t.Fatal(err)
	}
	sealed[len(sealed)-1] ^= 0xff
	if _, err := DecryptValue(sealed, testKey); err == nil {
		t.Error("tampered ciphertext accepted")
	}
}

func TestEncryptRejectsBadKey(t *testing.T) {
	if _, err := EncryptValue("secret", []byte("short")); err == nil {
		t.Error("short key accepted")
	}
}
