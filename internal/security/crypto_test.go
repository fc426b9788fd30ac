package security_test

import (
	"encoding/base64"
	"testing"

	"github.com/Rrens/seo-writer/internal/security"
)

func newTestEncryptor(t *testing.T) *security.Encryptor {
	t.Helper()
	encryptor, err := security.NewEncryptor(security.DeriveKey("test-secret"))
	if err != nil {
		t.Fatalf("failed to create encryptor: %v", err)
	}
	return encryptor
}

func TestEncryptor_RoundTrip(t *testing.T) {
	encryptor := newTestEncryptor(t)

	tests := []struct {
		name      string
		plaintext string
	}{
		{"empty", ""},
		{"application password", "abcd EFGH 1234 ijkl MNOP 5678"},
		{"special", "p@ss:w0rd/with?chars&more"},
		{"unicode", "mot de passe très sûr"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sealed, err := encryptor.EncryptString(tt.plaintext)
			if err != nil {
				t.Fatalf("encrypt failed: %v", err)
			}

			if tt.plaintext != "" && sealed == tt.plaintext {
				t.Error("ciphertext equals plaintext")
			}

			opened, err := encryptor.DecryptString(sealed)
			if err != nil {
				t.Fatalf("decrypt failed: %v", err)
			}

			if opened != tt.plaintext {
				t.Errorf("decrypted text does not match: got %q, want %q", opened, tt.plaintext)
			}
		})
	}
}

func TestEncryptor_WrongKey(t *testing.T) {
	encryptor := newTestEncryptor(t)
	other, err := security.NewEncryptor(security.DeriveKey("another-secret"))
	if err != nil {
		t.Fatalf("failed to create encryptor: %v", err)
	}

	sealed, err := encryptor.EncryptString("secret")
	if err != nil {
		t.Fatalf("encrypt failed: %v", err)
	}

	if _, err := other.DecryptString(sealed); err == nil {
		t.Error("expected error when decrypting with a different key")
	}
}

func TestEncryptor_TruncatedCiphertext(t *testing.T) {
	encryptor := newTestEncryptor(t)

	if _, err := encryptor.Decrypt([]byte("short")); err == nil {
		t.Error("expected error for truncated ciphertext")
	}

	if _, err := encryptor.DecryptString("not base64!"); err == nil {
		t.Error("expected error for invalid base64")
	}
}

func TestEncryptor_KeyLengths(t *testing.T) {
	for _, keyLen := range []int{0, 15, 31, 33} {
		if _, err := security.NewEncryptor(make([]byte, keyLen)); err == nil {
			t.Errorf("expected error for key length %d, got nil", keyLen)
		}
	}

	for _, keyLen := range []int{16, 24, 32} {
		if _, err := security.NewEncryptor(make([]byte, keyLen)); err != nil {
			t.Errorf("unexpected error for key length %d: %v", keyLen, err)
		}
	}
}

func TestEncryptor_NonceIsRandom(t *testing.T) {
	encryptor := newTestEncryptor(t)

	first, _ := encryptor.EncryptString("same plaintext")
	second, _ := encryptor.EncryptString("same plaintext")

	if first == second {
		t.Error("expected different ciphertexts for same plaintext")
	}
}

func TestNewEncryptorFromBase64(t *testing.T) {
	key := base64.StdEncoding.EncodeToString(security.DeriveKey("x"))
	if _, err := security.NewEncryptorFromBase64(key); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := security.NewEncryptorFromBase64("%%%"); err == nil {
		t.Error("expected error for invalid base64 key")
	}
}
