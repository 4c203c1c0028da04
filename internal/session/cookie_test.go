package session

import (
	"strings"
	"testing"
)

func TestCodecRoundTrip(t *testing.T) {
	codec := NewCodec("test-secret")

	token, err := generateToken()
	if err != nil {
		t.Fatalf("generateToken returned error: %v", err)
	}

	value := codec.Encode(token)
	decoded, err := codec.Decode(value)
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if decoded != token {
		t.Fatalf("decoded token = %q, want %q", decoded, token)
	}
}

func TestCodecRejectsTamperedValue(t *testing.T) {
	codec := NewCodec("test-secret")
	value := codec.Encode("sometoken")

	// トークン部分の差し替え
	tampered := "othertoken" + value[strings.Index(value, "."):]
	if _, err := codec.Decode(tampered); err == nil {
		t.Fatal("expected error for tampered token")
	}

	// 署名部分の破壊
	if _, err := codec.Decode("sometoken.deadbeef"); err == nil {
		t.Fatal("expected error for broken signature")
	}
}

func TestCodecRejectsWrongSecret(t *testing.T) {
	value := NewCodec("secret-a").Encode("sometoken")
	if _, err := NewCodec("secret-b").Decode(value); err == nil {
		t.Fatal("expected error for value signed with another secret")
	}
}

func TestCodecRejectsMalformedValue(t *testing.T) {
	codec := NewCodec("test-secret")
	for _, value := range []string{"", "no-separator", ".signature-only"} {
		if _, err := codec.Decode(value); err == nil {
			t.Fatalf("expected error for malformed value %q", value)
		}
	}
}

func TestGenerateTokenIsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := generateToken()
		if err != nil {
			t.Fatalf("generateToken returned error: %v", err)
		}
		if len(token) != 64 {
			t.Fatalf("unexpected token length: %d", len(token))
		}
		if seen[token] {
			t.Fatalf("duplicate token generated: %s", token)
		}
		seen[token] = true
	}
}
