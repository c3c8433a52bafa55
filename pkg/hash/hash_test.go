package hash

import (
	"testing"
)

func TestSHA256Hex(t *testing.T) {
	// Known SHA256 of "hello"
	want := "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	got := SHA256Hex("hello")
	if got != want {
		t.Errorf("SHA256Hex(\"hello\") = %s, want %s", got, want)
	}
}

func TestSHA256Hex_Empty(t *testing.T) {
	// SHA256 of empty string
	want := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	got := SHA256Hex("")
	if got != want {
		t.Errorf("SHA256Hex(\"\") = %s, want %s", got, want)
	}
}

func TestIteratedSHA256(t *testing.T) {
	// 1 iteration should equal a single SHA256
	oneIter := IteratedSHA256("test", 1)
	single := SHA256Hex("test")
	if oneIter != single {
		t.Errorf("IteratedSHA256(\"test\", 1) = %s, want %s", oneIter, single)
	}

	// Multiple iterations should differ from single
	multiIter := IteratedSHA256("test", 5000)
	if multiIter == single {
		t.Error("5000 iterations should differ from single iteration")
	}

	// Same input should produce same output (deterministic)
	again := IteratedSHA256("test", 5000)
	if multiIter != again {
		t.Error("IteratedSHA256 should be deterministic")
	}
}

func TestDeviceFingerprint(t *testing.T) {
	sig := "Mozilla/5.0|1920x1080|MacIntel"
	salt := "random-salt-value"
	fp := DeviceFingerprint(sig, salt)

	// Should be 64 hex chars (SHA256 output)
	if len(fp) != 64 {
		t.Errorf("DeviceFingerprint length = %d, want 64", len(fp))
	}

	// Should be deterministic
	if fp != DeviceFingerprint(sig, salt) {
		t.Error("DeviceFingerprint should be deterministic")
	}

	// Different signature should produce a different fingerprint
	if fp == DeviceFingerprint("Mozilla/5.0|1366x768|Win32", salt) {
		t.Error("different signatures should produce different fingerprints")
	}

	// Different salt should produce a different fingerprint
	if fp == DeviceFingerprint(sig, "other-salt") {
		t.Error("different salts should produce different fingerprints")
	}
}

func TestHashIP(t *testing.T) {
	ip := "192.168.1.1"
	salt := "random-salt-value"
	hash := HashIP(ip, salt)

	// Should be 64 hex chars
	if len(hash) != 64 {
		t.Errorf("HashIP length = %d, want 64", len(hash))
	}

	// Different salt should produce different hash
	if hash == HashIP(ip, "different-salt") {
		t.Error("different salts should produce different hashes")
	}

	// Different IP should produce different hash
	if hash == HashIP("10.0.0.1", salt) {
		t.Error("different IPs should produce different hashes")
	}
}
