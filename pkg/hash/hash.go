package hash

import (
	"crypto/sha256"
	"encoding/hex"
)

// SHA256Hex returns the hex-encoded SHA256 hash of the input string.
func SHA256Hex(input string) string {
	h := sha256.Sum256([]byte(input))
	return hex.EncodeToString(h[:])
}

// IteratedSHA256 applies SHA256 iteratively n times to produce a derived hash.
func IteratedSHA256(input string, iterations int) string {
	data := []byte(input)
	for range iterations {
		h := sha256.Sum256(data)
		data = h[:]
	}
	return hex.EncodeToString(data)
}

// DeviceFingerprint derives the stored fingerprint for a raw device signature
// (user agent + screen + platform concatenation supplied by the client).
// Multi-account detection groups accounts by this value, never by the raw input.
func DeviceFingerprint(rawSignature, salt string) string {
	return IteratedSHA256(salt+rawSignature, 5000)
}

// HashIP hashes an IP address with a salt for abuse tracking without raw PII.
func HashIP(ip, salt string) string {
	return IteratedSHA256(salt+ip, 5000)
}
