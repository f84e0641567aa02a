package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content digests. The version suffix allows the
// canonical form to change without colliding with old digests.
const (
	DomainScenario = "rotasim/scenario/v1"
	DomainLog      = "rotasim/log/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ScenarioDigest identifies a scenario document by content. Two scenarios
// that differ only in key order, Unicode normalisation or sub-millisecond
// float noise share a digest.
func ScenarioDigest(s ScenarioData) (string, error) {
	canonical, err := MarshalCanonical(s)
	if err != nil {
		return "", fmt.Errorf("ScenarioDigest: %w", err)
	}
	return hashWithDomain(DomainScenario, canonical), nil
}

// LogDigest identifies a simulation log by content. entries is anything
// that encodes to a JSON array.
func LogDigest(entries any) (string, error) {
	canonical, err := MarshalCanonical(entries)
	if err != nil {
		return "", fmt.Errorf("LogDigest: %w", err)
	}
	return hashWithDomain(DomainLog, canonical), nil
}
