package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainTrace separates trace hashes from any other hash the program may
// compute over the same bytes.
const DomainTrace = "patience/trace/v1"

func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// TraceHash returns a stable digest of a notification trace. Two deals with
// the same game file and seed must produce the same hash.
func TraceHash(trace []Notification) (string, error) {
	data, err := MarshalTrace(trace)
	if err != nil {
		return "", fmt.Errorf("TraceHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainTrace, data), nil
}
