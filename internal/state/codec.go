package state

import (
	"fmt"

	"github.com/bytedance/sonic"
)

// Encode serializes a record for the wire.
func Encode(r *Record) ([]byte, error) {
	payload, err := sonic.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to encode record: %w", err)
	}
	return payload, nil
}

// Decode parses a wire payload into a fresh record. A malformed payload is
// an error for the caller to log and drop, never a panic.
func Decode(payload []byte) (*Record, error) {
	r := new(Record)
	if err := sonic.Unmarshal(payload, r); err != nil {
		return nil, fmt.Errorf("failed to decode record: %w", err)
	}
	return r, nil
}
