// Package feed moves landmark frames between the outside world and the
// analysis pipeline. Recorded JSON session files, live UDP ingest and
// offline pcap replay all normalize to the same decoded frame stream.
package feed

import (
	"encoding/json"
	"fmt"

	"github.com/himai-labs/tension.report/internal/motion"
)

// DecodeFrame decodes one wire datagram: a single JSON-encoded landmark
// frame. Unknown fields are ignored so older captures stay readable.
func DecodeFrame(data []byte) (*motion.LandmarkFrame, error) {
	var f motion.LandmarkFrame
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode landmark frame: %w", err)
	}
	return &f, nil
}

// EncodeFrame encodes a frame for the wire, one datagram per frame.
func EncodeFrame(f *motion.LandmarkFrame) ([]byte, error) {
	return json.Marshal(f)
}
