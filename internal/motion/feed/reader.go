package feed

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/himai-labs/tension.report/internal/motion"
)

// maxFrameLine caps a single NDJSON line. Frames from dense landmark models
// run a few KB each; anything near this limit is corrupt input.
const maxFrameLine = 8 * 1024 * 1024

// ReadFile loads a recorded landmark session from disk. Two layouts are
// accepted: a JSON array of frames, or NDJSON with one frame per line.
func ReadFile(path string) ([]motion.LandmarkFrame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	frames, err := ParseFrames(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return frames, nil
}

// ParseFrames decodes a session payload, sniffing the layout from the first
// byte: '[' means a JSON array, anything else is treated as NDJSON.
func ParseFrames(data []byte) ([]motion.LandmarkFrame, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty session payload")
	}

	if trimmed[0] == '[' {
		var frames []motion.LandmarkFrame
		if err := json.Unmarshal(trimmed, &frames); err != nil {
			return nil, fmt.Errorf("parse frame array: %w", err)
		}
		return frames, nil
	}

	var frames []motion.LandmarkFrame
	sc := bufio.NewScanner(bytes.NewReader(trimmed))
	sc.Buffer(make([]byte, 0, 64*1024), maxFrameLine)
	line := 0
	for sc.Scan() {
		line++
		raw := bytes.TrimSpace(sc.Bytes())
		if len(raw) == 0 {
			continue
		}
		var f motion.LandmarkFrame
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, fmt.Errorf("parse frame at line %d: %w", line, err)
		}
		frames = append(frames, f)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan session payload: %w", err)
	}
	return frames, nil
}

// WriteFile writes frames as a JSON array, the layout ReadFile and the
// batch analyzer tooling expect.
func WriteFile(path string, frames []motion.LandmarkFrame) error {
	data, err := json.MarshalIndent(frames, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
