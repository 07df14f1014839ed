package feed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/himai-labs/tension.report/internal/motion"
)

func sampleFrames(n int) []motion.LandmarkFrame {
	frames := make([]motion.LandmarkFrame, n)
	for i := range frames {
		frames[i] = motion.LandmarkFrame{
			FrameIndex: i,
			Timestamp:  float64(i) / 30.0,
			Joints: map[string]motion.JointPosition{
				"left_wrist": {X: 0.2, Y: 1.0 + float64(i)*0.01, Z: 0.1, Confidence: 0.9},
			},
		}
	}
	return frames
}

func TestParseFramesArrayLayout(t *testing.T) {
	t.Parallel()

	payload := `
	[
	  {"frame_index": 0, "timestamp": 0.0, "joints": {"left_wrist": {"x": 1, "y": 2, "z": 3, "confidence": 0.9}}},
	  {"frame_index": 1, "timestamp": 0.033, "joints": {}}
	]`

	frames, err := ParseFrames([]byte(payload))
	require.NoError(t, err)
	require.Len(t, frames, 2)
	assert.Equal(t, 0, frames[0].FrameIndex)
	assert.Equal(t, 1.0, frames[0].Joints["left_wrist"].X)
	assert.Equal(t, 0.033, frames[1].Timestamp)
}

func TestParseFramesNDJSONLayout(t *testing.T) {
	t.Parallel()

	payload := `{"frame_index": 0, "timestamp": 0.0}

{"frame_index": 1, "timestamp": 0.033}
{"frame_index": 2, "timestamp": 0.066}
`

	frames, err := ParseFrames([]byte(payload))
	require.NoError(t, err)
	require.Len(t, frames, 3, "blank lines are skipped")
	for i, f := range frames {
		assert.Equal(t, i, f.FrameIndex)
	}
}

func TestParseFramesErrors(t *testing.T) {
	t.Parallel()

	t.Run("empty payload", func(t *testing.T) {
		t.Parallel()
		_, err := ParseFrames(nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "empty session payload")

		_, err = ParseFrames([]byte("  \n\t "))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "empty session payload")
	})

	t.Run("broken array", func(t *testing.T) {
		t.Parallel()
		_, err := ParseFrames([]byte(`[{"frame_index": 0},`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse frame array")
	})

	t.Run("broken line reports the line number", func(t *testing.T) {
		t.Parallel()
		payload := "{\"frame_index\": 0}\n\n{\"frame_index\": oops}\n"
		_, err := ParseFrames([]byte(payload))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse frame at line 3")
	})
}

func TestWriteReadFileRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "set.json")
	want := sampleFrames(5)
	require.NoError(t, WriteFile(path, want))

	got, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestReadFileNDJSON(t *testing.T) {
	t.Parallel()

	var payload []byte
	for _, f := range sampleFrames(4) {
		line, err := EncodeFrame(&f)
		require.NoError(t, err)
		payload = append(payload, line...)
		payload = append(payload, '\n')
	}

	path := filepath.Join(t.TempDir(), "set.ndjson")
	require.NoError(t, os.WriteFile(path, payload, 0o644))

	frames, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, sampleFrames(4), frames)
}

func TestReadFileMissing(t *testing.T) {
	t.Parallel()

	_, err := ReadFile(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestReadFileWrapsParseErrors(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	_, err := ReadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path, "parse failures must name the file")
}

func TestDecodeFrame(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()
		want := sampleFrames(1)[0]
		data, err := EncodeFrame(&want)
		require.NoError(t, err)

		got, err := DecodeFrame(data)
		require.NoError(t, err)
		assert.Equal(t, &want, got)
	})

	t.Run("unknown fields are ignored", func(t *testing.T) {
		t.Parallel()
		f, err := DecodeFrame([]byte(`{"frame_index": 7, "timestamp": 0.5, "estimator_version": "v3"}`))
		require.NoError(t, err)
		assert.Equal(t, 7, f.FrameIndex)
	})

	t.Run("malformed payload", func(t *testing.T) {
		t.Parallel()
		_, err := DecodeFrame([]byte(`{"frame_index":`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "decode landmark frame")
	})
}
