package render

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"hash/crc32"
	"io"

	"github.com/golang/snappy"

	"github.com/dd0wney/algoviz/pkg/scene"
)

// Frame is one recorded step of a playback session.
type Frame struct {
	Step  int          `json:"step"`
	Scene *scene.Scene `json:"scene"`
}

// Recorder writes a playback session as a stream of snappy-compressed
// frames, one per step, so a session can be replayed without re-running
// the translation call.
//
// Frame format: [DataLen:4][Data:N][Checksum:4], big endian, where Data is
// the snappy-compressed JSON frame and Checksum covers the compressed
// bytes.
type Recorder struct {
	w      *bufio.Writer
	frames int
}

// maxFrameSize caps one frame's compressed payload. A corrupt length
// prefix must fail here instead of driving a multi-gigabyte allocation
// before the checksum is ever verified.
const maxFrameSize = 16 << 20

// NewRecorder creates a recorder writing to w.
func NewRecorder(w io.Writer) *Recorder {
	return &Recorder{w: bufio.NewWriter(w)}
}

// WriteFrame appends one frame to the recording.
func (r *Recorder) WriteFrame(step int, s *scene.Scene) error {
	raw, err := json.Marshal(Frame{Step: step, Scene: s})
	if err != nil {
		return fmt.Errorf("failed to marshal frame: %w", err)
	}
	compressed := snappy.Encode(nil, raw)

	if err := binary.Write(r.w, binary.BigEndian, uint32(len(compressed))); err != nil {
		return err
	}
	if _, err := r.w.Write(compressed); err != nil {
		return err
	}
	if err := binary.Write(r.w, binary.BigEndian, crc32.ChecksumIEEE(compressed)); err != nil {
		return err
	}

	r.frames++
	return nil
}

// Frames returns the number of frames written so far.
func (r *Recorder) Frames() int {
	return r.frames
}

// Flush writes any buffered frames to the underlying writer.
func (r *Recorder) Flush() error {
	return r.w.Flush()
}

// ReadRecording decodes a full recording stream.
func ReadRecording(reader io.Reader) ([]Frame, error) {
	br := bufio.NewReader(reader)
	var frames []Frame

	for {
		var dataLen uint32
		if err := binary.Read(br, binary.BigEndian, &dataLen); err != nil {
			if err == io.EOF {
				return frames, nil
			}
			return frames, fmt.Errorf("failed to read frame length: %w", err)
		}

		if dataLen > maxFrameSize {
			return frames, fmt.Errorf("frame %d length %d exceeds limit", len(frames), dataLen)
		}

		compressed := make([]byte, dataLen)
		if _, err := io.ReadFull(br, compressed); err != nil {
			return frames, fmt.Errorf("failed to read frame data: %w", err)
		}

		var checksum uint32
		if err := binary.Read(br, binary.BigEndian, &checksum); err != nil {
			return frames, fmt.Errorf("failed to read frame checksum: %w", err)
		}
		if crc32.ChecksumIEEE(compressed) != checksum {
			return frames, fmt.Errorf("frame %d checksum mismatch", len(frames))
		}

		raw, err := snappy.Decode(nil, compressed)
		if err != nil {
			return frames, fmt.Errorf("frame %d failed to decompress: %w", len(frames), err)
		}

		var frame Frame
		if err := json.Unmarshal(raw, &frame); err != nil {
			return frames, fmt.Errorf("frame %d failed to unmarshal: %w", len(frames), err)
		}
		frames = append(frames, frame)
	}
}
