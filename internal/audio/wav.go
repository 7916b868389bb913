package audio

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"fmt"
)

const (
	// SampleRate is the rate speech synthesis returns PCM at.
	SampleRate    = 24000
	channels      = 1
	bitsPerSample = 16
	wavHeaderSize = 44
)

// DecodePCM decodes a base64 speech payload into raw PCM bytes.
func DecodePCM(payload string) ([]byte, error) {
	pcm, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode speech payload: %w", err)
	}
	if len(pcm) == 0 {
		return nil, fmt.Errorf("decode speech payload: empty audio")
	}
	return pcm, nil
}

// EncodeWAV wraps signed 16-bit little-endian mono PCM in a RIFF/WAVE
// container.
func EncodeWAV(pcm []byte, sampleRate int) []byte {
	blockAlign := channels * bitsPerSample / 8
	byteRate := sampleRate * blockAlign

	var b bytes.Buffer
	b.Grow(wavHeaderSize + len(pcm))

	le := binary.LittleEndian
	b.WriteString("RIFF")
	_ = binary.Write(&b, le, uint32(36+len(pcm)))
	b.WriteString("WAVE")

	b.WriteString("fmt ")
	_ = binary.Write(&b, le, uint32(16)) // PCM chunk size
	_ = binary.Write(&b, le, uint16(1))  // audio format: PCM
	_ = binary.Write(&b, le, uint16(channels))
	_ = binary.Write(&b, le, uint32(sampleRate))
	_ = binary.Write(&b, le, uint32(byteRate))
	_ = binary.Write(&b, le, uint16(blockAlign))
	_ = binary.Write(&b, le, uint16(bitsPerSample))

	b.WriteString("data")
	_ = binary.Write(&b, le, uint32(len(pcm)))
	b.Write(pcm)

	return b.Bytes()
}
