package audio

import (
	"encoding/base64"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeWAVHeader(t *testing.T) {
	pcm := []byte{1, 2, 3, 4, 5, 6}
	wav := EncodeWAV(pcm, SampleRate)

	require.Len(t, wav, wavHeaderSize+len(pcm))
	le := binary.LittleEndian

	assert.Equal(t, "RIFF", string(wav[0:4]))
	assert.Equal(t, uint32(36+len(pcm)), le.Uint32(wav[4:8]))
	assert.Equal(t, "WAVE", string(wav[8:12]))
	assert.Equal(t, "fmt ", string(wav[12:16]))
	assert.Equal(t, uint32(16), le.Uint32(wav[16:20]))
	assert.Equal(t, uint16(1), le.Uint16(wav[20:22]))
	assert.Equal(t, uint16(1), le.Uint16(wav[22:24]), "mono")
	assert.Equal(t, uint32(24000), le.Uint32(wav[24:28]))
	assert.Equal(t, uint32(48000), le.Uint32(wav[28:32]), "byte rate")
	assert.Equal(t, uint16(2), le.Uint16(wav[32:34]), "block align")
	assert.Equal(t, uint16(16), le.Uint16(wav[34:36]))
	assert.Equal(t, "data", string(wav[36:40]))
	assert.Equal(t, uint32(len(pcm)), le.Uint32(wav[40:44]))
	assert.Equal(t, pcm, wav[44:])
}

func TestDecodePCM(t *testing.T) {
	pcm, err := DecodePCM(base64.StdEncoding.EncodeToString([]byte{9, 8}))
	require.NoError(t, err)
	assert.Equal(t, []byte{9, 8}, pcm)

	_, err = DecodePCM("")
	assert.Error(t, err)

	_, err = DecodePCM("%%%")
	assert.Error(t, err)
}
