package audio

import (
	"encoding/binary"
	"fmt"
)

// Synthesis back ends return raw 16-bit mono PCM at 24 kHz.
const (
	SampleRate    = 24000
	NumChannels   = 1
	BitsPerSample = 16
)

// WrapPCM prepends a RIFF/WAVE header to raw PCM so browsers can play
// the reply directly.
func WrapPCM(pcm []byte) ([]byte, error) {
	if len(pcm) == 0 {
		return nil, fmt.Errorf("empty pcm payload")
	}
	if len(pcm)%2 != 0 {
		return nil, fmt.Errorf("pcm payload has odd length %d, expected 16-bit samples", len(pcm))
	}

	byteRate := SampleRate * NumChannels * BitsPerSample / 8
	blockAlign := NumChannels * BitsPerSample / 8

	header := make([]byte, 44)
	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], uint32(36+len(pcm)))
	copy(header[8:12], "WAVE")
	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16)
	binary.LittleEndian.PutUint16(header[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(header[22:24], NumChannels)
	binary.LittleEndian.PutUint32(header[24:28], SampleRate)
	binary.LittleEndian.PutUint32(header[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(header[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(header[34:36], BitsPerSample)
	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], uint32(len(pcm)))

	return append(header, pcm...), nil
}

// Duration reports the playback length in seconds of a raw PCM payload.
func Duration(pcm []byte) float64 {
	bytesPerSecond := SampleRate * NumChannels * BitsPerSample / 8
	return float64(len(pcm)) / float64(bytesPerSecond)
}
