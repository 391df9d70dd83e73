package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Canonical container parameters. Every container carries exactly these
// values in its header regardless of what the payload really is.
const (
	SampleRate  = 16000
	SampleWidth = 2
	Channels    = 1

	// HeaderSize is the size of the RIFF/WAVE PCM header.
	HeaderSize = 44

	// MIMEType is the MIME type of a packaged container.
	MIMEType = "audio/wav"
)

// Header holds the format fields of a container header.
type Header struct {
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	DataSize      uint32
}

// Container is a packaged audio payload: a fixed header followed by the raw
// samples. It is immutable once built.
type Container struct {
	data []byte
}

// Collect reads chunks until stream is closed and packages them into a
// container. Chunks are concatenated in arrival order; nothing is dropped,
// reordered or reinterpreted.
func Collect(stream <-chan []byte) *Container {
	buf := bytes.NewBuffer(make([]byte, HeaderSize, HeaderSize+4096))
	for chunk := range stream {
		buf.Write(chunk)
	}
	return seal(buf.Bytes())
}

// NewContainer packages an already collected payload.
func NewContainer(payload []byte) *Container {
	data := make([]byte, HeaderSize+len(payload))
	copy(data[HeaderSize:], payload)
	return seal(data)
}

// seal writes the canonical header into the first HeaderSize bytes of data.
func seal(data []byte) *Container {
	dataSize := uint32(len(data) - HeaderSize)
	blockAlign := uint16(Channels * SampleWidth)

	copy(data[0:4], "RIFF")
	binary.LittleEndian.PutUint32(data[4:8], 36+dataSize)
	copy(data[8:12], "WAVE")

	copy(data[12:16], "fmt ")
	binary.LittleEndian.PutUint32(data[16:20], 16) // PCM fmt chunk size
	binary.LittleEndian.PutUint16(data[20:22], 1)  // PCM
	binary.LittleEndian.PutUint16(data[22:24], Channels)
	binary.LittleEndian.PutUint32(data[24:28], SampleRate)
	binary.LittleEndian.PutUint32(data[28:32], SampleRate*uint32(blockAlign))
	binary.LittleEndian.PutUint16(data[32:34], blockAlign)
	binary.LittleEndian.PutUint16(data[34:36], SampleWidth*8)

	copy(data[36:40], "data")
	binary.LittleEndian.PutUint32(data[40:44], dataSize)

	return &Container{data: data}
}

// Bytes returns the encoded container. The caller must not modify it.
func (c *Container) Bytes() []byte {
	return c.data
}

// Payload returns the raw audio following the header.
func (c *Container) Payload() []byte {
	return c.data[HeaderSize:]
}

// Len returns the total container size.
func (c *Container) Len() int {
	return len(c.data)
}

// ParseHeader decodes a RIFF/WAVE PCM header.
func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, fmt.Errorf("WAV data too short: need at least %d bytes, got %d", HeaderSize, len(data))
	}

	if string(data[0:4]) != "RIFF" {
		return Header{}, fmt.Errorf("invalid WAV file: missing RIFF header")
	}
	if string(data[8:12]) != "WAVE" {
		return Header{}, fmt.Errorf("invalid WAV file: missing WAVE format")
	}
	if string(data[12:16]) != "fmt " {
		return Header{}, fmt.Errorf("invalid WAV file: missing fmt chunk")
	}
	if string(data[36:40]) != "data" {
		return Header{}, fmt.Errorf("invalid WAV file: missing data chunk")
	}

	return Header{
		AudioFormat:   binary.LittleEndian.Uint16(data[20:22]),
		NumChannels:   binary.LittleEndian.Uint16(data[22:24]),
		SampleRate:    binary.LittleEndian.Uint32(data[24:28]),
		ByteRate:      binary.LittleEndian.Uint32(data[28:32]),
		BlockAlign:    binary.LittleEndian.Uint16(data[32:34]),
		BitsPerSample: binary.LittleEndian.Uint16(data[34:36]),
		DataSize:      binary.LittleEndian.Uint32(data[40:44]),
	}, nil
}
