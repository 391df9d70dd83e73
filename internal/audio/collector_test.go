package audio

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

func feed(chunks ...[]byte) <-chan []byte {
	ch := make(chan []byte, len(chunks))
	for _, c := range chunks {
		ch <- c
	}
	close(ch)
	return ch
}

func TestCollect_LengthAndOrder(t *testing.T) {
	tests := []struct {
		name   string
		chunks [][]byte
	}{
		{name: "single chunk", chunks: [][]byte{{1, 2, 3, 4}}},
		{name: "many chunks", chunks: [][]byte{{1}, {2, 3}, {4, 5, 6}, {7, 8, 9, 10}}},
		{name: "empty chunks in between", chunks: [][]byte{{0xAA}, {}, {0xBB, 0xCC}, nil, {0xDD}}},
		{name: "odd byte count", chunks: [][]byte{{1, 2, 3}}},
		{name: "large chunk", chunks: [][]byte{bytes.Repeat([]byte{0x7F}, 100_000), {0x01}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := bytes.Join(tt.chunks, nil)

			container := Collect(feed(tt.chunks...))

			if container.Len() != HeaderSize+len(want) {
				t.Errorf("Expected length %d, got %d", HeaderSize+len(want), container.Len())
			}

			if !bytes.Equal(container.Payload(), want) {
				t.Error("Payload does not match concatenated chunks")
			}

			if !bytes.Equal(container.Bytes()[HeaderSize:], want) {
				t.Error("Encoded bytes do not end with the concatenated chunks")
			}
		})
	}
}

func TestCollect_EmptyStream(t *testing.T) {
	container := Collect(feed())

	if container.Len() != HeaderSize {
		t.Fatalf("Expected header-only container of %d bytes, got %d", HeaderSize, container.Len())
	}

	h := mustHeader(t, container)
	if h.DataSize != 0 {
		t.Errorf("Expected zero data size, got %d", h.DataSize)
	}
	if h.SampleRate != SampleRate || h.NumChannels != Channels || h.BitsPerSample != SampleWidth*8 {
		t.Errorf("Unexpected header %+v", h)
	}
}

func TestCollect_HeaderIsFixed(t *testing.T) {
	a := Collect(feed([]byte{1, 2, 3, 4, 5, 6}))
	b := Collect(feed(bytes.Repeat([]byte{0xFF}, 32)))

	ha, hb := mustHeader(t, a), mustHeader(t, b)

	for _, h := range []Header{ha, hb} {
		if h.AudioFormat != 1 {
			t.Errorf("Expected PCM format, got %d", h.AudioFormat)
		}
		if h.SampleRate != 16000 {
			t.Errorf("Expected 16000 Hz, got %d", h.SampleRate)
		}
		if h.BitsPerSample != 16 {
			t.Errorf("Expected 16-bit samples, got %d", h.BitsPerSample)
		}
		if h.NumChannels != 1 {
			t.Errorf("Expected mono, got %d", h.NumChannels)
		}
		if h.ByteRate != 32000 || h.BlockAlign != 2 {
			t.Errorf("Unexpected byte rate/block align %d/%d", h.ByteRate, h.BlockAlign)
		}
	}

	// Headers differ only in the size fields that encode the payload length.
	ha.DataSize, hb.DataSize = 0, 0
	if ha != hb {
		t.Errorf("Expected identical format fields, got %+v and %+v", ha, hb)
	}

	if !bytes.Equal(a.Bytes()[8:40], b.Bytes()[8:40]) {
		t.Error("Expected format section of the headers to be byte-identical")
	}
}

func TestNewContainer_MatchesCollect(t *testing.T) {
	payload := []byte("raw pcm payload")

	collected := Collect(feed(payload[:3], payload[3:]))
	built := NewContainer(payload)

	if !bytes.Equal(collected.Bytes(), built.Bytes()) {
		t.Error("Expected NewContainer and Collect to produce identical containers")
	}

	// NewContainer must not alias the caller's slice.
	payload[0] = 'X'
	if built.Payload()[0] == 'X' {
		t.Error("Expected container payload to be a copy")
	}
}

func TestParseHeader_Invalid(t *testing.T) {
	valid := NewContainer([]byte{1, 2}).Bytes()

	tests := []struct {
		name string
		data []byte
		want string
	}{
		{name: "too short", data: valid[:10], want: "too short"},
		{name: "no riff", data: append([]byte("RIFX"), valid[4:]...), want: "RIFF"},
		{name: "no wave", data: append(append(append([]byte{}, valid[:8]...), "WAVX"...), valid[12:]...), want: "WAVE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseHeader(tt.data)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestChunkStream(t *testing.T) {
	data := bytes.Repeat([]byte("0123456789"), 100)

	chunks, errc := ChunkStream(context.Background(), bytes.NewReader(data), 64)
	container := Collect(chunks)

	if err := <-errc; err != nil {
		t.Fatalf("Unexpected read error: %v", err)
	}
	if !bytes.Equal(container.Payload(), data) {
		t.Error("Expected payload to equal reader contents")
	}
}

type failingReader struct{ sent bool }

func (r *failingReader) Read(p []byte) (int, error) {
	if !r.sent {
		r.sent = true
		return copy(p, "abc"), nil
	}
	return 0, io.ErrUnexpectedEOF
}

func TestChunkStream_ReadError(t *testing.T) {
	chunks, errc := ChunkStream(context.Background(), &failingReader{}, 16)
	container := Collect(chunks)

	if err := <-errc; !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("Expected ErrUnexpectedEOF, got %v", err)
	}
	if string(container.Payload()) != "abc" {
		t.Errorf("Expected partial payload abc, got %q", container.Payload())
	}
}

func TestSplit(t *testing.T) {
	data := []byte("abcdefghij")

	var got [][]byte
	for chunk := range Split(data, 4) {
		got = append(got, chunk)
	}

	if len(got) != 3 {
		t.Fatalf("Expected 3 chunks, got %d", len(got))
	}
	if string(got[2]) != "ij" {
		t.Errorf("Expected last chunk ij, got %q", got[2])
	}

	if n := len(Split(nil, 4)); n != 0 {
		t.Errorf("Expected no chunks for empty input, got %d", n)
	}
}

func mustHeader(t *testing.T, c *Container) Header {
	t.Helper()
	h, err := ParseHeader(c.Bytes())
	if err != nil {
		t.Fatalf("Failed to parse container header: %v", err)
	}
	return h
}
