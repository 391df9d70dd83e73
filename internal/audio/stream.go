package audio

import (
	"context"
	"errors"
	"io"
)

// DefaultChunkSize is the read size used when turning a reader into chunks.
const DefaultChunkSize = 4096

// ChunkStream reads r in chunks of at most size bytes and delivers them on
// the returned channel, which is closed at EOF, on a read error, or when ctx
// is done. A read error other than EOF is sent on the error channel after
// the chunk channel is closed.
func ChunkStream(ctx context.Context, r io.Reader, size int) (<-chan []byte, <-chan error) {
	if size <= 0 {
		size = DefaultChunkSize
	}

	chunks := make(chan []byte, 16)
	errc := make(chan error, 1)

	go func() {
		defer close(errc)
		defer close(chunks)

		buf := make([]byte, size)
		for {
			n, err := r.Read(buf)
			if n > 0 {
				chunk := make([]byte, n)
				copy(chunk, buf[:n])
				select {
				case chunks <- chunk:
				case <-ctx.Done():
					errc <- ctx.Err()
					return
				}
			}
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				errc <- err
				return
			}
		}
	}()

	return chunks, errc
}

// Split cuts data into chunks of at most size bytes and delivers them on a
// closed channel. It is used to replay buffered audio through the collector.
func Split(data []byte, size int) <-chan []byte {
	if size <= 0 {
		size = DefaultChunkSize
	}

	chunks := make(chan []byte, (len(data)+size-1)/size)
	for start := 0; start < len(data); start += size {
		end := min(start+size, len(data))
		chunks <- data[start:end]
	}
	close(chunks)
	return chunks
}
