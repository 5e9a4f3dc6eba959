package event

import (
	"bufio"
	"bytes"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"

	"github.com/grovetools/clueitems/errors"
)

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// Reader yields events from a JSONL stream. Zstandard-compressed streams are
// detected by their magic number. Blank lines and lines starting with '#'
// are skipped.
type Reader struct {
	source  string
	scanner *bufio.Scanner
	dec     *zstd.Decoder
	closer  io.Closer
	line    int
}

// NewReader wraps r. source names the stream in decode errors.
func NewReader(source string, r io.Reader) (*Reader, error) {
	br := bufio.NewReader(r)
	rd := &Reader{source: source}

	var in io.Reader = br
	if magic, _ := br.Peek(len(zstdMagic)); bytes.Equal(magic, zstdMagic) {
		dec, err := zstd.NewReader(br)
		if err != nil {
			return nil, errors.EventDecode(source, 0, err)
		}
		rd.dec = dec
		in = dec
	}

	rd.scanner = bufio.NewScanner(in)
	rd.scanner.Buffer(make([]byte, 64*1024), 8*1024*1024)
	return rd, nil
}

// Open opens a recording on disk.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.FeedFailed(path, err)
	}
	rd, err := NewReader(path, f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	rd.closer = f
	return rd, nil
}

// Next returns the next event, or io.EOF at the end of the stream.
func (r *Reader) Next() (Event, error) {
	for r.scanner.Scan() {
		r.line++
		line := bytes.TrimSpace(r.scanner.Bytes())
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		ev, err := Decode(line)
		if err != nil {
			return Event{}, errors.EventDecode(r.source, r.line, err)
		}
		return ev, nil
	}
	if err := r.scanner.Err(); err != nil {
		return Event{}, errors.EventDecode(r.source, r.line, err)
	}
	return Event{}, io.EOF
}

// Line returns the number of the last line read.
func (r *Reader) Line() int {
	return r.line
}

// Close releases the decoder and the underlying file, if any.
func (r *Reader) Close() error {
	if r.dec != nil {
		r.dec.Close()
	}
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}
