package instance

import (
	"bytes"
	"strconv"

	"github.com/pkg/errors"
)

// Framing errors raised for captured session transcripts.
var (
	ErrChunkHeader    = errors.New("invalid chunk header")
	ErrChunkSize      = errors.New("chunk size larger than maximum (4294967295)")
	ErrChunkTruncated = errors.New("chunk data truncated")
	ErrZeroChunks     = errors.New("end-of-chunks seen prior to chunk")
)

const maxChunkSize = 4294967295

var (
	tokenEOM         = []byte("]]>]]>")
	tokenEndOfChunks = []byte("\n##\n")
)

// unframe returns the first message of a document captured from a
// NETCONF session: text before an end-of-message marker, or the chunk
// data of a chunked message. Unframed documents are returned unchanged.
func unframe(data []byte) ([]byte, error) {
	if bytes.HasPrefix(data, []byte("\n#")) {
		return unchunk(data)
	}
	if i := bytes.Index(data, tokenEOM); i >= 0 {
		return data[:i], nil
	}
	return data, nil
}

func unchunk(b []byte) ([]byte, error) {
	var out []byte
	seen := false
	for {
		if bytes.HasPrefix(b, tokenEndOfChunks) {
			if !seen {
				return nil, errors.WithStack(ErrZeroChunks)
			}
			return out, nil
		}
		size, adv, err := chunkHeader(b)
		if err != nil {
			return nil, err
		}
		b = b[adv:]
		if uint64(len(b)) < size {
			return nil, errors.WithStack(ErrChunkTruncated)
		}
		out = append(out, b[:size]...)
		b = b[size:]
		seen = true
	}
}

// chunkHeader decodes a "\n#<size>\n" header at the start of b.
func chunkHeader(b []byte) (size uint64, advance int, err error) {
	if len(b) < 4 || b[0] != '\n' || b[1] != '#' || b[2] < '1' || b[2] > '9' {
		return 0, 0, errors.Wrapf(ErrChunkHeader, "at %q", head(b))
	}
	end := bytes.IndexByte(b[2:], '\n')
	if end <= 0 || end > len("4294967295") {
		return 0, 0, errors.Wrapf(ErrChunkHeader, "at %q", head(b))
	}
	size, err = strconv.ParseUint(string(b[2:2+end]), 10, 64)
	if err != nil {
		return 0, 0, errors.Wrapf(ErrChunkHeader, "at %q", head(b))
	}
	if size > maxChunkSize {
		return 0, 0, errors.WithStack(ErrChunkSize)
	}
	return size, 2 + end + 1, nil
}

func head(b []byte) []byte {
	if len(b) > 8 {
		return b[:8]
	}
	return b
}
