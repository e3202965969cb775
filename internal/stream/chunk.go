package stream

import "strconv"

// ID identifies an output stream of a child process.
type ID int

const (
	// Stdout is the id of the standard output stream.
	Stdout ID = 0
	// Stderr is the id of the standard error stream.
	Stderr ID = 1
)

func (id ID) String() string {
	switch id {
	case Stdout:
		return "stdout"
	case Stderr:
		return "stderr"
	default:
		return "stream" + strconv.Itoa(int(id))
	}
}

// Chunk is one delivery of data read from a stream.
//
// A nil Bytes slice marks a synthetic look-ahead chunk that carries no data.
// The final chunk a Reader emits for a stream has Final set and a non-nil,
// empty Bytes slice.
type Chunk struct {
	Stream ID
	Text   string
	Bytes  []byte
	Final  bool
}

// Marker returns a chunk carrying no data for the given stream.
func Marker(id ID, final bool) Chunk {
	return Chunk{Stream: id, Final: final}
}

func newChunk(id ID, data []byte, final bool) Chunk {
	return Chunk{
		Stream: id,
		Text:   string(data),
		Bytes:  data,
		Final:  final,
	}
}

// IsMarker reports whether the chunk is a synthetic marker without data.
func (c Chunk) IsMarker() bool {
	return c.Bytes == nil
}

// clone returns a copy of the chunk that does not share its byte slice.
func (c Chunk) clone() Chunk {
	if c.Bytes != nil {
		c.Bytes = append([]byte{}, c.Bytes...)
	}

	return c
}
