package http

// ResponseHeader is the logical response head. Dispatchers build one by
// value; the serializer is its only writer to the wire.
type ResponseHeader struct {
	Status      int
	Version     int // 10 or 11, mirrors the request
	KeepAlive   bool
	ContentType []byte // full header line, from the MIME table
	Body        []byte // typically borrows a mapped file's bytes
}

// Fixed header fragments. Emitted as-is, one gathered slice each.
var (
	serverLine      = []byte("Server: FastBeast\r\n")
	connKeepAlive   = []byte("Connection: keep-alive\r\n")
	connClose       = []byte("Connection: close\r\n")
	contentLengthHd = []byte("Content-Length: ")
	headTerminator  = []byte("\r\n\r\n")
)

// Serializer assembles a response as exactly eight byte slices handed
// to one vectored write:
//
//	status line | Server | Content-Type | Connection |
//	"Content-Length: " | digits | CRLF CRLF | body
//
// The status line and the length digits live in fixed arrays owned by
// the serializer; everything else is either a static literal or a
// borrowed slice. Serialization never allocates.
type Serializer struct {
	statusBuf [48]byte
	digitsBuf [20]byte
	vecs      [8][]byte
}

// Reset builds the vector sequence for h. The previous sequence is
// invalidated.
func (s *Serializer) Reset(h *ResponseHeader) {
	// "HTTP/1.x NNN Reason\r\n"
	b := s.statusBuf[:0]
	if h.Version == 10 {
		b = append(b, "HTTP/1.0 "...)
	} else {
		b = append(b, "HTTP/1.1 "...)
	}
	b = appendInt(b, h.Status)
	b = append(b, ' ')
	b = append(b, statusText(h.Status)...)
	b = append(b, '\r', '\n')
	s.vecs[0] = b

	s.vecs[1] = serverLine
	s.vecs[2] = h.ContentType
	if h.KeepAlive {
		s.vecs[3] = connKeepAlive
	} else {
		s.vecs[3] = connClose
	}
	s.vecs[4] = contentLengthHd
	s.vecs[5] = appendInt(s.digitsBuf[:0], len(h.Body))
	s.vecs[6] = headTerminator
	s.vecs[7] = h.Body
}

// Vectors returns the gathered slices. The caller loops the vectored
// write until every byte is on the wire; partial-write bookkeeping is
// the socket layer's job, not the serializer's.
func (s *Serializer) Vectors() [][]byte {
	return s.vecs[:]
}

// Size returns the total response length in bytes.
func (s *Serializer) Size() int {
	n := 0
	for i := range s.vecs {
		n += len(s.vecs[i])
	}
	return n
}

// appendInt formats a non-negative int without allocating. Adapted for
// the two spots that need decimal digits on the wire.
func appendInt(b []byte, i int) []byte {
	if i == 0 {
		return append(b, '0')
	}

	var digits [20]byte
	n := 0
	for i > 0 {
		digits[n] = byte('0' + i%10)
		i /= 10
		n++
	}

	for n > 0 {
		n--
		b = append(b, digits[n])
	}

	return b
}
