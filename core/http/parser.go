package http

import (
	"bytes"
	"errors"

	"github.com/djarek/fastbeast/core/arena"
)

// Parser limits. The header block cap bounds the arena footprint of a
// single request; the body limit is zero because the server accepts
// none.
const (
	HeaderLimit  = 8 * 1024
	MaxTargetLen = 1024
	BodyLimit    = 0
)

var (
	// ErrInvalidRequest covers a malformed request line or header line.
	ErrInvalidRequest = errors.New("http: invalid request")
	// ErrHeaderLimit is returned when the header block exceeds HeaderLimit.
	ErrHeaderLimit = errors.New("http: header block too large")
	// ErrBadTarget is returned when the request target exceeds MaxTargetLen.
	ErrBadTarget = errors.New("http: request target too long")
	// ErrUnexpectedBody is returned when a request announces a body.
	// The body limit is zero: a nonzero Content-Length or any
	// Transfer-Encoding fails the parse before dispatch ever sees the
	// request.
	ErrUnexpectedBody = errors.New("http: body not accepted")
)

// Parser is a streaming HTTP/1.0 and HTTP/1.1 request parser. Only the
// request line and the keep-alive determination are materialized;
// header fields are parsed for framing and their contents discarded.
// Requests that announce a body fail with ErrUnexpectedBody, so no
// body bytes are ever accepted into the stream. Field scratch comes
// from the session's arena, so a finished request costs nothing to
// throw away.
//
// A request becomes visible (Complete returns true) only once the full
// header block has parsed without error.
type Parser struct {
	arena *arena.Arena

	verb      Verb
	target    []byte // arena-backed copy
	version   int    // 10 or 11
	keepAlive bool
	complete  bool
}

// NewParser returns a parser drawing scratch memory from a.
func NewParser(a *arena.Arena) *Parser {
	return &Parser{arena: a}
}

// Reset prepares the parser for the next request on the connection.
// The arena is reset by the session, which owns it.
func (p *Parser) Reset() {
	p.verb = VerbUnknown
	p.target = nil
	p.version = 0
	p.keepAlive = false
	p.complete = false
}

// Complete reports whether a full request head has been parsed.
func (p *Parser) Complete() bool { return p.complete }

// Verb returns the parsed method. Valid only when Complete.
func (p *Parser) Verb() Verb { return p.verb }

// Target returns the request target. The bytes live in the arena and
// are invalidated by the next reset.
func (p *Parser) Target() []byte { return p.target }

// Version returns the HTTP minor version as 10 or 11.
func (p *Parser) Version() int { return p.version }

// KeepAlive reports the connection persistence decision per RFC 7230
// §6.3. Valid only when Complete.
func (p *Parser) KeepAlive() bool { return p.keepAlive }

var (
	crlfcrlf = []byte("\r\n\r\n")
	lflf     = []byte("\n\n")

	hdrConnection       = []byte("Connection")
	hdrContentLength    = []byte("Content-Length")
	hdrTransferEncoding = []byte("Transfer-Encoding")
	tokenClose          = []byte("close")
	tokenKeepAlive      = []byte("keep-alive")
)

// Parse consumes a request head from buf. It returns the number of
// bytes consumed when the head is complete, or (0, nil) when more input
// is needed. Errors are terminal for the connection.
func (p *Parser) Parse(buf []byte) (consumed int, err error) {
	if p.complete {
		return 0, nil
	}

	// Locate the end of the header block first; nothing is visible
	// until the whole head has arrived.
	end := bytes.Index(buf, crlfcrlf)
	tlen := 4
	if end == -1 {
		end = bytes.Index(buf, lflf)
		tlen = 2
	}
	if end == -1 {
		if len(buf) > HeaderLimit {
			return 0, ErrHeaderLimit
		}
		return 0, nil
	}
	if end+tlen > HeaderLimit {
		return 0, ErrHeaderLimit
	}

	head := buf[:end]
	line, rest := cutLine(head)
	if err := p.parseRequestLine(line); err != nil {
		return 0, err
	}

	// Header fields: framed, copied into the arena, contents discarded.
	// Connection feeds the keep-alive decision; Content-Length and
	// Transfer-Encoding only matter insofar as announcing a body is
	// fatal, since the body limit is zero.
	var connClose, connKeepAlive bool
	for len(rest) > 0 {
		line, rest = cutLine(rest)
		if len(line) == 0 {
			continue
		}
		colon := bytes.IndexByte(line, ':')
		if colon <= 0 {
			return 0, ErrInvalidRequest
		}
		node, aerr := p.arena.AllocBytes(line)
		if aerr != nil {
			// Arena exhaustion is a parse error by contract.
			return 0, aerr
		}
		name := node[:colon]
		value := trimOWS(node[colon+1:])
		switch {
		case equalFold(name, hdrConnection):
			if tokenListContains(value, tokenClose) {
				connClose = true
			}
			if tokenListContains(value, tokenKeepAlive) {
				connKeepAlive = true
			}
		case equalFold(name, hdrContentLength):
			n, perr := parseDecimal(value)
			if perr != nil {
				return 0, perr
			}
			if n != 0 {
				return 0, ErrUnexpectedBody
			}
		case equalFold(name, hdrTransferEncoding):
			// Any transfer coding means a body follows.
			return 0, ErrUnexpectedBody
		}
	}

	switch {
	case connClose:
		p.keepAlive = false
	case p.version == 11:
		p.keepAlive = true
	default:
		p.keepAlive = connKeepAlive
	}

	p.complete = true
	return end + tlen, nil
}

// parseRequestLine parses "METHOD SP TARGET SP HTTP/x.y".
func (p *Parser) parseRequestLine(line []byte) error {
	sp1 := bytes.IndexByte(line, ' ')
	if sp1 <= 0 {
		return ErrInvalidRequest
	}
	sp2 := bytes.IndexByte(line[sp1+1:], ' ')
	if sp2 == -1 {
		return ErrInvalidRequest
	}
	sp2 += sp1 + 1

	method := line[:sp1]
	target := line[sp1+1 : sp2]
	proto := line[sp2+1:]

	if len(target) == 0 {
		return ErrInvalidRequest
	}
	if len(target) > MaxTargetLen {
		return ErrBadTarget
	}

	switch {
	case bytes.Equal(proto, []byte("HTTP/1.1")):
		p.version = 11
	case bytes.Equal(proto, []byte("HTTP/1.0")):
		p.version = 10
	default:
		return ErrInvalidRequest
	}

	p.verb = parseVerb(method)

	t, err := p.arena.AllocBytes(target)
	if err != nil {
		return err
	}
	p.target = t
	return nil
}

// cutLine splits buf at the first LF, trimming a trailing CR from the
// returned line.
func cutLine(buf []byte) (line, rest []byte) {
	if i := bytes.IndexByte(buf, '\n'); i != -1 {
		line, rest = buf[:i], buf[i+1:]
	} else {
		line = buf
	}
	if n := len(line); n > 0 && line[n-1] == '\r' {
		line = line[:n-1]
	}
	return line, rest
}

// parseDecimal parses a non-negative decimal Content-Length value.
func parseDecimal(b []byte) (int64, error) {
	if len(b) == 0 {
		return 0, ErrInvalidRequest
	}
	var n int64
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0, ErrInvalidRequest
		}
		n = n*10 + int64(c-'0')
		if n > 1<<53 {
			return 0, ErrInvalidRequest
		}
	}
	return n, nil
}

// trimOWS removes leading and trailing spaces and tabs.
func trimOWS(b []byte) []byte {
	for len(b) > 0 && (b[0] == ' ' || b[0] == '\t') {
		b = b[1:]
	}
	for len(b) > 0 && (b[len(b)-1] == ' ' || b[len(b)-1] == '\t') {
		b = b[:len(b)-1]
	}
	return b
}

// equalFold is a case-insensitive ASCII comparison for header names.
func equalFold(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

// tokenListContains reports whether the comma-separated token list in
// value contains token (case-insensitive).
func tokenListContains(value, token []byte) bool {
	for len(value) > 0 {
		var part []byte
		if i := bytes.IndexByte(value, ','); i != -1 {
			part, value = value[:i], value[i+1:]
		} else {
			part, value = value, nil
		}
		if equalFold(trimOWS(part), token) {
			return true
		}
	}
	return false
}
