package core

import (
	"bytes"

	"golang.org/x/sys/unix"

	"github.com/djarek/fastbeast/core/arena"
	"github.com/djarek/fastbeast/core/http"
	"github.com/djarek/fastbeast/core/logx"
)

// Session states. Dispatch and serialization run to completion inline,
// so the only states that survive a return to the event loop are
// "collecting a request head" and "draining a response".
const (
	stateReading = iota
	stateWriting
)

// Session is the per-connection control block: the socket, the
// persistent read buffer, the per-request arena, and slots for the
// parser and serializer. Blocks are recycled through the worker's
// session pool; the read buffer is recycled separately so idle
// keep-alive connections can be extended later without holding one.
type Session struct {
	fd  int
	buf []byte // persistent read buffer, ReadBufferSize
	off int    // bytes accumulated in buf

	arena  arena.Arena
	parser *http.Parser
	resp   http.ResponseHeader
	ser    http.Serializer

	state      int
	consumed   int      // length of the parsed head awaiting completion
	pending    [][]byte // unwritten tail of the gathered response
	keepAlive  bool
	writeArmed bool // poller switched to write interest
}

func newSession() *Session {
	s := &Session{fd: -1}
	s.parser = http.NewParser(&s.arena)
	return s
}

// Reset implements pools.Poolable. The read buffer must already be
// detached.
func (s *Session) Reset() {
	s.fd = -1
	s.buf = nil
	s.off = 0
	s.state = stateReading
	s.consumed = 0
	s.pending = nil
	s.keepAlive = false
	s.writeArmed = false
	s.resp = http.ResponseHeader{}
	s.arena.Reset()
	s.parser.Reset()
}

// attach binds a freshly accepted socket and its read buffer.
func (s *Session) attach(fd int, buf []byte) {
	s.fd = fd
	s.buf = buf
}

// handleReadable drains the socket and advances the request pipeline.
func (w *Worker) handleReadable(s *Session) {
	if s.state == stateWriting {
		// Interest is write-only while a response drains; a stale
		// readable event can still arrive from the same Wait batch.
		return
	}
	for {
		if s.off == len(s.buf) {
			// Buffer full with no complete head. The parser's limits
			// normally fire first; whatever slipped past them gets the
			// same disposition. Reading into a zero-length slice would
			// return n=0 and masquerade as a peer close.
			w.stats.ParseErrors.Add(1)
			w.closeSession(s)
			return
		}
		n, err := unix.Read(s.fd, s.buf[s.off:])
		if err == unix.EINTR {
			continue
		}
		if err == unix.EAGAIN {
			return
		}
		if err != nil || n == 0 {
			// Read error or peer close: no response, close silently.
			w.stats.ReadErrors.Add(1)
			w.closeSession(s)
			return
		}
		s.off += n
		if !w.advance(s) {
			return
		}
		if s.state == stateWriting {
			return
		}
	}
}

// handleWritable resumes a stalled response drain.
func (w *Worker) handleWritable(s *Session) {
	if s.state != stateWriting {
		return
	}
	if !w.flush(s) {
		return
	}
	if s.state == stateWriting {
		return
	}
	if !w.completeRequest(s) {
		return
	}
	w.advance(s)
}

// advance parses and serves every complete pipelined request sitting in
// the buffer. Returns false when the session was closed.
func (w *Worker) advance(s *Session) bool {
	for {
		consumed, err := s.parser.Parse(s.buf[:s.off])
		if err != nil {
			// Parse errors (including arena exhaustion) close the
			// connection without a response.
			w.stats.ParseErrors.Add(1)
			w.closeSession(s)
			return false
		}
		if !s.parser.Complete() {
			return true
		}
		s.consumed = consumed

		w.dispatch(s)

		s.pending = s.ser.Vectors()
		s.state = stateWriting
		if !w.flush(s) {
			return false
		}
		if s.state == stateWriting {
			return true
		}
		if !w.completeRequest(s) {
			return false
		}
		if s.off == 0 {
			return true
		}
	}
}

// dispatch routes the parsed request and fills the response header.
// A single switch on the verb: GET serves from the file cache, the
// rest fail with 400.
func (w *Worker) dispatch(s *Session) {
	w.stats.Requests.Add(1)
	s.keepAlive = s.parser.KeepAlive()

	s.resp = http.ResponseHeader{
		Version:   s.parser.Version(),
		KeepAlive: s.keepAlive,
	}

	switch s.parser.Verb() {
	case http.VerbGet:
		target := s.parser.Target()
		if !validTarget(target) {
			w.respondNotFound(s)
			break
		}
		f := w.cache.Get(target)
		if f == nil {
			w.respondNotFound(s)
			break
		}
		w.stats.StatusOK.Add(1)
		s.resp.Status = 200
		s.resp.ContentType = http.ContentTypeLine(target)
		s.resp.Body = f.Data
	default:
		w.stats.StatusBadRequest.Add(1)
		s.resp.Status = 400
		s.resp.ContentType = http.ErrorContentTypeLine()
		s.resp.Body = bodyInvalidMethod
	}

	s.ser.Reset(&s.resp)
}

func (w *Worker) respondNotFound(s *Session) {
	w.stats.StatusNotFound.Add(1)
	s.resp.Status = 404
	s.resp.ContentType = http.ErrorContentTypeLine()
	s.resp.Body = bodyFileNotFound
}

// validTarget rejects empty targets, targets without a leading '/',
// and any target containing "..". The substring check is deliberately
// not a path-segment check: "/foo..bar" is rejected too.
func validTarget(target []byte) bool {
	return len(target) > 0 && target[0] == '/' &&
		!bytes.Contains(target, dotDot)
}

// flush pushes the pending vectors with gathered writes until done or
// EAGAIN. Returns false when the session was closed on a write error.
func (w *Worker) flush(s *Session) bool {
	for {
		n, err := unix.Writev(s.fd, s.pending)
		if err == unix.EINTR {
			continue
		}
		if err == unix.EAGAIN {
			if !s.writeArmed {
				s.writeArmed = true
				w.poller.ModWrite(s.fd)
			}
			return true
		}
		if err != nil {
			logx.Errorf("Write error: %v", err)
			w.stats.WriteErrors.Add(1)
			w.closeSession(s)
			return false
		}

		s.pending = consumeVectors(s.pending, n)
		if len(s.pending) == 0 {
			s.state = stateReading
			if s.writeArmed {
				s.writeArmed = false
				w.poller.ModRead(s.fd)
			}
			return true
		}
	}
}

// consumeVectors drops n written bytes off the front of vecs.
func consumeVectors(vecs [][]byte, n int) [][]byte {
	for len(vecs) > 0 {
		if n < len(vecs[0]) {
			vecs[0] = vecs[0][n:]
			break
		}
		n -= len(vecs[0])
		vecs = vecs[1:]
	}
	return vecs
}

// completeRequest recycles per-request state after a response has been
// fully written. Returns false when the connection was closed instead
// of kept alive.
func (w *Worker) completeRequest(s *Session) bool {
	if !s.keepAlive {
		w.closeSession(s)
		return false
	}

	// Preserve pipelined residue, then rewind everything per-request:
	// the next request's arena allocations start at offset zero.
	copy(s.buf, s.buf[s.consumed:s.off])
	s.off -= s.consumed
	s.consumed = 0
	s.arena.Reset()
	s.parser.Reset()
	return true
}

// closeSession tears the connection down and recycles its resources.
func (w *Worker) closeSession(s *Session) {
	_ = w.poller.Remove(s.fd)
	_ = unix.Close(s.fd)
	delete(w.sessions, s.fd)

	w.bufPool.Release(s.buf)
	s.buf = nil
	w.sessionPool.Release(s)
	w.stats.Closed.Add(1)
}
