package core

import (
	"runtime"

	"golang.org/x/sys/unix"

	"github.com/djarek/fastbeast/core/fcache"
	"github.com/djarek/fastbeast/core/logx"
	"github.com/djarek/fastbeast/core/poller"
	"github.com/djarek/fastbeast/core/pools"
)

// Worker is one reactor thread: its own listener, its own poller, and
// strictly thread-local pools and caches. Connections never migrate
// between workers; the kernel's SO_REUSEPORT balancing is the only
// cross-worker coordination.
type Worker struct {
	id       int
	listenFd int
	poller   poller.Poller
	sessions map[int]*Session

	sessionPool *pools.SessionPool
	bufPool     *pools.BufferPool
	cache       *fcache.Cache

	events     []poller.Event
	acceptOpen bool
	stats      *WorkerStats
}

func newWorker(id, listenFd int, root string) *Worker {
	return &Worker{
		id:       id,
		listenFd: listenFd,
		sessions: make(map[int]*Session, 1024),
		sessionPool: pools.NewSessionPool(func() pools.Poolable {
			return newSession()
		}),
		bufPool:    pools.NewBufferPool(ReadBufferSize),
		cache:      fcache.New(root),
		events:     make([]poller.Event, 0, 256),
		acceptOpen: true,
		stats:      &WorkerStats{},
	}
}

// run drives the reactor until the process dies. The goroutine is
// pinned to its OS thread so the thread-local model holds.
func (w *Worker) run() {
	runtime.LockOSThread()

	p, err := poller.NewPoller()
	if err != nil {
		logx.Errorf("worker %d: poller: %v", w.id, err)
		return
	}
	w.poller = p

	if err := w.poller.Add(w.listenFd); err != nil {
		logx.Errorf("worker %d: register listener: %v", w.id, err)
		return
	}

	for {
		w.events, err = w.poller.Wait(w.events[:0], -1)
		if err != nil {
			logx.Errorf("worker %d: poller wait: %v", w.id, err)
			continue
		}

		for _, ev := range w.events {
			if ev.Fd == w.listenFd {
				if w.acceptOpen {
					w.accept()
				}
				continue
			}
			if ev.Writable {
				if s, ok := w.sessions[ev.Fd]; ok {
					w.handleWritable(s)
				}
			}
			if ev.Readable {
				if s, ok := w.sessions[ev.Fd]; ok {
					w.handleReadable(s)
				}
			}
		}
	}
}

// accept drains the listener queue, spawning a session per connection.
// On a real accept error the worker's accept loop terminates; existing
// connections keep being served.
func (w *Worker) accept() {
	for {
		nfd, _, err := unix.Accept(w.listenFd)
		if err == unix.EINTR {
			continue
		}
		if err == unix.EAGAIN {
			return
		}
		if err != nil {
			logx.Errorf("Accept error: %v", err)
			w.stats.AcceptErrors.Add(1)
			w.acceptOpen = false
			_ = w.poller.Remove(w.listenFd)
			return
		}

		if err := unix.SetNonblock(nfd, true); err != nil {
			unix.Close(nfd)
			continue
		}
		unix.CloseOnExec(nfd)

		// Responses go out in one gathered write; never let Nagle hold
		// them back.
		_ = unix.SetsockoptInt(nfd, unix.IPPROTO_TCP, unix.TCP_NODELAY, 1)

		buf, err := w.bufPool.Acquire(ReadBufferSize)
		if err != nil {
			unix.Close(nfd)
			continue
		}

		s := w.sessionPool.Acquire().(*Session)
		s.attach(nfd, buf)

		if err := w.poller.Add(nfd); err != nil {
			s.buf = nil
			w.bufPool.Release(buf)
			w.sessionPool.Release(s)
			unix.Close(nfd)
			continue
		}

		w.sessions[nfd] = s
		w.stats.Accepted.Add(1)
	}
}

// Snapshot collects this worker's counters and pool statistics.
func (w *Worker) Snapshot() WorkerSnapshot {
	snap := w.stats.snapshot()
	snap.Worker = w.id

	gets, puts, hit := w.sessionPool.Stats()
	snap.SessionPool = PoolSnapshot{Gets: gets, Puts: puts, HitRate: hit}
	gets, puts, hit = w.bufPool.Stats()
	snap.BufferPool = PoolSnapshot{Gets: gets, Puts: puts, HitRate: hit}

	opens, bytes := w.cache.Stats()
	snap.MappedFiles = opens
	snap.MappedBytes = bytes
	return snap
}
