//go:build darwin

package poller

import (
	"golang.org/x/sys/unix"
)

// KqueuePoller is a kqueue-based I/O multiplexer
type KqueuePoller struct {
	kqfd   int
	events []unix.Kevent_t
}

// NewPoller creates a new Poller (macOS)
func NewPoller() (Poller, error) {
	kqfd, err := unix.Kqueue()
	if err != nil {
		return nil, err
	}

	return &KqueuePoller{
		kqfd:   kqfd,
		events: make([]unix.Kevent_t, 1024),
	}, nil
}

func (p *KqueuePoller) change(fd int, filter int16, flags uint16) error {
	ev := unix.Kevent_t{
		Ident:  uint64(fd),
		Filter: filter,
		Flags:  flags,
	}
	_, err := unix.Kevent(p.kqfd, []unix.Kevent_t{ev}, nil, nil)
	return err
}

// Add adds a file descriptor to the watch list with read interest.
// Level-triggered (no EV_CLEAR) for the same reason as the epoll side.
func (p *KqueuePoller) Add(fd int) error {
	return p.change(fd, unix.EVFILT_READ, unix.EV_ADD|unix.EV_ENABLE)
}

// ModWrite switches fd to write-only interest.
func (p *KqueuePoller) ModWrite(fd int) error {
	if err := p.change(fd, unix.EVFILT_READ, unix.EV_DISABLE); err != nil {
		return err
	}
	return p.change(fd, unix.EVFILT_WRITE, unix.EV_ADD|unix.EV_ENABLE)
}

// ModRead switches fd back to read-only interest.
func (p *KqueuePoller) ModRead(fd int) error {
	if err := p.change(fd, unix.EVFILT_WRITE, unix.EV_DELETE); err != nil {
		return err
	}
	return p.change(fd, unix.EVFILT_READ, unix.EV_ENABLE)
}

// Remove removes a file descriptor from the watch list. The write
// filter, if armed, dies with the descriptor on close.
func (p *KqueuePoller) Remove(fd int) error {
	return p.change(fd, unix.EVFILT_READ, unix.EV_DELETE)
}

// Wait waits for I/O events
func (p *KqueuePoller) Wait(events []Event, timeout int) ([]Event, error) {
	var ts *unix.Timespec
	if timeout >= 0 {
		t := unix.NsecToTimespec(int64(timeout) * 1e6)
		ts = &t
	}

	n, err := unix.Kevent(p.kqfd, nil, p.events, ts)
	if err != nil && err != unix.EINTR {
		return events, err
	}
	if n <= 0 {
		return events, nil
	}

	for i := 0; i < n; i++ {
		ev := p.events[i]
		events = append(events, Event{
			Fd:       int(ev.Ident),
			Readable: ev.Filter == unix.EVFILT_READ,
			Writable: ev.Filter == unix.EVFILT_WRITE,
			Closed:   ev.Flags&unix.EV_EOF != 0,
		})
	}
	return events, nil
}

// Close closes the Poller
func (p *KqueuePoller) Close() error {
	return unix.Close(p.kqfd)
}
