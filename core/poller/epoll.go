//go:build linux

package poller

import (
	"golang.org/x/sys/unix"
)

// EpollPoller is an epoll-based I/O multiplexer
type EpollPoller struct {
	epfd   int
	events []unix.EpollEvent
}

// NewPoller creates a new Poller (Linux)
func NewPoller() (Poller, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, err
	}

	return &EpollPoller{
		epfd:   epfd,
		events: make([]unix.EpollEvent, 1024),
	}, nil
}

func (p *EpollPoller) ctl(op, fd int, events uint32) error {
	ev := unix.EpollEvent{
		Events: events,
		Fd:     int32(fd),
	}
	return unix.EpollCtl(p.epfd, op, fd, &ev)
}

// Add adds a file descriptor to the watch list with read interest.
// Level-triggered: a session that leaves bytes in the kernel buffer
// (pipelined requests) gets woken again without re-arming.
func (p *EpollPoller) Add(fd int) error {
	return p.ctl(unix.EPOLL_CTL_ADD, fd, unix.EPOLLIN|unix.EPOLLRDHUP)
}

// ModWrite switches fd to write-only interest. EPOLLRDHUP stays armed
// so a peer disappearing mid-drain still surfaces.
func (p *EpollPoller) ModWrite(fd int) error {
	return p.ctl(unix.EPOLL_CTL_MOD, fd, unix.EPOLLOUT|unix.EPOLLRDHUP)
}

// ModRead switches fd back to read-only interest.
func (p *EpollPoller) ModRead(fd int) error {
	return p.ctl(unix.EPOLL_CTL_MOD, fd, unix.EPOLLIN|unix.EPOLLRDHUP)
}

// Remove removes a file descriptor from the watch list
func (p *EpollPoller) Remove(fd int) error {
	return unix.EpollCtl(p.epfd, unix.EPOLL_CTL_DEL, fd, nil)
}

// Wait waits for I/O events
func (p *EpollPoller) Wait(events []Event, timeout int) ([]Event, error) {
	n, err := unix.EpollWait(p.epfd, p.events, timeout)
	if err != nil && err != unix.EINTR {
		return events, err
	}
	if n <= 0 {
		return events, nil
	}

	for i := 0; i < n; i++ {
		ev := p.events[i]
		// Error conditions surface as both readable and writable so a
		// session blocked in either direction observes the failure on
		// its next syscall.
		events = append(events, Event{
			Fd:       int(ev.Fd),
			Readable: ev.Events&(unix.EPOLLIN|unix.EPOLLERR|unix.EPOLLHUP) != 0,
			Writable: ev.Events&(unix.EPOLLOUT|unix.EPOLLERR|unix.EPOLLHUP) != 0,
			Closed:   ev.Events&(unix.EPOLLRDHUP|unix.EPOLLHUP) != 0,
		})
	}
	return events, nil
}

// Close closes the Poller
func (p *EpollPoller) Close() error {
	return unix.Close(p.epfd)
}
