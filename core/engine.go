package core

import (
	"fmt"
	"net"
	"runtime"

	"golang.org/x/sys/unix"

	"github.com/djarek/fastbeast/core/logx"
	"github.com/djarek/fastbeast/core/pools"
)

// Engine is the static-file server: N reactor workers, each with an
// independent listener bound to the same endpoint via SO_REUSEPORT.
// The kernel distributes incoming connections across the listeners, so
// workers never coordinate.
type Engine struct {
	addr       string
	root       string
	numWorkers int

	workers   []*Worker
	boundIP   net.IP
	boundPort int
	started   bool
}

// NewEngine creates an engine serving files under root on addr.
// numWorkers <= 0 selects half the hardware concurrency, minimum one,
// matching the thread budget the workload saturates a machine with.
func NewEngine(addr, root string, numWorkers int) *Engine {
	if addr == "" {
		addr = "0.0.0.0:8080"
	}
	if root == "" {
		root = "."
	}
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU() / 2
		if numWorkers < 1 {
			numWorkers = 1
		}
	}
	return &Engine{
		addr:       addr,
		root:       root,
		numWorkers: numWorkers,
	}
}

// Start binds all listeners and launches the workers. It returns once
// every listener is bound and listening and every worker goroutine has
// been started; it does not wait for the workers to register with their
// pollers, and it does not block.
func (e *Engine) Start() error {
	if e.started {
		return fmt.Errorf("engine already started")
	}

	pools.OptimizeForHighThroughput()

	ip, port, err := resolveAddr(e.addr)
	if err != nil {
		return err
	}

	// The first bind resolves port 0 to a real port; the remaining
	// listeners must share that exact port for the kernel to balance
	// across them.
	fds := make([]int, 0, e.numWorkers)
	for i := 0; i < e.numWorkers; i++ {
		fd, bound, err := newListenFd(ip, port)
		if err != nil {
			for _, old := range fds {
				unix.Close(old)
			}
			return fmt.Errorf("bind worker %d: %w", i, err)
		}
		fds = append(fds, fd)
		port = bound
	}
	e.boundIP = net.IPv4(ip[0], ip[1], ip[2], ip[3])
	e.boundPort = port

	e.workers = make([]*Worker, e.numWorkers)
	for i := 0; i < e.numWorkers; i++ {
		w := newWorker(i, fds[i], e.root)
		e.workers[i] = w
		go w.run()
	}

	e.started = true
	logx.Infof("FastBeast serving %s on %s with %d workers", e.root, e.BoundAddr(), e.numWorkers)
	return nil
}

// Run starts the engine and blocks forever. The process only exits on
// unrecoverable failure, which Start reports.
func (e *Engine) Run() error {
	if err := e.Start(); err != nil {
		return err
	}
	select {}
}

// BoundAddr reports the resolved listen address, useful when the
// configured port was 0.
func (e *Engine) BoundAddr() string {
	return net.JoinHostPort(e.boundIP.String(), fmt.Sprintf("%d", e.boundPort))
}

// resolveAddr parses "host:port" into an IPv4 address and port.
func resolveAddr(addr string) ([4]byte, int, error) {
	var ip4 [4]byte
	tcp, err := net.ResolveTCPAddr("tcp4", addr)
	if err != nil {
		return ip4, 0, fmt.Errorf("resolve %q: %w", addr, err)
	}
	if v4 := tcp.IP.To4(); v4 != nil {
		copy(ip4[:], v4)
	}
	return ip4, tcp.Port, nil
}

// newListenFd creates one worker's listener: SO_REUSEPORT is set
// before bind so every worker can own the same endpoint.
func newListenFd(ip [4]byte, port int) (fd, boundPort int, err error) {
	fd, err = unix.Socket(unix.AF_INET, unix.SOCK_STREAM, 0)
	if err != nil {
		return -1, 0, err
	}

	closeOnErr := func(e error) (int, int, error) {
		unix.Close(fd)
		return -1, 0, e
	}

	if err = unix.SetNonblock(fd, true); err != nil {
		return closeOnErr(err)
	}
	unix.CloseOnExec(fd)

	if err = unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		return closeOnErr(err)
	}
	if err = unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEPORT, 1); err != nil {
		return closeOnErr(err)
	}

	sa := &unix.SockaddrInet4{Port: port, Addr: ip}
	if err = unix.Bind(fd, sa); err != nil {
		return closeOnErr(err)
	}
	if err = unix.Listen(fd, listenBacklog); err != nil {
		return closeOnErr(err)
	}

	name, err := unix.Getsockname(fd)
	if err != nil {
		return closeOnErr(err)
	}
	bound, ok := name.(*unix.SockaddrInet4)
	if !ok {
		return closeOnErr(fmt.Errorf("unexpected sockaddr %T", name))
	}
	return fd, bound.Port, nil
}
