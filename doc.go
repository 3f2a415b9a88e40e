// Package fastbeast is a single-purpose static-file HTTP/1.1 server
// built for maximum throughput on one machine.
//
// Each worker thread owns an independent reactor and an independent
// listener bound to the same port via SO_REUSEPORT; the kernel spreads
// connections across them. A connection is served by a per-worker state
// machine whose request memory comes from a bump arena that is reset
// between keep-alive requests, and whose response bodies borrow bytes
// straight out of memory-mapped files, written with one gathered
// writev per response.
//
//	fastbeast -addr 0.0.0.0:8080 -root /srv/www
//
// See the cmd/fastbeast binary for the full option surface.
package fastbeast
