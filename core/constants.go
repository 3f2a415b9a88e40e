package core

// ReadBufferSize is the persistent per-connection read buffer. Flat,
// recycled through the worker's buffer pool, and comfortably above the
// parser's 8KB header limit.
const ReadBufferSize = 16 * 1024

// listenBacklog bounds each worker's listener queue. With one listener
// per worker the effective process backlog is workers * listenBacklog.
const listenBacklog = 1024

// Synthesized response bodies.
var (
	bodyFileNotFound  = []byte("File not found\r\n")
	bodyInvalidMethod = []byte("Invalid request-method\r\n")
)

// dotDot is the traversal guard substring; any target containing it is
// rejected outright.
var dotDot = []byte("..")
