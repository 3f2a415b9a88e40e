// Package logx holds the two process-global log sinks: info lines on
// stdout, error lines on stderr. Every message is assembled into a
// single line and handed to the stream in one Write, so concurrent
// workers interleave whole lines, never fragments.
package logx

import (
	"log"
	"os"
)

var (
	infoLog  = log.New(os.Stdout, "", log.LstdFlags)
	errorLog = log.New(os.Stderr, "", log.LstdFlags)
)

// Infof writes one line to the info stream.
func Infof(format string, v ...any) {
	infoLog.Printf(format, v...)
}

// Errorf writes one line to the error stream.
func Errorf(format string, v ...any) {
	errorLog.Printf(format, v...)
}

// Fatalf writes one line to the error stream and exits. Startup paths
// only; nothing on the serving path is allowed to kill the process.
func Fatalf(format string, v ...any) {
	errorLog.Fatalf(format, v...)
}
