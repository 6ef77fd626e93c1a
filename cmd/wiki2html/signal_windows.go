//go:build windows

package main

import "os"

// shutdownSignals cancel a running render or dump.
// syscall.SIGTERM is not delivered on Windows.
var shutdownSignals = []os.Signal{os.Interrupt}
