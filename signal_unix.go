//go:build unix

package main

import (
	"os"

	"golang.org/x/sys/unix"
)

var ignoreSignals = []os.Signal{
	unix.SIGPIPE,
}

var hangupSignals = []os.Signal{
	unix.SIGINT,
	unix.SIGTERM,
	unix.SIGHUP,
}
