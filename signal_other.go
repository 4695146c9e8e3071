//go:build !unix

package main

import "os"

var ignoreSignals []os.Signal

var hangupSignals = []os.Signal{
	os.Interrupt,
}
