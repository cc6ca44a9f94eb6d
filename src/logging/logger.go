// Package logging wires a structured logr.Logger console sink, the
// one place in the module that touches the logging library directly.
// Every other package accepts a logr.Logger and calls Info/Error on
// it, the way the teacher's middleware and main called log.Printf.
package logging

import (
	"fmt"
	"os"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
)

// New returns a console logger that writes one line per record to
// stderr, timestamped the way the original request-logging middleware
// did.
func New(name string) logr.Logger {
	sink := funcr.New(func(prefix, args string) {
		ts := time.Now().Format(time.RFC3339)
		if prefix != "" {
			fmt.Fprintf(os.Stderr, "%s %s: %s\n", ts, prefix, args)
			return
		}
		fmt.Fprintf(os.Stderr, "%s %s\n", ts, args)
	}, funcr.Options{})
	return sink.WithName(name)
}
