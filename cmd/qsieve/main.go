package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/bfix/qsieve/logger"
	"github.com/bfix/qsieve/qsieve"
)

func main() {
	var (
		verbose bool
		logfile string
	)
	flag.BoolVar(&verbose, "v", false, "Show sieve and solver progress on stderr")
	flag.StringVar(&logfile, "log", "", "Write log messages to file instead of stderr")
	flag.Parse()

	if len(logfile) > 0 {
		logger.LogToFile(logfile)
	}
	if !verbose {
		logger.SetLogLevel(logger.WARN)
	} else {
		watchProgress()
	}

	args := flag.Args()
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: qsieve <N>")
		os.Exit(2)
	}

	factors, err := qsieve.Factorize(args[0])
	if err != nil {
		fmt.Printf("ERROR: %s\n", describeError(err))
		os.Exit(1)
	}

	parts := make([]string, len(factors))
	for i, f := range factors {
		parts[i] = f.String()
	}
	fmt.Printf("SUCCESS: [%s]\n", strings.Join(parts, ", "))
	if len(factors) == 2 {
		fmt.Printf("%s * %s = %s\n", factors[0], factors[1], factors[0].Mul(factors[1]))
	}
}

// watchProgress subscribes to qsieve.Progress and prints each attempt
// round as it completes, independently of the package's own logger
// lines; the goroutine is never stopped, it just dies with the process.
func watchProgress() {
	listener, err := qsieve.Progress.Listener()
	if err != nil {
		return
	}
	go func() {
		for sig := range listener.Signal() {
			ev, ok := sig.(qsieve.ProgressEvent)
			if !ok {
				continue
			}
			fmt.Fprintf(os.Stderr, "[progress] attempt %d: %d/%d relations (factor base %d)\n",
				ev.Attempt, ev.RelationsFound, ev.RelationsWant, ev.FactorBaseSize)
		}
	}()
}

// describeError strips the sentinel wrapper down to the message the
// CLI contract promises: ErrPrime and ErrParse carry their own
// complete sentence, everything else is reported as-is.
func describeError(err error) string {
	switch {
	case errors.Is(err, qsieve.ErrPrime):
		return qsieve.ErrPrime.Error()
	default:
		return err.Error()
	}
}
