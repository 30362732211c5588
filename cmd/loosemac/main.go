// Command loosemac reads a LooseMAC input description from standard input
// and simulates the protocol to convergence, per spec.md section 6.
//
// Grounded on the teacher's examples/server/server.go and grpc/server.go
// command-line entry points: package-level flag vars, a Usage function
// writing to os.Stderr, and log.Fatalf for unrecoverable setup errors.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"loosemac/engine"
	"loosemac/graph"
	"loosemac/report"
)

var (
	help     = flag.Bool("help", false, "Show usage help")
	maxTicks = flag.Int("max-ticks", 0, "Abort with a non-convergence report after this many ticks (0 = unbounded)")
	seed     = flag.Int64("seed", 1, "Seed for the deterministic random slot draws")
	verbose  = flag.Bool("verbose", false, "Write the per-tick status report to stderr")
	quiet    = flag.Bool("quiet", false, "Suppress the event trace on stdout")
)

// Usage prints usage info.
func Usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS] < input\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "\nReads a LooseMAC graph description from standard input and simulates it to convergence.\n")
	fmt.Fprintf(os.Stderr, "\nOptions:\n")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = Usage
	flag.Parse()
	if *help {
		flag.Usage()
		return
	}

	spec, err := graph.Load(os.Stdin)
	if err != nil {
		log.Fatalf("loosemac: failed to load input: %v", err)
	}

	opts := []engine.Option{
		engine.WithSeed(*seed),
		engine.WithMaxTicks(*maxTicks),
	}
	if !*quiet {
		opts = append(opts, engine.WithTrace(os.Stdout))
	}
	if *verbose {
		opts = append(opts, engine.WithStatusWriter(os.Stderr))
	}

	eng := engine.New(spec, opts...)
	result, err := eng.Run()
	if err != nil {
		var nonConv *engine.NonConvergenceError
		if errors.As(err, &nonConv) {
			status := report.NewStatus(os.Stderr)
			status.Write(nonConv.Tick, eng.Nodes())
			log.Fatalf("loosemac: %v", err)
		}
		log.Fatalf("loosemac: simulation failed: %v", err)
	}

	fmt.Fprintf(os.Stdout, "converged after %d ticks\n", result.Ticks)
}
