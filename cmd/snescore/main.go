// Package main implements the snescore headless driver: load a ROM,
// run it for a bounded number of frames under an optional trace
// filter, and report the result. There is no GUI, audio playback, or
// ROM file picker here — those are out of this module's scope.
package main

import (
	"flag"
	"fmt"
	"os"

	"snescore/internal/debug"
	"snescore/internal/system"
	"snescore/internal/version"
)

func main() {
	var (
		romPath     = flag.String("rom", "", "path to a .sfc ROM image")
		frames      = flag.Int("frames", 60, "number of frames to run")
		traceFilter = flag.String("trace", "", "debugger trace filter expression")
		showVersion = flag.Bool("version", false, "print version information and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Println(version.GetBuildInfo())
		return
	}

	if *romPath == "" {
		fmt.Fprintln(os.Stderr, "snescore: -rom is required")
		flag.Usage()
		os.Exit(2)
	}

	data, err := os.ReadFile(*romPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "snescore: %v\n", err)
		os.Exit(1)
	}

	s, err := system.New(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "snescore: %v\n", err)
		os.Exit(1)
	}

	if *traceFilter != "" {
		f, err := debug.Compile(*traceFilter)
		if err != nil {
			fmt.Fprintf(os.Stderr, "snescore: bad trace filter: %v\n", err)
			os.Exit(2)
		}
		s.Dbg.SetFilter(f)
		s.Dbg.EnableLogging(true)
	}

	result := s.ExecuteFrames(*frames)

	fmt.Printf("ran %d frames, outcome=%v\n", *frames, result.Outcome)
	if result.Outcome == system.Break {
		fmt.Printf("break: %s\n", result.Break.Event)
	}
}
