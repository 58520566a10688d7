// replay feeds a recorded score trace through the trigger gate, so gate
// settings can be tuned offline against real captures.
//
// Input is CSV with one sample per line: seconds,score
// Lines starting with '#' and the optional header line are skipped.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/gazekit/gazescroll/pkg/gaze"
)

func main() {
	threshold := flag.Float64("threshold", gaze.DefaultConfig().RollThreshold, "Roll score threshold")
	frames := flag.Int("frames", gaze.DefaultConfig().FramesRequired, "Consecutive qualifying frames required")
	debounce := flag.Float64("debounce", gaze.DefaultConfig().DebounceSeconds, "Seconds between fires")
	verbose := flag.Bool("v", false, "Print every sample, not just fires")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: replay [flags] trace.csv  (use - for stdin)")
		flag.PrintDefaults()
		os.Exit(2)
	}

	in, err := openTrace(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "replay: %v\n", err)
		os.Exit(1)
	}
	defer in.Close()

	cfg := gaze.DefaultConfig()
	cfg.RollThreshold = *threshold
	cfg.FramesRequired = *frames
	cfg.DebounceSeconds = *debounce

	fires, samples, err := replay(in, cfg, *verbose, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "replay: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%d samples, %d fires (threshold=%.2f frames=%d debounce=%.1fs)\n",
		samples, fires, cfg.RollThreshold, cfg.FramesRequired, cfg.DebounceSeconds)
}

func openTrace(arg string) (io.ReadCloser, error) {
	if arg == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(arg)
}

// replay runs every sample through a fresh gate and reports fires.
func replay(in io.Reader, cfg gaze.Config, verbose bool, out io.Writer) (fires, samples int, err error) {
	gate := gaze.NewGate(cfg)
	scanner := bufio.NewScanner(in)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		now, score, perr := parseSample(line)
		if perr != nil {
			if lineNo == 1 {
				// Header line.
				continue
			}
			return fires, samples, fmt.Errorf("line %d: %v", lineNo, perr)
		}

		samples++
		fired := gate.ShouldTrigger(score, now)
		if fired {
			fires++
			fmt.Fprintf(out, "%10.3fs  score=%.3f  FIRE #%d\n", now, score, fires)
		} else if verbose {
			fmt.Fprintf(out, "%10.3fs  score=%.3f  pending=%d\n", now, score, gate.Pending())
		}
	}
	return fires, samples, scanner.Err()
}

func parseSample(line string) (now, score float64, err error) {
	parts := strings.SplitN(line, ",", 3)
	if len(parts) < 2 {
		return 0, 0, fmt.Errorf("want seconds,score got %q", line)
	}
	now, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("bad seconds %q", parts[0])
	}
	score, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("bad score %q", parts[1])
	}
	return now, score, nil
}
