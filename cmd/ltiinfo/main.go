// Command ltiinfo prints design and analysis summaries for LTI filter
// families.
//
// Usage:
//
//	ltiinfo [flags] [family-name ...]
//
// Without arguments it prints info for all known families.
//
// Examples:
//
//	ltiinfo lowpass
//	ltiinfo -cutoff 250 -order 4 lowpass highpass
//	ltiinfo -low 100 -high 300 bandpass
//	ltiinfo -list
package main

import (
	"flag"
	"fmt"
	"math"
	"math/cmplx"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/algo-lti/core"
	"github.com/cwbudde/algo-lti/spectrum"
	"github.com/cwbudde/algo-lti/system"
)

type familyEntry struct {
	name string
	spec func(f flags) system.FamilySpec
}

type flags struct {
	cutoff float64
	low    float64
	high   float64
	order  int
	window int
	alpha  float64
	beta   float64
	points int
}

var registry = []familyEntry{
	{"lowpass", func(f flags) system.FamilySpec {
		return system.LowpassParams{Cutoff: f.cutoff, Order: f.order}
	}},
	{"highpass", func(f flags) system.FamilySpec {
		return system.HighpassParams{Cutoff: f.cutoff, Order: f.order}
	}},
	{"bandpass", func(f flags) system.FamilySpec {
		return system.BandpassParams{LowCut: f.low, HighCut: f.high, Order: f.order}
	}},
	{"moving-average", func(f flags) system.FamilySpec {
		return system.MovingAverageParams{Window: f.window}
	}},
	{"differentiator", func(f flags) system.FamilySpec {
		return system.DifferentiatorParams{Alpha: f.alpha}
	}},
	{"integrator", func(f flags) system.FamilySpec {
		return system.IntegratorParams{Beta: f.beta}
	}},
}

func main() {
	rate := flag.Float64("rate", 1000, "sample rate in Hz")
	cutoff := flag.Float64("cutoff", 100, "cutoff frequency in Hz (lowpass, highpass)")
	low := flag.Float64("low", 50, "lower band edge in Hz (bandpass)")
	high := flag.Float64("high", 200, "upper band edge in Hz (bandpass)")
	order := flag.Int("order", 2, "filter order per band edge")
	window := flag.Int("window", 8, "window length in samples (moving-average)")
	alpha := flag.Float64("alpha", system.DefaultDifferentiatorAlpha, "leak coefficient (differentiator)")
	beta := flag.Float64("beta", system.DefaultIntegratorBeta, "leak coefficient (integrator)")
	points := flag.Int("points", 0, "print the magnitude response in dB at this many frequencies (0 disables)")
	list := flag.Bool("list", false, "list available family names")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: ltiinfo [flags] [family-name ...]\n\n")
		fmt.Fprintf(os.Stderr, "Prints design and analysis summaries for LTI filter families.\n")
		fmt.Fprintf(os.Stderr, "Without arguments, prints info for all families.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  ltiinfo lowpass highpass\n")
		fmt.Fprintf(os.Stderr, "  ltiinfo -cutoff 250 -order 4 lowpass\n")
		fmt.Fprintf(os.Stderr, "  ltiinfo -low 100 -high 300 bandpass\n")
		fmt.Fprintf(os.Stderr, "  ltiinfo -points 9 lowpass\n")
		fmt.Fprintf(os.Stderr, "  ltiinfo -list\n")
	}
	flag.Parse()

	if *list {
		printList()
		return
	}

	f := flags{
		cutoff: *cutoff,
		low:    *low,
		high:   *high,
		order:  *order,
		window: *window,
		alpha:  *alpha,
		beta:   *beta,
		points: *points,
	}

	names := flag.Args()
	if len(names) == 0 {
		for _, e := range registry {
			names = append(names, e.name)
		}
	}

	entries := resolveEntries(names)
	if len(entries) == 0 {
		fmt.Fprintf(os.Stderr, "error: no matching filter families\n")
		os.Exit(1)
	}

	analyzer := system.NewAnalyzer(core.WithSampleRate(*rate))
	if err := printAnalysis(analyzer, entries, f); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func printList() {
	names := make([]string, len(registry))
	for i, e := range registry {
		names[i] = e.name
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Println(n)
	}
}

func resolveEntries(names []string) []familyEntry {
	byName := make(map[string]familyEntry, len(registry))
	for _, e := range registry {
		byName[e.name] = e
	}

	var result []familyEntry
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		e, ok := byName[name]
		if !ok {
			fmt.Fprintf(os.Stderr, "warning: unknown family %q (use -list to see available)\n", name)
			continue
		}
		result = append(result, e)
	}
	return result
}

func printAnalysis(analyzer *system.Analyzer, entries []familyEntry, f flags) error {
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Family\tOrder\tStability\tDC Gain\tDC Gain [dB]\tMax |Pole|\tPoles\tZeros\n")
	fmt.Fprintf(tw, "------\t-----\t---------\t-------\t------------\t----------\t-----\t-----\n")

	for _, e := range entries {
		tf, err := analyzer.Build(e.spec(f))
		if err != nil {
			return fmt.Errorf("%s: %v", e.name, err)
		}
		verdict, poles, err := analyzer.Stability(tf)
		if err != nil {
			return fmt.Errorf("%s: %v", e.name, err)
		}
		zeros, err := tf.Zeros()
		if err != nil {
			return fmt.Errorf("%s: %v", e.name, err)
		}

		maxPole := 0.0
		for _, p := range poles {
			if m := cmplx.Abs(p); m > maxPole {
				maxPole = m
			}
		}

		gain := cmplx.Abs(tf.DCGain())
		fmt.Fprintf(tw, "%s\t%d\t%s\t%.6f\t%.2f\t%.6f\t%s\t%s\n",
			e.name,
			tf.Order(),
			verdict,
			gain,
			core.LinearToDB(gain),
			maxPole,
			formatRoots(poles),
			formatRoots(zeros),
		)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flush output: %v", err)
	}

	if f.points > 0 {
		fmt.Println()
		if err := printResponses(analyzer, entries, f); err != nil {
			return err
		}
	}

	fmt.Println()
	return printCoefficients(analyzer, entries, f)
}

// printResponses prints the magnitude response in dB over f.points
// frequencies spanning [0, Nyquist], one row per frequency.
func printResponses(analyzer *system.Analyzer, entries []familyEntry, f flags) error {
	const floorDB = -300

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Frequency [Hz]")
	for _, e := range entries {
		fmt.Fprintf(tw, "\t%s [dB]", e.name)
	}
	fmt.Fprintln(tw)

	freqs := analyzer.FrequencyAxis(f.points)
	columns := make([][]float64, len(entries))
	for i, e := range entries {
		tf, err := analyzer.Build(e.spec(f))
		if err != nil {
			return fmt.Errorf("%s: %v", e.name, err)
		}
		fr, err := analyzer.FrequencyResponse(tf, freqs)
		if err != nil {
			return fmt.Errorf("%s: %v", e.name, err)
		}
		columns[i] = spectrum.MagnitudeDB(fr.Magnitude, floorDB)
	}

	for k, freq := range freqs {
		fmt.Fprintf(tw, "%.2f", freq)
		for _, col := range columns {
			fmt.Fprintf(tw, "\t%.2f", col[k])
		}
		fmt.Fprintln(tw)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flush output: %v", err)
	}
	return nil
}

func printCoefficients(analyzer *system.Analyzer, entries []familyEntry, f flags) error {
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Family\tNumerator\tDenominator\n")
	fmt.Fprintf(tw, "------\t---------\t-----------\n")

	for _, e := range entries {
		tf, err := analyzer.Build(e.spec(f))
		if err != nil {
			return fmt.Errorf("%s: %v", e.name, err)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.name, formatCoeffs(tf.Num), formatCoeffs(tf.Den))
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flush output: %v", err)
	}
	return nil
}

func formatCoeffs(coeffs []float64) string {
	parts := make([]string, len(coeffs))
	for i, c := range coeffs {
		parts[i] = fmt.Sprintf("%.5g", c)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func formatRoots(roots []complex128) string {
	if len(roots) == 0 {
		return "-"
	}
	parts := make([]string, len(roots))
	for i, r := range roots {
		if math.Abs(imag(r)) < 1e-12 {
			parts[i] = fmt.Sprintf("%.4g", real(r))
			continue
		}
		parts[i] = fmt.Sprintf("%.4g%+.4gi", real(r), imag(r))
	}
	return strings.Join(parts, ", ")
}
