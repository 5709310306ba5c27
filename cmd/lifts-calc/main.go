package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/claude/lifts/internal/models"
	"github.com/claude/lifts/internal/tracker"
	"github.com/claude/lifts/internal/weights"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	work := flag.Float64("work", 0, "working weight in pounds")
	template := flag.String("template", models.ThreeByFive, "workout template (3x5 or 1x5)")
	policy := flag.String("policy", string(weights.Percent), "set weight policy (percent or progression)")
	plates := flag.Int("plates", 0, "print the plates for a single total weight and exit")
	noBar := flag.Bool("no-barbell", false, "omit the plate breakdown")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("lifts-calc", Version)
		return
	}

	if *plates > 0 {
		fmt.Printf("%d: %s\n", *plates, weights.Plates(*plates))
		return
	}

	if *work <= 0 {
		fmt.Fprintf(os.Stderr, "Usage: lifts-calc -work <weight> [-template 3x5|1x5] [-policy percent|progression]\n")
		fmt.Fprintf(os.Stderr, "       lifts-calc -plates <weight>\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	p, err := weights.ParsePolicy(*policy)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	sets, err := tracker.Calculate(*work, *template, p, !*noBar)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	printSets(*work, *template, p, sets)
}

func printSets(work float64, template string, policy weights.Policy, sets []weights.ComputedSet) {
	fmt.Println()
	fmt.Printf("=== %s @ %g (%s) ===\n", template, work, policy)
	for _, s := range sets {
		label := weights.SetSpec{Sets: s.Sets, Reps: s.Reps}.Label()
		if s.Plates == "" {
			fmt.Printf("  %-6s %4d\n", label, s.Weight)
			continue
		}
		fmt.Printf("  %-6s %4d   %s\n", label, s.Weight, s.Plates)
	}
	fmt.Println()
}
