package main

import (
	"context"
	"flag"
	"fmt"
	"os"
)

func main() {
	// Command line flags
	var (
		dataDir   = flag.String("data", "", "Directory with the input sheets (overrides PLANT_DATA_DIR)")
		outputDir = flag.String("output", "", "Directory for cycle folders (overrides PLANT_OUTPUT_DIR)")
		demand    = flag.String("demand", "ETI=100,ETF=150", "Demand as CODE=QTY pairs, comma separated")
		date      = flag.String("date", "", "Execution date as YYYY-MM-DD (default: today)")
		days      = flag.Int("days", 0, "Capacity plan horizon in days (overrides PLANT_PLANNING_DAYS)")
		quotes    = flag.String("quotes", "Cotacoes.xlsx", "Quotation sheet to apply mid-execution (empty to skip)")
		crp       = flag.Bool("crp", true, "Run the capacity planning phase")
	)

	flag.Parse()

	runner, err := newRunner(runnerFlags{
		DataDir:   *dataDir,
		OutputDir: *outputDir,
		Demand:    *demand,
		Date:      *date,
		Days:      *days,
		Quotes:    *quotes,
		CRP:       *crp,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := runner.Execute(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
