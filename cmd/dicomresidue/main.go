package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"dicomresidue/pkg/config"
	"dicomresidue/pkg/pipeline"
)

func main() {
	// Parse command line arguments
	inputDir := flag.String("input", "", "Folder containing exactly two DICOM files")
	configPath := flag.String("config", "", "Optional YAML configuration file")
	sigma := flag.Float64("sigma", -1, "Gaussian sigma for the filtered residue (overrides config, 0 disables)")
	rotate := flag.Int("rotate", 0, "Rotate the residue counter-clockwise by this many degrees (multiple of 90)")
	quiet := flag.Bool("quiet", false, "Suppress per-stage progress output")
	flag.Parse()

	// The input folder may also be given as a single positional argument.
	if *inputDir == "" && flag.NArg() == 1 {
		*inputDir = flag.Arg(0)
	}
	if *inputDir == "" {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *sigma >= 0 {
		cfg.Processing.Sigma = *sigma
	}
	if *rotate != 0 {
		cfg.Processing.RotationDegrees = *rotate
	}
	if *quiet {
		cfg.Output.Verbose = false
	}

	if cfg.Output.Verbose {
		fmt.Println("================================")
		fmt.Println("DICOM RESIDUE: VOXEL-WISE SUBTRACTION OF TWO ACQUISITIONS")
		fmt.Println("================================")
	}

	p := pipeline.New(&pipeline.Params{
		InputDir: *inputDir,
		Config:   cfg,
	})

	startTime := time.Now()
	if err := p.Run(); err != nil {
		var stageErr *pipeline.StageError
		if errors.As(err, &stageErr) {
			log.Fatalf("Residue computation failed at stage %q: %v", stageErr.Stage, stageErr.Err)
		}
		log.Fatalf("Residue computation failed: %v", err)
	}
	processingTime := time.Since(startTime)

	result := p.Result()
	fmt.Printf("\nResidue computed successfully in %.2f seconds!\n", processingTime.Seconds())
	fmt.Printf("Operands: %s minus %s\n", result.InputPaths[0], result.InputPaths[1])
	for _, path := range result.OutputPaths {
		fmt.Printf("Output saved to: %s\n", path)
	}

	fmt.Printf("\nResidue summary:\n")
	fmt.Printf("================\n")
	fmt.Printf("Min: %d\n", result.Metrics.Min)
	fmt.Printf("Max: %d\n", result.Metrics.Max)
	fmt.Printf("Mean: %.3f\n", result.Metrics.Mean)
	fmt.Printf("StdDev: %.3f\n", result.Metrics.StdDev)
	fmt.Printf("Differing voxels: %d\n", result.Metrics.NonZero)

	if result.FilteredMetrics != nil {
		fmt.Printf("\nSmoothed residue summary (sigma %.2f):\n", cfg.Processing.Sigma)
		fmt.Printf("Min: %d  Max: %d  Mean: %.3f  StdDev: %.3f\n",
			result.FilteredMetrics.Min, result.FilteredMetrics.Max,
			result.FilteredMetrics.Mean, result.FilteredMetrics.StdDev)
	}
}
