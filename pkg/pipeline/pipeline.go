// Package pipeline orchestrates a single residue run: discover exactly
// two DICOM files in a folder, load them, validate that they are
// geometrically comparable, compute the voxel-wise residue and persist
// it under a residues subfolder of the input folder.
//
// A run is synchronous and single-shot. Every stage either completes or
// aborts the whole run; there are no retries and no partial outputs.
package pipeline

import (
	"fmt"
	"path/filepath"

	"dicomresidue/internal/models"
	"dicomresidue/pkg/config"
	"dicomresidue/pkg/dcmio"
	"dicomresidue/pkg/geometry"
	"dicomresidue/pkg/residue"
	"dicomresidue/pkg/transform"
)

// Output file names inside the residues folder. The unfiltered residue
// is always written; the filtered one only when smoothing is enabled.
const (
	UnfilteredName = "unfiltered_residue.dcm"
	FilteredName   = "filtered_residue.dcm"
)

// Params holds the inputs of one pipeline run.
type Params struct {
	// InputDir is the folder containing exactly two DICOM files
	InputDir string

	// Config carries processing and output options; nil means defaults
	Config *config.Config
}

// Result describes a successful run.
type Result struct {
	// InputPaths are the two discovered files in operand order
	// (residue = first minus second)
	InputPaths []string

	// OutputPaths are the written residue files
	OutputPaths []string

	// Metrics summarizes the unfiltered residue
	Metrics residue.Metrics

	// FilteredMetrics summarizes the smoothed residue when smoothing
	// was enabled
	FilteredMetrics *residue.Metrics
}

// Pipeline drives one residue computation over an input folder.
type Pipeline struct {
	params *Params
	cfg    *config.Config
	stage  Stage
	result *Result
}

// New creates a pipeline for the given parameters.
func New(params *Params) *Pipeline {
	cfg := params.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Pipeline{
		params: params,
		cfg:    cfg,
		stage:  StageDiscovering,
	}
}

// Stage returns the stage the pipeline last entered. After a failed run
// it returns StageFailed; the failing stage is carried by the StageError.
func (p *Pipeline) Stage() Stage {
	return p.stage
}

// Result returns the run outcome, or nil before a successful Run.
func (p *Pipeline) Result() *Result {
	return p.result
}

// Run executes the full pipeline. On failure it returns a *StageError
// naming the stage that aborted; nothing is written to the filesystem
// unless all earlier stages succeeded.
func (p *Pipeline) Run() error {
	if err := p.cfg.Validate(); err != nil {
		return p.fail(StageDiscovering, fmt.Errorf("invalid configuration: %w", err))
	}

	// Stage 1: find exactly two DICOM files.
	p.stage = StageDiscovering
	p.logf("Discovering DICOM files in %s...", p.params.InputDir)
	paths, err := discover(p.params.InputDir)
	if err != nil {
		return p.fail(StageDiscovering, err)
	}

	// Stage 2: load both files. A single unreadable file aborts the run;
	// there is no residue of one image.
	p.stage = StageLoading
	datasets := make([]*models.Dataset, 0, len(paths))
	for _, path := range paths {
		p.logf("Loading %s...", path)
		ds, err := dcmio.Load(path)
		if err != nil {
			return p.fail(StageLoading, err)
		}
		datasets = append(datasets, ds)
	}
	a, b := datasets[0], datasets[1]

	// Stage 3: geometric comparability.
	p.stage = StageValidating
	p.logf("Validating geometry (%dx%d vs %dx%d)...", a.Rows, a.Cols, b.Rows, b.Cols)
	if err := geometry.Validate(a, b); err != nil {
		return p.fail(StageValidating, err)
	}
	if p.cfg.Processing.RequireDistinctPosition && geometry.SamePosition(a, b) {
		return p.fail(StageValidating, &geometry.IncompatibleGeometryError{
			Reason: "both files carry the same ImagePositionPatient, they appear to be the same acquisition",
			ShapeA: a.Shape(),
			ShapeB: b.Shape(),
		})
	}

	// Stage 4: the residue itself, plus the smoothed variant when
	// smoothing is enabled.
	p.stage = StageComputing
	p.logf("Computing residue...")
	unfiltered, err := residue.Compute(a, b)
	if err != nil {
		return p.fail(StageComputing, err)
	}

	var filtered *models.ResidueVolume
	if sigma := p.cfg.Processing.Sigma; sigma > 0 {
		p.logf("Computing smoothed residue (sigma %.2f)...", sigma)
		fa := transform.Gaussian(a.Pixels, a.Rows, a.Cols, sigma)
		fb := transform.Gaussian(b.Pixels, b.Rows, b.Cols, sigma)
		data, err := residue.Diff(fa, fb)
		if err != nil {
			return p.fail(StageComputing, err)
		}
		filtered = &models.ResidueVolume{Data: data, Rows: a.Rows, Cols: a.Cols, Source: a}
	}

	if turns := p.cfg.Processing.RotationDegrees / 90; turns%4 != 0 {
		p.logf("Rotating residue by %d degrees...", p.cfg.Processing.RotationDegrees)
		rotate(unfiltered, turns)
		if filtered != nil {
			rotate(filtered, turns)
		}
	}

	// Stage 5: write outputs. Encoding happens in memory first, so an
	// abort here leaves no half-written file behind.
	p.stage = StagePersisting
	outDir := outputDir(p.params.InputDir, p.cfg.Output.DirName)
	opts := dcmio.PersistOptions{
		Overwrite:         p.cfg.Output.Overwrite,
		RedactPatientTags: p.cfg.Output.RedactPatientTags,
	}

	result := &Result{
		InputPaths: paths,
		Metrics:    residue.Summarize(unfiltered),
	}

	p.logf("Writing %s...", UnfilteredName)
	path, err := dcmio.Persist(unfiltered, outDir, UnfilteredName, opts)
	if err != nil {
		return p.fail(StagePersisting, err)
	}
	result.OutputPaths = append(result.OutputPaths, path)

	if filtered != nil {
		p.logf("Writing %s...", FilteredName)
		path, err := dcmio.Persist(filtered, outDir, FilteredName, opts)
		if err != nil {
			return p.fail(StagePersisting, err)
		}
		result.OutputPaths = append(result.OutputPaths, path)
		m := residue.Summarize(filtered)
		result.FilteredMetrics = &m
	}

	p.stage = StageDone
	p.result = result
	return nil
}

func (p *Pipeline) fail(stage Stage, err error) error {
	p.stage = StageFailed
	return &StageError{Stage: stage, Err: err}
}

func (p *Pipeline) logf(format string, args ...interface{}) {
	if p.cfg.Output.Verbose {
		fmt.Printf(format+"\n", args...)
	}
}

func rotate(r *models.ResidueVolume, quarterTurns int) {
	r.Data, r.Rows, r.Cols = transform.Rotate90(r.Data, r.Rows, r.Cols, quarterTurns)
}

func outputDir(inputDir, dirName string) string {
	return filepath.Join(inputDir, dirName)
}
