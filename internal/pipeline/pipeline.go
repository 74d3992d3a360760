// Package pipeline wires the vision, recognition, and solving stages
// into the image-to-solved-grid flow and owns the result contract.
package pipeline

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gocv.io/x/gocv"

	"sudoku-reader/internal/imageio"
	"sudoku-reader/internal/recognize"
	"sudoku-reader/internal/sudoku"
	"sudoku-reader/internal/vision"
)

const (
	// uncertainThreshold flags filled cells whose confidence warrants
	// manual review.
	uncertainThreshold = 0.7

	// minClues is the fewest givens a proper puzzle can have.
	minClues = 17
)

// Result is the structured output of one processed image.
type Result struct {
	OriginalGrid [9][9]int  `json:"original_grid"`
	SolvedGrid   *[9][9]int `json:"solved_grid,omitempty"`

	GivenPositions     [][2]int      `json:"given_positions"`
	ConfidenceScores   [9][9]float64 `json:"confidence_scores"`
	RecognitionSources [9][9][]string `json:"recognition_sources"`
	UncertainCells     [][2]int      `json:"uncertain_cells"`

	ValidationConflicts []sudoku.Conflict `json:"validation_conflicts"`

	ProcessingTime float64 `json:"processing_time"`
	GridDetected   bool    `json:"grid_detected"`
	ValidPuzzle    bool    `json:"valid_puzzle"`

	// UniqueSolution is true iff the solver found a solution. It does
	// not verify that the solution is actually unique.
	UniqueSolution bool `json:"unique_solution"`

	AccuracyEstimate float64 `json:"accuracy_estimate"`
}

// Processor runs the full pipeline. One Processor handles one image at a
// time; the recognizer and template set it holds are reentrant, so a
// shared Processor is safe across sequential calls.
type Processor struct {
	engine   *recognize.Engine
	ensemble *recognize.Ensemble
	params   vision.Params
	log      *zap.Logger
}

// Option configures a Processor.
type Option func(*Processor)

// WithLogger attaches a logger; the default is a nop logger.
func WithLogger(log *zap.Logger) Option {
	return func(p *Processor) { p.log = log }
}

// WithParams overrides the vision tunables.
func WithParams(params vision.Params) Option {
	return func(p *Processor) { p.params = params }
}

// NewProcessor builds a Processor with a Tesseract-backed recognizer.
func NewProcessor(opts ...Option) (*Processor, error) {
	engine, err := recognize.NewEngine()
	if err != nil {
		return nil, fmt.Errorf("create recognizer: %w", err)
	}

	p := &Processor{
		engine: engine,
		params: vision.DefaultParams(),
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.ensemble = recognize.NewEnsemble(engine, p.log)
	return p, nil
}

// Close releases the recognizer and template resources.
func (p *Processor) Close() error {
	p.ensemble.Close()
	return p.engine.Close()
}

// ProcessFile runs the pipeline on an image file.
func (p *Processor) ProcessFile(path string) (*Result, error) {
	img, err := imageio.ReadFile(path)
	if err != nil {
		return nil, err
	}
	defer img.Close()
	return p.process(img)
}

// ProcessBytes runs the pipeline on an in-memory image buffer.
func (p *Processor) ProcessBytes(buf []byte) (*Result, error) {
	img, err := imageio.Decode(buf)
	if err != nil {
		return nil, err
	}
	defer img.Close()
	return p.process(img)
}

// process is the pipeline core: preprocess, localize, analyze structure,
// extract cells, recognize, validate and reassess, then solve.
func (p *Processor) process(img gocv.Mat) (*Result, error) {
	start := time.Now()
	p.log.Info("processing image",
		zap.Int("width", img.Cols()), zap.Int("height", img.Rows()))

	binary := vision.Preprocess(img)
	defer binary.Close()

	loc := vision.LocalizeGrid(binary, p.params)
	defer loc.Canonical.Close()
	if !loc.GridDetected {
		p.log.Warn("no grid detected, using entire image")
	}

	structure := vision.AnalyzeStructure(loc.Canonical, p.params)
	cells := vision.ExtractCells(loc.Canonical, structure, p.params)
	defer vision.CloseCells(&cells)

	var detections [9][9]recognize.Detection
	var grid sudoku.Grid
	for i := 0; i < 9; i++ {
		for j := 0; j < 9; j++ {
			detections[i][j] = p.ensemble.RecognizeCell(cells[i][j], i, j)
			grid[i][j] = detections[i][j].Digit
		}
	}

	conflicts := reassess(&detections, &cells, &grid, p.ensemble, p.log)

	result := p.assemble(detections, grid, conflicts, loc.GridDetected)
	p.solveInto(result, grid)

	result.ProcessingTime = time.Since(start).Seconds()
	p.log.Info("processing complete",
		zap.Int("clues", len(result.GivenPositions)),
		zap.Float64("accuracy_estimate", result.AccuracyEstimate),
		zap.Bool("valid_puzzle", result.ValidPuzzle),
		zap.Bool("solved", result.SolvedGrid != nil),
		zap.Float64("seconds", result.ProcessingTime))
	return result, nil
}

// assemble builds the result contract from the final detections.
func (p *Processor) assemble(detections [9][9]recognize.Detection, grid sudoku.Grid,
	conflicts []sudoku.Conflict, gridDetected bool) *Result {

	result := &Result{
		GivenPositions:      [][2]int{},
		UncertainCells:      [][2]int{},
		ValidationConflicts: conflicts,
		GridDetected:        gridDetected,
	}
	if conflicts == nil {
		result.ValidationConflicts = []sudoku.Conflict{}
	}

	var confSum float64
	var clues int
	for i := 0; i < 9; i++ {
		for j := 0; j < 9; j++ {
			det := detections[i][j]
			result.OriginalGrid[i][j] = det.Digit
			result.ConfidenceScores[i][j] = det.Confidence
			result.RecognitionSources[i][j] = det.Sources

			if det.Digit > 0 {
				result.GivenPositions = append(result.GivenPositions, [2]int{i, j})
				confSum += det.Confidence
				clues++
				if det.Confidence < uncertainThreshold {
					result.UncertainCells = append(result.UncertainCells, [2]int{i, j})
				}
			}
		}
	}

	if clues > 0 {
		result.AccuracyEstimate = confSum / float64(clues)
	}
	result.ValidPuzzle = clues >= minClues && len(sudoku.Conflicts(grid)) == 0
	return result
}

// solveInto attempts to complete a valid puzzle and attaches the
// solution to the result.
func (p *Processor) solveInto(result *Result, grid sudoku.Grid) {
	if !result.ValidPuzzle {
		return
	}

	solution := grid
	stats, err := sudoku.Solve(&solution)
	if err != nil {
		p.log.Warn("solve failed", zap.Error(err), zap.Int("node_visits", stats.NodeVisits))
		return
	}

	p.log.Info("puzzle solved", zap.Int("node_visits", stats.NodeVisits))
	solved := [9][9]int(solution)
	result.SolvedGrid = &solved
	result.UniqueSolution = true
}
