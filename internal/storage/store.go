package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/contlab/internal/contin"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type TraceMetadata struct {
	ID          string             `json:"id"`
	Problem     string             `json:"problem"`
	Timestamp   time.Time          `json:"timestamp"`
	Lambda0     float64            `json:"lambda0"`
	StepSize    float64            `json:"step_size"`
	Predictor   string             `json:"predictor"`
	Params      map[string]float64 `json:"params,omitempty"`
	Milestones  []float64          `json:"milestones,omitempty"`
	Accepted    int                `json:"accepted"`
	Rejected    int                `json:"rejected"`
	NewtonIters int                `json:"newton_iters"`
	FinalLambda float64            `json:"final_lambda"`
}

// Save writes one trace as a run directory: metadata.json plus branch.csv
// with a row per accepted point.
func (s *Store) Save(problem string, lambda0, stepSize float64, predictor string, params map[string]float64, milestones []float64, res *contin.Result) (string, error) {
	traceID := fmt.Sprintf("%s_%d", problem, time.Now().Unix())
	traceDir := filepath.Join(s.baseDir, traceID)

	if err := os.MkdirAll(traceDir, 0755); err != nil {
		return "", err
	}

	meta := TraceMetadata{
		ID:          traceID,
		Problem:     problem,
		Timestamp:   time.Now(),
		Lambda0:     lambda0,
		StepSize:    stepSize,
		Predictor:   predictor,
		Params:      params,
		Milestones:  milestones,
		Accepted:    res.Stats.Accepted,
		Rejected:    res.Stats.Rejected,
		NewtonIters: res.Stats.NewtonIters,
		FinalLambda: res.Stats.FinalLambda,
	}

	metaPath := filepath.Join(traceDir, "metadata.json")
	metaFile, err := os.Create(metaPath)
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvPath := filepath.Join(traceDir, "branch.csv")
	csvFile, err := os.Create(csvPath)
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	points := res.Branch.Points
	if len(points) == 0 {
		return traceID, nil
	}

	header := []string{"step", "lambda", "newton_iters", "step_size"}
	for i := range points[0].U {
		header = append(header, fmt.Sprintf("u%d", i))
	}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for _, p := range points {
		row := []string{
			strconv.Itoa(p.Step),
			strconv.FormatFloat(p.Lambda, 'g', 17, 64),
			strconv.Itoa(p.NewtonIters),
			strconv.FormatFloat(p.StepSize, 'g', 17, 64),
		}
		for _, v := range p.U {
			row = append(row, strconv.FormatFloat(v, 'g', 17, 64))
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return traceID, nil
}

func (s *Store) List() ([]TraceMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []TraceMetadata{}, nil
		}
		return nil, err
	}

	traces := make([]TraceMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		metaPath := filepath.Join(s.baseDir, entry.Name(), "metadata.json")
		data, err := os.ReadFile(metaPath)
		if err != nil {
			continue
		}

		var meta TraceMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		traces = append(traces, meta)
	}

	return traces, nil
}

func (s *Store) Load(traceID string) (*TraceMetadata, error) {
	metaPath := filepath.Join(s.baseDir, traceID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta TraceMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadBranch reads the accepted points back from branch.csv.
func (s *Store) LoadBranch(traceID string) (*contin.Branch, error) {
	csvPath := filepath.Join(s.baseDir, traceID, "branch.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	branch := &contin.Branch{}
	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) < 4 {
			continue
		}

		step, err := strconv.Atoi(record[0])
		if err != nil {
			continue
		}
		lambda, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			continue
		}
		iters, _ := strconv.Atoi(record[2])
		stepSize, _ := strconv.ParseFloat(record[3], 64)

		u := make(contin.State, 0, len(record)-4)
		for j := 4; j < len(record); j++ {
			v, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				continue
			}
			u = append(u, v)
		}

		branch.Points = append(branch.Points, contin.Point{
			Step:        step,
			Lambda:      lambda,
			U:           u,
			NewtonIters: iters,
			StepSize:    stepSize,
		})
	}

	return branch, nil
}
