package features

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"cell-tracer/pkg/geometry"
)

// ManifestName is the file name of the training manifest kept next to
// exported snippets.
const ManifestName = "training.json"

// TrainingSample is one labelled snippet on disk.
type TrainingSample struct {
	ID        string        `json:"id"`
	Label     string        `json:"label"` // canonical cell label; empty when the macro has none
	Macro     string        `json:"macro"`
	Component string        `json:"component"`
	Row       int           `json:"row"`
	Window    geometry.Rect `json:"window"`
	Vias      []int         `json:"vias"` // global via indices
	Path      string        `json:"path"` // PNG, relative to the manifest
	Timestamp time.Time     `json:"timestamp"`
}

// TrainingSet is the manifest of a snippet directory. Samples are keyed by
// path, so exporting the same layout twice replaces rather than duplicates.
type TrainingSet struct {
	mu       sync.RWMutex
	Samples  []TrainingSample `json:"samples"`
	FilePath string           `json:"-"`
}

// NewTrainingSet creates an empty set persisted at path.
func NewTrainingSet(path string) *TrainingSet {
	return &TrainingSet{Samples: make([]TrainingSample, 0), FilePath: path}
}

// LoadTrainingSet reads a manifest. A missing file yields an empty set.
func LoadTrainingSet(path string) (*TrainingSet, error) {
	ts := NewTrainingSet(path)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ts, nil
		}
		return nil, fmt.Errorf("read training manifest: %w", err)
	}
	if err := json.Unmarshal(data, ts); err != nil {
		return nil, fmt.Errorf("parse training manifest: %w", err)
	}
	return ts, nil
}

// Save writes the manifest.
func (ts *TrainingSet) Save() error {
	ts.mu.RLock()
	defer ts.mu.RUnlock()

	if ts.FilePath == "" {
		return fmt.Errorf("no manifest path set")
	}
	if err := os.MkdirAll(filepath.Dir(ts.FilePath), 0755); err != nil {
		return fmt.Errorf("create manifest dir: %w", err)
	}
	data, err := json.MarshalIndent(ts, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize training manifest: %w", err)
	}
	return os.WriteFile(ts.FilePath, data, 0644)
}

// Add records a sample, replacing any sample with the same path, and
// returns it with its ID and timestamp filled in. An absolute path under
// the manifest's directory is stored relative to it.
func (ts *TrainingSet) Add(s TrainingSample) TrainingSample {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if ts.FilePath != "" && filepath.IsAbs(s.Path) {
		if rel, err := filepath.Rel(filepath.Dir(ts.FilePath), s.Path); err == nil {
			s.Path = rel
		}
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	s.Timestamp = time.Now()

	for i := range ts.Samples {
		if ts.Samples[i].Path == s.Path {
			s.ID = ts.Samples[i].ID
			ts.Samples[i] = s
			return s
		}
	}
	ts.Samples = append(ts.Samples, s)
	return s
}

// Count returns the number of samples.
func (ts *TrainingSet) Count() int {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	return len(ts.Samples)
}

// LabelCounts returns the number of samples per label.
func (ts *TrainingSet) LabelCounts() map[string]int {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	out := make(map[string]int)
	for _, s := range ts.Samples {
		out[s.Label]++
	}
	return out
}

// Labels returns the distinct non-empty labels, sorted.
func (ts *TrainingSet) Labels() []string {
	var out []string
	for l := range ts.LabelCounts() {
		if l != "" {
			out = append(out, l)
		}
	}
	sort.Strings(out)
	return out
}
