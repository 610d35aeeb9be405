package scoring

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// ModelStore owns the currently fitted model: loaded at process start,
// swapped atomically on retrain, never read without the accessor.
type ModelStore struct {
	mu    sync.RWMutex
	path  string
	model *LinearModel
}

// NewModelStore loads an existing coefficient file when present. Load
// failures leave the store empty so scoring degrades to the heuristic.
func NewModelStore(path string) (*ModelStore, error) {
	s := &ModelStore{path: path}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("read model file: %w", err)
	}
	var m LinearModel
	if err := json.Unmarshal(raw, &m); err != nil {
		return s, fmt.Errorf("decode model file: %w", err)
	}
	s.model = &m
	return s, nil
}

// Predict implements Predictor using the currently loaded model.
func (s *ModelStore) Predict(f Features, role string) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.model == nil {
		return 0, ErrNoModel
	}
	return s.model.Predict(f, role)
}

func (s *ModelStore) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.model != nil
}

// Swap persists the new model and replaces the in-memory reference. The
// file write goes through a temp file and rename so a failed retrain never
// partially overwrites the previous model.
func (s *ModelStore) Swap(m *LinearModel) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode model: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write model file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("swap model file: %w", err)
	}

	s.mu.Lock()
	s.model = m
	s.mu.Unlock()
	return nil
}
