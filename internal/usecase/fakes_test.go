package usecase

import (
	"github.com/orquestadev/orquesta/internal/model"
	"github.com/orquestadev/orquesta/internal/repository"
	"github.com/orquestadev/orquesta/internal/scoring"
)

type fakePersons struct {
	people []model.Person
	err    error
	calls  int
}

func (f *fakePersons) FindByIDs(ids []uint) ([]model.Person, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	want := map[uint]bool{}
	for _, id := range ids {
		want[id] = true
	}
	var out []model.Person
	for _, p := range f.people {
		if want[p.ID] {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeWeights struct {
	row     *model.ModelWeights
	findErr error
	saveErr error
	saves   int
}

func (f *fakeWeights) FindByName(name string) (*model.ModelWeights, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	if f.row == nil || f.row.Name != name {
		return nil, nil
	}
	return f.row, nil
}

func (f *fakeWeights) Save(row *model.ModelWeights) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saves++
	f.row = row
	return nil
}

type fakeHistory struct {
	entries   []*model.AssignmentHistory
	labeled   []repository.LabeledOutcome
	appendErr error
	loadErr   error
}

func (f *fakeHistory) Append(entry *model.AssignmentHistory) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeHistory) ListPage(page, pageSize int) ([]model.AssignmentHistory, int64, error) {
	total := int64(len(f.entries))
	start := (page - 1) * pageSize
	if start >= len(f.entries) {
		return nil, total, nil
	}
	end := start + pageSize
	if end > len(f.entries) {
		end = len(f.entries)
	}
	out := make([]model.AssignmentHistory, 0, end-start)
	for _, e := range f.entries[start:end] {
		out = append(out, *e)
	}
	return out, total, nil
}

func (f *fakeHistory) LoadLabeled() ([]repository.LabeledOutcome, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.labeled, nil
}

// fakePredictor scores by age so tests can tell model output from the
// heuristic formula.
type fakePredictor struct {
	err   error
	calls int
}

func (f *fakePredictor) Predict(features scoring.Features, role string) (float64, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	return features.Age, nil
}
