package scoring

import (
	"errors"
	"fmt"
	"math"
)

// ErrInsufficientData is returned when there are fewer than two training
// rows; a regression over one point is meaningless.
var ErrInsufficientData = errors.New("at least 2 data points required to fit")

// ridge keeps the normal equations solvable when the design matrix is
// rank-deficient, which is the normal case for small feedback histories.
const ridge = 1e-6

// LinearModel is a least-squares fit over
// {role index, age, experience years, availability}.
type LinearModel struct {
	Intercept float64   `json:"intercept"`
	Coef      []float64 `json:"coef"`
}

// Predict implements Predictor.
func (m *LinearModel) Predict(f Features, role string) (float64, error) {
	x := f.Vector(role)
	if len(x) != len(m.Coef) {
		return 0, fmt.Errorf("model expects %d features, got %d", len(m.Coef), len(x))
	}
	score := m.Intercept
	for i, c := range m.Coef {
		score += c * x[i]
	}
	return score, nil
}

// Fit solves the ridge-regularized normal equations for X -> y. All rows
// must have the same width.
func Fit(x [][]float64, y []float64) (*LinearModel, error) {
	n := len(x)
	if n < 2 || len(y) != n {
		return nil, ErrInsufficientData
	}
	p := len(x[0])
	for _, row := range x {
		if len(row) != p {
			return nil, errors.New("inconsistent feature row width")
		}
	}

	// Augment with an intercept column, then solve (AᵀA + λI)β = Aᵀy.
	dim := p + 1
	ata := make([][]float64, dim)
	aty := make([]float64, dim)
	for i := range ata {
		ata[i] = make([]float64, dim)
	}
	for r := 0; r < n; r++ {
		row := append([]float64{1}, x[r]...)
		for i := 0; i < dim; i++ {
			aty[i] += row[i] * y[r]
			for j := 0; j < dim; j++ {
				ata[i][j] += row[i] * row[j]
			}
		}
	}
	for i := 0; i < dim; i++ {
		ata[i][i] += ridge
	}

	beta, err := solve(ata, aty)
	if err != nil {
		return nil, err
	}
	return &LinearModel{Intercept: beta[0], Coef: beta[1:]}, nil
}

// solve performs Gaussian elimination with partial pivoting.
func solve(a [][]float64, b []float64) ([]float64, error) {
	n := len(a)
	for col := 0; col < n; col++ {
		pivot := col
		for r := col + 1; r < n; r++ {
			if math.Abs(a[r][col]) > math.Abs(a[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(a[pivot][col]) < 1e-12 {
			return nil, errors.New("singular system, cannot fit model")
		}
		a[col], a[pivot] = a[pivot], a[col]
		b[col], b[pivot] = b[pivot], b[col]

		for r := col + 1; r < n; r++ {
			factor := a[r][col] / a[col][col]
			for c := col; c < n; c++ {
				a[r][c] -= factor * a[col][c]
			}
			b[r] -= factor * b[col]
		}
	}

	out := make([]float64, n)
	for r := n - 1; r >= 0; r-- {
		sum := b[r]
		for c := r + 1; c < n; c++ {
			sum -= a[r][c] * out[c]
		}
		out[r] = sum / a[r][r]
	}
	return out, nil
}
