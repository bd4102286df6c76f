// Package sarima implements moving-average Seasonal ARIMA models,
// SARIMA(0,d,q)(0,D,Q)m, fitted by conditional sum of squares.
package sarima

import (
	"errors"
	"fmt"
	"math"
)

// Order represents the SARIMA model order (0, D, Q) x (0, SD, SQ, M).
// M is ignored when SD and SQ are both zero.
type Order struct {
	D int // Non-seasonal differencing order
	Q int // Non-seasonal MA order

	SD int // Seasonal differencing order
	SQ int // Seasonal MA order
	M  int // Seasonal period (e.g., 12 for monthly data with yearly seasonality)
}

// Seasonal reports whether the order has a seasonal component.
func (o Order) Seasonal() bool {
	return o.M > 1 && (o.SD > 0 || o.SQ > 0)
}

func (o Order) String() string {
	if !o.Seasonal() {
		return fmt.Sprintf("ARIMA(0,%d,%d)", o.D, o.Q)
	}
	return fmt.Sprintf("SARIMA(0,%d,%d)(0,%d,%d,%d)", o.D, o.Q, o.SD, o.SQ, o.M)
}

// Model represents a SARIMA model.
type Model struct {
	Order     Order
	MACoeffs  []float64 // Non-seasonal MA coefficients
	SMACoeffs []float64 // Seasonal MA coefficients
	Variance  float64
	SSE       float64
	NObs      int // observations after differencing

	fitted    bool
	data      []float64
	residuals []float64
	diffPoly  []float64 // (1-B)^D (1-B^M)^SD
	maPoly    []float64 // (1+θ(B))(1+Θ(B^M))
}

// New creates a new SARIMA model with the specified order.
func New(order Order) *Model {
	if !order.Seasonal() {
		order.SD, order.SQ, order.M = 0, 0, 0
	}
	return &Model{
		Order:     order,
		MACoeffs:  make([]float64, order.Q),
		SMACoeffs: make([]float64, order.SQ),
	}
}

// Fit fits the model to the given values.
func (m *Model) Fit(values []float64) error {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.New("series contains non-finite values")
		}
	}

	m.diffPoly = differencingPoly(m.Order)
	start := len(m.diffPoly) - 1
	if len(values) <= start {
		return fmt.Errorf("insufficient data points for %s: need more than %d, got %d", m.Order, start, len(values))
	}

	m.data = append([]float64(nil), values...)
	m.NObs = len(values) - start

	params := m.optimizeCSS()
	m.setParams(params)

	m.residuals, m.SSE = m.css(m.maPoly)

	numParams := m.Order.Q + m.Order.SQ
	if m.NObs > numParams {
		m.Variance = m.SSE / float64(m.NObs-numParams)
	} else {
		m.Variance = m.SSE / float64(m.NObs)
	}

	m.fitted = true
	return nil
}

// css returns the conditional residuals and their sum of squares for an MA polynomial.
// Residuals before the first fully differenced observation are zero.
func (m *Model) css(ma []float64) ([]float64, float64) {
	y := m.data
	start := len(m.diffPoly) - 1
	residuals := make([]float64, len(y))
	sse := 0.0

	for t := start; t < len(y); t++ {
		w := 0.0
		for i, a := range m.diffPoly {
			w += a * y[t-i]
		}
		for j := 1; j < len(ma) && t-j >= 0; j++ {
			w -= ma[j] * residuals[t-j]
		}
		residuals[t] = w
		sse += w * w
	}
	return residuals, sse
}

// optimizeCSS minimises the conditional sum of squares over the MA coefficients,
// using a coarse grid for small models and a shrinking pattern search after it.
func (m *Model) optimizeCSS() []float64 {
	k := m.Order.Q + m.Order.SQ
	params := make([]float64, k)
	if k == 0 {
		return params
	}

	const bound = 0.99
	objective := func(p []float64) float64 {
		_, sse := m.css(m.buildMAPoly(p))
		return sse
	}

	best := objective(params)
	if k <= 2 {
		grid := make([]float64, 0, 19)
		for v := -0.9; v <= 0.9+1e-9; v += 0.1 {
			grid = append(grid, math.Round(v*10)/10)
		}
		candidate := make([]float64, k)
		var walk func(dim int)
		walk = func(dim int) {
			if dim == k {
				if sse := objective(candidate); sse < best {
					best = sse
					copy(params, candidate)
				}
				return
			}
			for _, v := range grid {
				candidate[dim] = v
				walk(dim + 1)
			}
		}
		walk(0)
	}

	step := 0.05
	trial := make([]float64, k)
	for step > 1e-5 {
		improved := false
		for i := 0; i < k; i++ {
			for _, dir := range []float64{1, -1} {
				copy(trial, params)
				trial[i] = clamp(trial[i]+dir*step, -bound, bound)
				if sse := objective(trial); sse < best-1e-12 {
					best = sse
					copy(params, trial)
					improved = true
				}
			}
		}
		if !improved {
			step /= 2
		}
	}

	return params
}

func (m *Model) setParams(params []float64) {
	copy(m.MACoeffs, params[:m.Order.Q])
	copy(m.SMACoeffs, params[m.Order.Q:])
	m.maPoly = m.buildMAPoly(params)
}

func (m *Model) buildMAPoly(params []float64) []float64 {
	nonSeasonal := make([]float64, m.Order.Q+1)
	nonSeasonal[0] = 1
	copy(nonSeasonal[1:], params[:m.Order.Q])

	seasonal := []float64{1}
	if m.Order.SQ > 0 {
		seasonal = make([]float64, m.Order.SQ*m.Order.M+1)
		seasonal[0] = 1
		for j, theta := range params[m.Order.Q:] {
			seasonal[(j+1)*m.Order.M] = theta
		}
	}
	return polyMul(nonSeasonal, seasonal)
}

// Predict generates forecasts for the specified number of steps ahead.
func (m *Model) Predict(steps int) ([]float64, error) {
	forecasts, _, _, err := m.PredictWithInterval(steps, 0.95)
	return forecasts, err
}

// PredictWithInterval generates forecasts with prediction intervals.
// Returns point forecasts, lower bounds, and upper bounds at the given confidence level.
func (m *Model) PredictWithInterval(steps int, confidence float64) (forecasts, lower, upper []float64, err error) {
	if !m.fitted {
		return nil, nil, nil, errors.New("model must be fitted before prediction")
	}
	if steps < 1 {
		return nil, nil, nil, errors.New("steps must be at least 1")
	}
	if confidence <= 0 || confidence >= 1 {
		confidence = 0.95
	}

	n := len(m.data)
	extY := make([]float64, n+steps)
	copy(extY, m.data)
	extResiduals := make([]float64, n+steps)
	copy(extResiduals, m.residuals)

	// Future shocks are zero, so only observed residuals contribute.
	for t := n; t < n+steps; t++ {
		pred := 0.0
		for i := 1; i < len(m.diffPoly); i++ {
			pred -= m.diffPoly[i] * extY[t-i]
		}
		for j := 1; j < len(m.maPoly) && t-j >= 0; j++ {
			pred += m.maPoly[j] * extResiduals[t-j]
		}
		extY[t] = pred
	}

	forecasts = make([]float64, steps)
	copy(forecasts, extY[n:])

	z := normalQuantile((1 + confidence) / 2)
	psi := psiWeights(m.diffPoly, m.maPoly, steps)

	lower = make([]float64, steps)
	upper = make([]float64, steps)
	cumulative := 0.0
	for h := 0; h < steps; h++ {
		cumulative += psi[h] * psi[h]
		se := math.Sqrt(m.Variance * cumulative)
		lower[h] = forecasts[h] - z*se
		upper[h] = forecasts[h] + z*se
	}

	return forecasts, lower, upper, nil
}

// Residuals returns the model residuals.
func (m *Model) Residuals() []float64 {
	if !m.fitted {
		return nil
	}
	result := make([]float64, len(m.residuals))
	copy(result, m.residuals)
	return result
}

// differencingPoly expands (1-B)^d (1-B^m)^D.
func differencingPoly(o Order) []float64 {
	poly := []float64{1}
	for i := 0; i < o.D; i++ {
		poly = polyMul(poly, []float64{1, -1})
	}
	if o.Seasonal() {
		seasonal := make([]float64, o.M+1)
		seasonal[0], seasonal[o.M] = 1, -1
		for i := 0; i < o.SD; i++ {
			poly = polyMul(poly, seasonal)
		}
	}
	return poly
}

// psiWeights returns the first n coefficients of ma(B)/ar(B).
func psiWeights(ar, ma []float64, n int) []float64 {
	psi := make([]float64, n)
	for j := 0; j < n; j++ {
		v := 0.0
		if j < len(ma) {
			v = ma[j]
		}
		for i := 1; i < len(ar) && i <= j; i++ {
			v -= ar[i] * psi[j-i]
		}
		psi[j] = v
	}
	return psi
}

func polyMul(a, b []float64) []float64 {
	out := make([]float64, len(a)+len(b)-1)
	for i, x := range a {
		for j, y := range b {
			out[i+j] += x * y
		}
	}
	return out
}

// normalQuantile returns the z-value for a given probability.
func normalQuantile(p float64) float64 {
	if p <= 0 || p >= 1 {
		return 0
	}
	if p < 0.5 {
		return -normalQuantile(1 - p)
	}

	t := math.Sqrt(-2 * math.Log(1-p))
	c0, c1, c2 := 2.515517, 0.802853, 0.010328
	d1, d2, d3 := 1.432788, 0.189269, 0.001308

	return t - (c0+c1*t+c2*t*t)/(1+d1*t+d2*t*t+d3*t*t*t)
}

func clamp(v, lower, upper float64) float64 {
	if v < lower {
		return lower
	}
	if v > upper {
		return upper
	}
	return v
}
