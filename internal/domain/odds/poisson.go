package odds

import "math"

// scoreGrid holds P(home scores i, away scores j) under independent Poisson
// goal counts, truncated at maxGoals per side and renormalised to mass 1.
type scoreGrid struct {
	p [][]float64
}

func newScoreGrid(homeXG, awayXG float64, maxGoals int) scoreGrid {
	home := poissonPMF(homeXG, maxGoals)
	away := poissonPMF(awayXG, maxGoals)

	grid := make([][]float64, maxGoals+1)
	var mass float64
	for i := range grid {
		grid[i] = make([]float64, maxGoals+1)
		for j := range grid[i] {
			grid[i][j] = home[i] * away[j]
			mass += grid[i][j]
		}
	}
	if mass > 0 {
		for i := range grid {
			for j := range grid[i] {
				grid[i][j] /= mass
			}
		}
	}
	return scoreGrid{p: grid}
}

func poissonPMF(lambda float64, maxK int) []float64 {
	out := make([]float64, maxK+1)
	out[0] = math.Exp(-lambda)
	for k := 1; k <= maxK; k++ {
		out[k] = out[k-1] * lambda / float64(k)
	}
	return out
}

func (g scoreGrid) matchResult() (home, draw, away float64) {
	for i := range g.p {
		for j, v := range g.p[i] {
			switch {
			case i > j:
				home += v
			case i == j:
				draw += v
			default:
				away += v
			}
		}
	}
	return home, draw, away
}

func (g scoreGrid) bothTeamsScore() float64 {
	var out float64
	for i := 1; i < len(g.p); i++ {
		for j := 1; j < len(g.p[i]); j++ {
			out += g.p[i][j]
		}
	}
	return out
}

func (g scoreGrid) over(line float64) float64 {
	var out float64
	for i := range g.p {
		for j, v := range g.p[i] {
			if float64(i+j) > line {
				out += v
			}
		}
	}
	return out
}
