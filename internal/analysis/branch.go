package analysis

import (
	"math"
	"strings"

	"github.com/san-kum/contlab/internal/contin"
)

// StepCollapse reports whether the trace's step size shrank far below its
// peak, the signature of natural continuation pressing against a fold.
// ratio is final/peak step size.
func StepCollapse(b *contin.Branch) (collapsed bool, ratio float64) {
	if len(b.Points) < 2 {
		return false, 1.0
	}
	peak := 0.0
	for _, p := range b.Points {
		if p.StepSize > peak {
			peak = p.StepSize
		}
	}
	if peak == 0 {
		return false, 1.0
	}
	final := b.Points[len(b.Points)-1].StepSize
	ratio = final / peak
	return ratio < 1.0/64.0, ratio
}

// TurningPointEstimate guesses where the branch folds: the last accepted
// lambda plus the collapsed step is an upper bound on how far the trace
// could have gone.
func TurningPointEstimate(b *contin.Branch) (lambda float64, ok bool) {
	collapsed, _ := StepCollapse(b)
	if !collapsed {
		return 0, false
	}
	last := b.Points[len(b.Points)-1]
	return last.Lambda + 2*last.StepSize, true
}

// Slope estimates d||u||/dlambda at the end of the branch. It diverges as
// the branch approaches a turning point.
func Slope(b *contin.Branch) float64 {
	n := len(b.Points)
	if n < 2 {
		return 0
	}
	a, c := b.Points[n-2], b.Points[n-1]
	dl := c.Lambda - a.Lambda
	if dl == 0 {
		return math.Inf(1)
	}
	return (c.U.Norm() - a.U.Norm()) / dl
}

// BranchToASCII renders the branch diagram (||u|| against lambda) as an
// ASCII canvas.
func BranchToASCII(b *contin.Branch, width, height int) string {
	if len(b.Points) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	lambdas := b.Lambdas()
	norms := b.Norms()

	minL, maxL := lambdas[0], lambdas[0]
	minN, maxN := norms[0], norms[0]
	for i := range lambdas {
		if lambdas[i] < minL {
			minL = lambdas[i]
		}
		if lambdas[i] > maxL {
			maxL = lambdas[i]
		}
		if norms[i] < minN {
			minN = norms[i]
		}
		if norms[i] > maxN {
			maxN = norms[i]
		}
	}
	if maxL == minL {
		maxL = minL + 1
	}
	if maxN == minN {
		maxN = minN + 1
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	for i := range lambdas {
		col := int((lambdas[i] - minL) / (maxL - minL) * float64(width-1))
		row := height - 1 - int((norms[i]-minN)/(maxN-minN)*float64(height-1))
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '*'
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteByte('\n')
	}
	return sb.String()
}
