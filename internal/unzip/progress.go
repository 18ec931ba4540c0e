package unzip

import (
	"fmt"
	"math"
	"strings"
)

const (
	maxProgress = 100.0
	barWidth    = 40

	minIncrement   = 18.0
	incrementRange = 19.0
)

// Progress is the simulated extraction percentage. It never decreases,
// never exceeds 100 and reports completion exactly once.
type Progress struct {
	value    float64
	complete bool
}

// Advance adds inc, clamps at 100 and reports whether this call is the one
// that completed the progress. Calls after completion leave it at 100 and
// return false.
func (p *Progress) Advance(inc float64) bool {
	if p.complete {
		return false
	}
	if inc > 0 {
		p.value += inc
	}
	if p.value >= maxProgress {
		p.value = maxProgress
		p.complete = true
		return true
	}
	return false
}

func (p *Progress) Value() float64 {
	return p.value
}

func (p *Progress) Complete() bool {
	return p.complete
}

// String renders the bar, e.g. "[#######---...] 18%".
func (p *Progress) String() string {
	return RenderBar(p.value)
}

// RenderBar draws a 40 character bar of '#' and '-' proportional to value,
// followed by the floored percentage.
func RenderBar(value float64) string {
	value = math.Max(0, math.Min(value, maxProgress))
	filled := int(math.Floor(value / maxProgress * barWidth))
	return fmt.Sprintf("[%s%s] %d%%",
		strings.Repeat("#", filled),
		strings.Repeat("-", barWidth-filled),
		int(math.Floor(value)),
	)
}

// increment maps a uniform sample in [0,1) to [18,37).
func increment(sample float64) float64 {
	return sample*incrementRange + minIncrement
}
