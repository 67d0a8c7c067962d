package kinematics

import (
	"math"
	"strconv"
	"strings"
)

// Point is a single position sample at a frame index. Frame values are
// taken from the file as-is: not necessarily sorted, unique, or integral.
type Point struct {
	Frame float64 `json:"frame"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Z     float64 `json:"z"`
}

// FileMetrics is the per-file aggregate derived once from the parsed
// samples. Skipped counts rejected events, not lines: a line can fail
// token parsing, and a valid point can later be rejected again when its
// frame delta to the previous point is not positive.
type FileMetrics struct {
	FileName        string  `json:"file_name"`
	Points          int     `json:"points"`
	Skipped         int     `json:"skipped"`
	DurationSec     float64 `json:"duration_sec"`
	AverageSpeed    float64 `json:"average_speed"`
	MaxSpeed        float64 `json:"max_speed"`
	MaxDisplacement float64 `json:"max_displacement"`
	TotalPath       float64 `json:"total_path"`
}

// ValidFPS reports whether fps can be used as a frame rate: a finite,
// strictly positive number.
func ValidFPS(fps float64) bool {
	return !math.IsNaN(fps) && !math.IsInf(fps, 0) && fps > 0
}

// ParsePoints tokenizes raw track text into position samples. Each
// non-empty line must carry at least four whitespace-separated numeric
// fields: frame x y z. Empty lines are ignored without counting; any
// other malformed line increments the skip count and is dropped.
func ParsePoints(text string) ([]Point, int) {
	var points []Point
	skipped := 0

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 4 {
			skipped++
			continue
		}
		var values [4]float64
		ok := true
		for i := 0; i < 4; i++ {
			v, valid := parseField(fields[i])
			if !valid {
				ok = false
				break
			}
			values[i] = v
		}
		if !ok {
			skipped++
			continue
		}
		points = append(points, Point{Frame: values[0], X: values[1], Y: values[2], Z: values[3]})
	}
	return points, skipped
}

func parseField(token string) (float64, bool) {
	v, err := strconv.ParseFloat(token, 64)
	if err != nil || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// Compute derives movement metrics from samples in their original file
// order. Fewer than two points yields an all-zero record. Segments with a
// non-positive frame delta are counted as skipped and omitted from path
// and speed accumulation; they never stop the scan.
func Compute(points []Point, fps float64) FileMetrics {
	m := FileMetrics{Points: len(points)}
	if len(points) < 2 {
		return m
	}

	first := points[0]
	last := points[len(points)-1]
	m.DurationSec = math.Max(0, (last.Frame-first.Frame)/fps)

	for i := 1; i < len(points); i++ {
		prev, cur := points[i-1], points[i]
		deltaFrames := cur.Frame - prev.Frame
		if deltaFrames <= 0 {
			m.Skipped++
			continue
		}
		d := distance(prev, cur)
		m.TotalPath += d
		speed := d / (deltaFrames / fps)
		if speed > m.MaxSpeed {
			m.MaxSpeed = speed
		}
	}

	for _, p := range points {
		if d := distance(first, p); d > m.MaxDisplacement {
			m.MaxDisplacement = d
		}
	}

	if m.DurationSec > 0 {
		m.AverageSpeed = m.TotalPath / m.DurationSec
	}
	return m
}

// ParseTrack parses raw file text and computes its metrics in one pass.
// The returned Skipped merges line-parse rejections with segment
// rejections from Compute.
func ParseTrack(fileName, text string, fps float64) FileMetrics {
	points, skipped := ParsePoints(text)
	m := Compute(points, fps)
	m.FileName = fileName
	m.Skipped += skipped
	return m
}

func distance(a, b Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	dz := b.Z - a.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}
