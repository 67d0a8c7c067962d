package kinematics

import (
	"math"
	"testing"
)

const tolerance = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < tolerance
}

func TestParseTrackKnownValues(t *testing.T) {
	m := ParseTrack("walk.txt", "0 0 0 0\n30 0 0 90\n", 30)
	if m.Points != 2 || m.Skipped != 0 {
		t.Fatalf("unexpected counts: %+v", m)
	}
	if !almostEqual(m.DurationSec, 1.0) {
		t.Fatalf("duration: %v", m.DurationSec)
	}
	if !almostEqual(m.TotalPath, 90.0) {
		t.Fatalf("total path: %v", m.TotalPath)
	}
	if !almostEqual(m.AverageSpeed, 90.0) || !almostEqual(m.MaxSpeed, 90.0) {
		t.Fatalf("speeds: %v %v", m.AverageSpeed, m.MaxSpeed)
	}
	if !almostEqual(m.MaxDisplacement, 90.0) {
		t.Fatalf("displacement: %v", m.MaxDisplacement)
	}
	if m.FileName != "walk.txt" {
		t.Fatalf("file name: %q", m.FileName)
	}
}

func TestParsePointsMalformedLines(t *testing.T) {
	text := "1 2 3\nnot numbers at all\n0 1 2 3\n\n   \n1 4 5 6 extra tokens ok\n"
	points, skipped := ParsePoints(text)
	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(points))
	}
	if skipped != 2 {
		t.Fatalf("expected 2 skipped, got %d", skipped)
	}
}

func TestParsePointsThreeTokensAlwaysSkipped(t *testing.T) {
	_, skipped := ParsePoints("1 2 3")
	if skipped != 1 {
		t.Fatalf("expected skip for 3-token line, got %d", skipped)
	}
}

func TestParsePointsRejectsNaN(t *testing.T) {
	points, skipped := ParsePoints("0 NaN 0 0\n1 0 0 0")
	if len(points) != 1 || skipped != 1 {
		t.Fatalf("expected NaN field rejection: %d points, %d skipped", len(points), skipped)
	}
}

func TestParsePointsCarriageReturns(t *testing.T) {
	points, skipped := ParsePoints("0 1 1 1\r\n1 2 2 2\r\n")
	if len(points) != 2 || skipped != 0 {
		t.Fatalf("CRLF input: %d points, %d skipped", len(points), skipped)
	}
}

func TestComputeFewerThanTwoPoints(t *testing.T) {
	for _, points := range [][]Point{nil, {{Frame: 5, X: 1, Y: 2, Z: 3}}} {
		m := Compute(points, 30)
		if m.DurationSec != 0 || m.TotalPath != 0 || m.AverageSpeed != 0 ||
			m.MaxSpeed != 0 || m.MaxDisplacement != 0 {
			t.Fatalf("expected zero metrics for %d points: %+v", len(points), m)
		}
		if m.Points != len(points) {
			t.Fatalf("point count: %+v", m)
		}
	}
}

func TestComputeStraightLineConstantSpacing(t *testing.T) {
	var points []Point
	for i := 0; i < 10; i++ {
		points = append(points, Point{Frame: float64(i), X: float64(i) * 2})
	}
	m := Compute(points, 30)
	if !almostEqual(m.AverageSpeed, m.MaxSpeed) {
		t.Fatalf("expected average == max speed: %v vs %v", m.AverageSpeed, m.MaxSpeed)
	}
}

func TestComputeNonIncreasingFrameSegments(t *testing.T) {
	points := []Point{
		{Frame: 0, X: 0},
		{Frame: 10, X: 30},
		{Frame: 10, X: 100}, // zero delta: skipped
		{Frame: 5, X: 500},  // negative delta: skipped
		{Frame: 20, X: 530},
	}
	m := Compute(points, 30)
	if m.Skipped != 2 {
		t.Fatalf("expected 2 skipped segments, got %d", m.Skipped)
	}
	// 0->10 contributes 30, 5->20 contributes 30; skipped segments none.
	if !almostEqual(m.TotalPath, 60) {
		t.Fatalf("total path: %v", m.TotalPath)
	}
	if m.MaxSpeed == 0 {
		t.Fatalf("expected subsequent segments to still accumulate")
	}
}

func TestSkippedMergesParseAndSegmentRejections(t *testing.T) {
	// One malformed line plus one non-increasing segment on valid points.
	text := "garbage\n0 0 0 0\n0 5 0 0\n10 5 0 0\n"
	m := ParseTrack("merge.txt", text, 30)
	if m.Points != 3 {
		t.Fatalf("points: %d", m.Points)
	}
	if m.Skipped != 2 {
		t.Fatalf("expected merged skip count 2, got %d", m.Skipped)
	}
}

func TestComputeMaxDisplacementCoincidingPoints(t *testing.T) {
	points := []Point{{Frame: 0, X: 1, Y: 1, Z: 1}, {Frame: 1, X: 1, Y: 1, Z: 1}, {Frame: 2, X: 1, Y: 1, Z: 1}}
	m := Compute(points, 30)
	if m.MaxDisplacement != 0 {
		t.Fatalf("expected zero displacement, got %v", m.MaxDisplacement)
	}
	if m.MaxDisplacement < 0 {
		t.Fatalf("displacement must be non-negative")
	}
}

func TestComputeDurationClampedNonNegative(t *testing.T) {
	points := []Point{{Frame: 100, X: 0}, {Frame: 0, X: 10}}
	m := Compute(points, 30)
	if m.DurationSec != 0 {
		t.Fatalf("expected clamped duration, got %v", m.DurationSec)
	}
	if m.AverageSpeed != 0 {
		t.Fatalf("average speed must be zero when duration is zero")
	}
}

func TestValidFPS(t *testing.T) {
	for _, fps := range []float64{29.999, 30, 1, 0.5} {
		if !ValidFPS(fps) {
			t.Fatalf("expected %v valid", fps)
		}
	}
	for _, fps := range []float64{0, -1, math.NaN(), math.Inf(1), math.Inf(-1)} {
		if ValidFPS(fps) {
			t.Fatalf("expected %v invalid", fps)
		}
	}
}
