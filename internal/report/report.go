package report

import (
	"bytes"
	"errors"

	"github.com/katie878/motion-tracking/internal/store"

	chart "github.com/wcharczuk/go-chart/v2"
)

var ErrUnknownMetric = errors.New("unknown metric")
var ErrNoData = errors.New("no files to chart")

// GroupSummary holds the straight averages of every numeric metric over
// a group's files.
type GroupSummary struct {
	GroupID         string  `json:"group_id"`
	GroupName       string  `json:"group_name"`
	Files           int     `json:"files"`
	DurationSec     float64 `json:"duration_sec"`
	AverageSpeed    float64 `json:"average_speed"`
	MaxSpeed        float64 `json:"max_speed"`
	MaxDisplacement float64 `json:"max_displacement"`
	TotalPath       float64 `json:"total_path"`
}

// Summary is the per-group table plus the cross-group overall row,
// averaged over all files regardless of group.
type Summary struct {
	Groups  []GroupSummary `json:"groups"`
	Overall GroupSummary   `json:"overall"`
}

func Build(views []store.GroupView) Summary {
	var summary Summary
	var all []store.FileRecord
	for _, view := range views {
		summary.Groups = append(summary.Groups, summarize(view.ID, view.Name, view.Files))
		all = append(all, view.Files...)
	}
	summary.Overall = summarize("", "overall", all)
	return summary
}

func summarize(id, name string, files []store.FileRecord) GroupSummary {
	s := GroupSummary{GroupID: id, GroupName: name, Files: len(files)}
	if len(files) == 0 {
		return s
	}
	for _, f := range files {
		s.DurationSec += f.DurationSec
		s.AverageSpeed += f.AverageSpeed
		s.MaxSpeed += f.MaxSpeed
		s.MaxDisplacement += f.MaxDisplacement
		s.TotalPath += f.TotalPath
	}
	n := float64(len(files))
	s.DurationSec /= n
	s.AverageSpeed /= n
	s.MaxSpeed /= n
	s.MaxDisplacement /= n
	s.TotalPath /= n
	return s
}

func metricValue(s GroupSummary, metric string) (float64, error) {
	switch metric {
	case "duration_sec":
		return s.DurationSec, nil
	case "average_speed":
		return s.AverageSpeed, nil
	case "max_speed":
		return s.MaxSpeed, nil
	case "max_displacement":
		return s.MaxDisplacement, nil
	case "total_path":
		return s.TotalPath, nil
	default:
		return 0, ErrUnknownMetric
	}
}

// Chart renders one bar per group with at least one file, showing the
// group's average of the selected metric, as a PNG.
func Chart(summary Summary, metric string) ([]byte, error) {
	if _, err := metricValue(GroupSummary{}, metric); err != nil {
		return nil, err
	}

	var bars []chart.Value
	for _, g := range summary.Groups {
		if g.Files == 0 {
			continue
		}
		v, err := metricValue(g, metric)
		if err != nil {
			return nil, err
		}
		bars = append(bars, chart.Value{Label: g.GroupName, Value: v})
	}
	if len(bars) == 0 {
		return nil, ErrNoData
	}

	barChart := chart.BarChart{
		Title:    metric,
		Height:   512,
		BarWidth: 60,
		Bars:     bars,
	}

	var buf bytes.Buffer
	if err := barChart.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
