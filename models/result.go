package models

import "time"

// CleanStats counts what the brown-dwarf cleaning pass removed.
type CleanStats struct {
	SentinelCells     int `json:"sentinel_cells"`
	DroppedIncomplete int `json:"dropped_incomplete"`
	DroppedUnparsable int `json:"dropped_unparsable"`
}

// Dropped returns the total number of removed rows.
func (s CleanStats) Dropped() int {
	return s.DroppedIncomplete + s.DroppedUnparsable
}

// DatasetResult describes one exported table.
type DatasetResult struct {
	Name  string   `json:"name"`
	Rows  int      `json:"rows"`
	Files []string `json:"files"`
}

// RunResult holds the overall result of a pipeline run.
type RunResult struct {
	RunID        string             `json:"run_id"`
	StartTime    time.Time          `json:"start_time"`
	EndTime      time.Time          `json:"end_time"`
	Datasets     []DatasetResult    `json:"datasets"`
	Cleaning     CleanStats         `json:"cleaning"`
	BrownDwarfs  []BrownDwarfRecord `json:"-"`
	RequestCount int                `json:"request_count"`
}

// Dataset returns the named dataset result.
func (r *RunResult) Dataset(name string) (DatasetResult, bool) {
	for _, d := range r.Datasets {
		if d.Name == name {
			return d, true
		}
	}
	return DatasetResult{}, false
}

// Duration returns the wall time of the run.
func (r *RunResult) Duration() time.Duration {
	return r.EndTime.Sub(r.StartTime)
}
