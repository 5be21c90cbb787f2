package analysis

import (
	"time"
)

// RecordID identifies a stored analysis record
type RecordID int64

// Averages value object: the three per-column means
type Averages struct {
	Flowrate    float64 `json:"flowrate"`
	Pressure    float64 `json:"pressure"`
	Temperature float64 `json:"temperature"`
}

// Distribution is a label→count histogram over the type column.
// Labels and Values are parallel slices and always the same length.
type Distribution struct {
	Labels []string `json:"labels"`
	Values []int    `json:"values"`
}

// Result is the outcome of analyzing one uploaded table.
// Immutable once created.
type Result struct {
	TotalCount   int          `json:"total_count"`
	Averages     Averages     `json:"averages"`
	Distribution Distribution `json:"distribution"`
}

// Aggregate Root: Record ties one Result to one user at one point in time.
// Records are write-once; only the retention trim ever deletes them.
type Record struct {
	ID        RecordID  `json:"-"`
	Owner     int64     `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	Data      Result    `json:"data"`
}

// MaxRecordsPerUser caps the per-user history; the trim deletes everything
// older than the newest MaxRecordsPerUser rows.
const MaxRecordsPerUser = 5
