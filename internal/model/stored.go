package model

// JobFields lists the columns of the jobs table in scan order.
var JobFields = []string{
	"id", "worklist_id", "seq", "job_id", "job_type", "run_status",
	"acquired_time", "label", "run_completed", "sample_locked",
}

// WorklistSummary describes one stored worklist.
type WorklistSummary struct {
	ID             int64    `json:"id"`
	Name           string   `json:"name"`
	Version        float64  `json:"version"`
	InstrumentName string   `json:"instrument_name"`
	OperatorName   string   `json:"operator_name"`
	LockedRunMode  bool     `json:"locked_run_mode"`
	Checksum       Checksum `json:"checksum"`
	Jobs           int64    `json:"jobs"`
	StoredAt       string   `json:"stored_at"`
}

// StoredJob is a job read back from a store. Values holds the text form of
// every column value; a nil entry is a value that was empty when stored.
type StoredJob struct {
	ID           int64              `json:"id"`
	WorklistID   int64              `json:"worklist_id"`
	Seq          int                `json:"seq"`
	JobID        string             `json:"job_id"`
	JobType      int                `json:"job_type"`
	RunStatus    int                `json:"run_status"`
	AcquiredTime string             `json:"acquired_time"`
	Label        string             `json:"label"`
	RunCompleted bool               `json:"run_completed"`
	SampleLocked bool               `json:"sample_locked"`
	Values       map[string]*string `json:"values"`
}

// IsValidJobField reports whether name is a column of the jobs table.
func IsValidJobField(name string) bool {
	for _, f := range JobFields {
		if f == name {
			return true
		}
	}
	return false
}

// StoredTable projects stored jobs onto headers, taken from Values.
func StoredTable(jobs []*StoredJob, headers []string) *Table {
	rows := make([][]any, len(jobs))
	for i, j := range jobs {
		row := make([]any, len(headers))
		for k, h := range headers {
			if v := j.Values[h]; v != nil {
				row[k] = *v
			}
		}
		rows[i] = row
	}
	return &Table{Headers: headers, Rows: rows}
}
