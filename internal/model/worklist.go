package model

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/mhtools/mhwork/internal/columns"
	"github.com/mhtools/mhwork/internal/convert"
)

// Keys present in every SampleInfo in addition to the column values.
const (
	AcquiredTime        = "Acquired Time"
	SampleLockedRunMode = "Sample Locked Run Mode"
	RunCompleted        = "Run Completed"
	Label               = "Label"
)

// DerivedFields is the ordered list of SampleInfo keys that are not columns.
var DerivedFields = []string{AcquiredTime, SampleLockedRunMode, RunCompleted, Label}

// SampleInfo maps a column display name to its cast value.
type SampleInfo map[string]any

// JobEntry is one injection in a worklist.
type JobEntry struct {
	ID         uuid.UUID  `json:"id"`
	JobType    int        `json:"job_type"`
	RunStatus  int        `json:"run_status"`
	SampleInfo SampleInfo `json:"sample_info"`
}

// ParseJobID parses a job identifier. Braced, URN and plain forms are accepted.
func ParseJobID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("parsing job id %q: %w", s, err)
	}
	return id, nil
}

// NewJobEntry builds a JobEntry. A nil info becomes an empty SampleInfo.
func NewJobEntry(id uuid.UUID, jobType, runStatus int, info SampleInfo) JobEntry {
	if info == nil {
		info = SampleInfo{}
	}
	return JobEntry{ID: id, JobType: jobType, RunStatus: runStatus, SampleInfo: info}
}

func (j JobEntry) String() string {
	return fmt.Sprintf("JobEntry(id=%s, job_type=%d, run_status=%d)", j.ID, j.JobType, j.RunStatus)
}

// Checksum is the worklist checksum. Its format is not documented, so the
// three parts are kept verbatim.
type Checksum struct {
	SchemaVersion string `json:"schema_version"`
	AlgoVersion   string `json:"algo_version"`
	HashCode      string `json:"hash_code"`
}

// Macro describes an automation hook run around a worklist.
type Macro struct {
	ProjectName     string `json:"project_name"`
	ProcedureName   string `json:"procedure_name"`
	InputParameter  string `json:"input_parameter"`
	OutputDataType  int    `json:"output_data_type"`
	OutputParameter string `json:"output_parameter"`
	DisplayString   string `json:"display_string"`
}

// Undefined reports whether no field of the macro is set.
func (m Macro) Undefined() bool {
	return m == Macro{}
}

func (m Macro) String() string {
	if m.Undefined() {
		return "Macro(Undefined)"
	}
	return fmt.Sprintf("Macro(project_name=%q, procedure_name=%q, input_parameter=%q, output_data_type=%d, output_parameter=%q, display_string=%q)",
		m.ProjectName, m.ProcedureName, m.InputParameter, m.OutputDataType, m.OutputParameter, m.DisplayString)
}

// Params holds the worklist execution parameters.
type Params struct {
	OperatorName             string               `json:"operator_name"`
	RunType                  int                  `json:"run_type"`
	MethodExecutionType      string               `json:"method_execution_type"`
	AcqMethodPath            *convert.WindowsPath `json:"acq_method_path"`
	DAMethodPath             *convert.WindowsPath `json:"da_method_path"`
	ExportOutputPath         *convert.WindowsPath `json:"export_output_path"`
	CombineExportOutput      bool                 `json:"combine_export_output"`
	CombinedExportOutputFile *convert.WindowsPath `json:"combined_export_output_file"`
	CombineOutputByPlate     bool                 `json:"combine_output_by_plate"`
	SynchronousExecution     bool                 `json:"synchronous_execution"`
	StopWorklistOnDAError    bool                 `json:"stop_worklist_on_da_error"`
	OverlappedInjections     bool                 `json:"overlapped_injections"`
	UseBarcode               bool                 `json:"use_barcode"`
	InjectOnBarcodeMismatch  bool                 `json:"inject_on_barcode_mismatch"`
	ThresholdDiskSpace       int                  `json:"threshold_disk_space"`
	ReadyTimeOut             int                  `json:"ready_time_out"`
	ClearRunCheckbox         bool                 `json:"clear_run_checkbox"`
	UsePreWorklistMacro      bool                 `json:"use_pre_worklist_macro"`
	PreWorklistMacro         Macro                `json:"pre_worklist_macro"`
	UsePostWorklistMacro     bool                 `json:"use_post_worklist_macro"`
	PostWorklistMacro        Macro                `json:"post_worklist_macro"`
	RunAcqCleanMacroOnError  bool                 `json:"run_acq_clean_macro_on_error"`
	AcqCleanMacro            Macro                `json:"acq_clean_macro"`
	UsePostAnalysisMacro     bool                 `json:"use_post_analysis_macro"`
	PostAnalysisMacro        Macro                `json:"post_analysis_macro"`
	Description              string               `json:"description"`
	PlateBarCodes            string               `json:"plate_bar_codes"`
}

// Worklist is a decoded MassHunter worklist.
type Worklist struct {
	Version        float64
	LockedRunMode  bool
	InstrumentName string
	Params         Params
	// UserColumns holds the system used and user added columns declared in
	// the file, in discovery order.
	UserColumns *columns.Set
	Jobs        []JobEntry
	Checksum    Checksum
}
