package worklist

import (
	"fmt"

	"github.com/beevik/etree"

	"github.com/mhtools/mhwork/internal/columns"
	"github.com/mhtools/mhwork/internal/model"
)

// DecodeJob reads a <JobData> element.
func DecodeJob(el *etree.Element, userColumns *columns.Set) (model.JobEntry, error) {
	r := newFieldReader(el)
	rawID := r.text("ID")
	jobType := r.int("JobType")
	runStatus := r.int("RunStatus")
	sampleEl := r.child("SampleInfo")
	if r.err != nil {
		return model.JobEntry{}, fmt.Errorf("decoding job: %w", r.err)
	}

	id, err := model.ParseJobID(rawID)
	if err != nil {
		return model.JobEntry{}, fmt.Errorf("decoding job: %w", err)
	}

	info, err := DecodeSampleInfo(sampleEl, userColumns)
	if err != nil {
		return model.JobEntry{}, fmt.Errorf("decoding job %s: %w", id, err)
	}

	return model.NewJobEntry(id, jobType, runStatus, info), nil
}
