package worklist

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/mhtools/mhwork/internal/columns"
	"github.com/mhtools/mhwork/internal/model"
	"github.com/mhtools/mhwork/internal/xmltree"
)

// Read loads the worklist file at path and decodes it.
func Read(path string) (*model.Worklist, error) {
	root, err := xmltree.Load(path)
	if err != nil {
		return nil, err
	}
	w, err := Assemble(root)
	if err != nil {
		return nil, fmt.Errorf("reading worklist %s: %w", path, err)
	}
	return w, nil
}

// Assemble decodes a worklist from its root element.
func Assemble(root *etree.Element) (*model.Worklist, error) {
	r := newFieldReader(root)
	version := r.float("Version")
	checksumEl := r.child("Checksum")
	info := r.child("WorklistInfo")
	if r.err != nil {
		return nil, r.err
	}

	checksum, err := decodeChecksum(checksumEl)
	if err != nil {
		return nil, err
	}

	lockedRunMode, err := decodeLockedRunMode(info)
	if err != nil {
		return nil, err
	}

	ir := newFieldReader(info)
	instrument := ir.text("Instrument")
	paramsEl := ir.child("Params")
	attributeInfo := ir.child("AttributeInformation")
	jobList := ir.child("JobDataList")
	if ir.err != nil {
		return nil, ir.err
	}

	params, err := decodeParams(paramsEl)
	if err != nil {
		return nil, err
	}

	userColumns, err := discoverColumns(attributeInfo)
	if err != nil {
		return nil, err
	}

	jobElements := jobList.SelectElements("JobData")
	jobs := make([]model.JobEntry, 0, len(jobElements))
	for i, el := range jobElements {
		job, err := DecodeJob(el, userColumns)
		if err != nil {
			return nil, fmt.Errorf("job %d: %w", i, err)
		}
		jobs = append(jobs, job)
	}

	return &model.Worklist{
		Version:        version,
		LockedRunMode:  lockedRunMode,
		InstrumentName: instrument,
		Params:         params,
		UserColumns:    userColumns,
		Jobs:           jobs,
		Checksum:       checksum,
	}, nil
}

func decodeLockedRunMode(info *etree.Element) (bool, error) {
	raw, err := xmltree.TrimmedText(info, "LockedRunMode")
	if err != nil {
		return false, err
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return false, &columns.InvalidEnumValueError{Field: "LockedRunMode", Value: raw}
	}
	switch n {
	case -1:
		return true, nil
	case 0:
		return false, nil
	default:
		return false, &columns.InvalidEnumValueError{Field: "LockedRunMode", Value: raw}
	}
}

// discoverColumns builds the frozen set of non system defined columns.
func discoverColumns(el *etree.Element) (*columns.Set, error) {
	var found []columns.Column
	for _, attrEl := range el.SelectElements("Attributes") {
		attr, err := DecodeAttribute(attrEl)
		if err != nil {
			return nil, err
		}
		if attr.AttributeType == columns.SystemDefined {
			continue
		}
		column, err := columns.FromAttribute(attr)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", strings.TrimSpace(attr.HeaderName), err)
		}
		found = append(found, column)
	}
	return columns.NewSet(found...), nil
}
