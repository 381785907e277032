package worklist

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/mhtools/mhwork/internal/columns"
	"github.com/mhtools/mhwork/internal/convert"
	"github.com/mhtools/mhwork/internal/model"
	"github.com/mhtools/mhwork/internal/xmltree"
)

// DecodeSampleInfo reads a <SampleInfo> element. Values held in
// SampleDataArray children are cast through the matching userColumns entries;
// ids with no matching column are skipped.
func DecodeSampleInfo(el *etree.Element, userColumns *columns.Set) (model.SampleInfo, error) {
	r := newFieldReader(el)
	info := make(model.SampleInfo, len(model.DerivedFields)+columns.System.Len()+userColumns.Len())

	acqTime, _ := r.raw("AcqTime")
	info[model.SampleLockedRunMode] = r.bool("SampleLockedRunMode")
	info[model.RunCompleted] = r.bool("RunCompletedFlag")
	info[model.Label] = r.text("Label")
	if r.err != nil {
		return nil, fmt.Errorf("decoding sample info: %w", r.err)
	}

	acquired, err := convert.ParseDatetime(acqTime)
	if err != nil {
		return nil, fmt.Errorf("decoding sample info: <AcqTime>: %w", err)
	}
	info[model.AcquiredTime] = acquired

	for _, tag := range columns.SystemTags {
		raw, err := xmltree.TrimmedText(el, tag.Tag)
		if err != nil {
			return nil, fmt.Errorf("decoding sample info: %w", err)
		}
		column, _ := columns.System.Lookup(tag.Name)
		v, err := column.CastValue(raw)
		if err != nil {
			return nil, fmt.Errorf("decoding sample info: <%s>: %w", tag.Tag, err)
		}
		info[tag.Name] = v
	}

	if userColumns.Len() == 0 {
		return info, nil
	}
	for _, data := range el.SelectElements("SampleDataArray") {
		idText, err := xmltree.TrimmedText(data, "AttributeID")
		if err != nil {
			return nil, fmt.Errorf("decoding sample data: %w", err)
		}
		id, err := strconv.Atoi(idText)
		if err != nil {
			return nil, fmt.Errorf("decoding sample data: <AttributeID>: %w", err)
		}

		matches := userColumns.ByID(id)
		if len(matches) == 0 {
			continue
		}

		raw, err := xmltree.Text(data, "DataValue")
		if err != nil {
			return nil, fmt.Errorf("decoding sample data %d: %w", id, err)
		}
		for _, column := range matches {
			v, err := column.CastValue(strings.TrimSpace(raw))
			if err != nil {
				return nil, fmt.Errorf("decoding sample data %d: %w", id, err)
			}
			info[column.Name] = v
		}
	}

	return info, nil
}
