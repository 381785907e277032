package worklist

import (
	"fmt"

	"github.com/beevik/etree"

	"github.com/mhtools/mhwork/internal/model"
	"github.com/mhtools/mhwork/internal/xmltree"
)

func decodeParams(el *etree.Element) (model.Params, error) {
	r := newFieldReader(el)
	p := model.Params{
		OperatorName:             r.text("OperatorName"),
		RunType:                  r.int("RunType"),
		MethodExecutionType:      r.text("MethodExecutionType"),
		AcqMethodPath:            r.path("AcqMethodPath"),
		DAMethodPath:             r.path("DAMethodPath"),
		ExportOutputPath:         r.path("ExportOutputPath"),
		CombineExportOutput:      r.bool("CombineExportOutput"),
		CombinedExportOutputFile: r.path("CombinedExportOutputFile"),
		CombineOutputByPlate:     r.bool("CombineOutputByPlate"),
		SynchronousExecution:     r.bool("SynchronousExecution"),
		StopWorklistOnDAError:    r.bool("StopWorklistOnDAError"),
		OverlappedInjections:     r.bool("OverlappedInjections"),
		UseBarcode:               r.bool("UseBarcode"),
		InjectOnBarcodeMismatch:  r.bool("InjectOnBarcodeMismatch"),
		ThresholdDiskSpace:       r.int("ThresholdDiskSpace"),
		ReadyTimeOut:             r.int("ReadyTimeOut"),
		ClearRunCheckbox:         r.bool("ClearRunCheckBox"),
		UsePreWorklistMacro:      r.bool("UsePreWorklistMacro"),
		UsePostWorklistMacro:     r.bool("UsePostWorklistMacro"),
		RunAcqCleanMacroOnError:  r.bool("RunAcqCleanMacroOnError"),
		UsePostAnalysisMacro:     r.bool("UsePostAnalysisMacro"),
		Description:              r.text("Description"),
		PlateBarCodes:            r.text("PlateBarCodes"),
	}
	if r.err != nil {
		return model.Params{}, fmt.Errorf("decoding params: %w", r.err)
	}

	macros := []struct {
		tag string
		dst *model.Macro
	}{
		{"PreWorklistMacro", &p.PreWorklistMacro},
		{"PostWorklistMacro", &p.PostWorklistMacro},
		{"AcqCleanMacro", &p.AcqCleanMacro},
		{"PostAnalysisMacro", &p.PostAnalysisMacro},
	}
	for _, m := range macros {
		macroEl, err := xmltree.Child(el, m.tag)
		if err != nil {
			return model.Params{}, fmt.Errorf("decoding params: %w", err)
		}
		if *m.dst, err = decodeMacro(macroEl); err != nil {
			return model.Params{}, fmt.Errorf("decoding params: <%s>: %w", m.tag, err)
		}
	}

	return p, nil
}

func decodeMacro(el *etree.Element) (model.Macro, error) {
	r := newFieldReader(el)
	m := model.Macro{
		ProjectName:     r.text("ProjectName"),
		ProcedureName:   r.text("ProcedureName"),
		InputParameter:  r.text("InputParameter"),
		OutputDataType:  r.int("OutputDataType"),
		OutputParameter: r.text("OutputParameter"),
		DisplayString:   r.text("DisplayString"),
	}
	if r.err != nil {
		return model.Macro{}, r.err
	}
	return m, nil
}

func decodeChecksum(el *etree.Element) (model.Checksum, error) {
	schema, err := xmltree.Attr(el, "SchemaVersion")
	if err != nil {
		return model.Checksum{}, fmt.Errorf("decoding checksum: %w", err)
	}
	algo, err := xmltree.Attr(el, "ALGO_VERSION")
	if err != nil {
		return model.Checksum{}, fmt.Errorf("decoding checksum: %w", err)
	}
	main, err := xmltree.Child(el, "MAIN")
	if err != nil {
		return model.Checksum{}, fmt.Errorf("decoding checksum: %w", err)
	}
	hash, err := xmltree.Attr(main, "HASHCODE")
	if err != nil {
		return model.Checksum{}, fmt.Errorf("decoding checksum: %w", err)
	}
	return model.Checksum{SchemaVersion: schema, AlgoVersion: algo, HashCode: hash}, nil
}
