package worklist

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/beevik/etree"

	"github.com/mhtools/mhwork/internal/columns"
	"github.com/mhtools/mhwork/internal/xmltree"
)

const macroXML = `<%s><ProjectName>%s</ProjectName><ProcedureName></ProcedureName><InputParameter></InputParameter><OutputDataType>0</OutputDataType><OutputParameter></OutputParameter><DisplayString></DisplayString></%s>`

func paramsXML() string {
	var b strings.Builder
	b.WriteString("<Params>")
	b.WriteString("<OperatorName>analyst</OperatorName><RunType>0</RunType>")
	b.WriteString("<MethodExecutionType>FullMethod</MethodExecutionType>")
	b.WriteString(`<AcqMethodPath>D:\MassHunter\Methods\acq.m</AcqMethodPath><DAMethodPath></DAMethodPath>`)
	b.WriteString(`<ExportOutputPath>D:\Export</ExportOutputPath><CombineExportOutput>0</CombineExportOutput>`)
	b.WriteString("<CombinedExportOutputFile></CombinedExportOutputFile><CombineOutputByPlate>0</CombineOutputByPlate>")
	b.WriteString("<SynchronousExecution>-1</SynchronousExecution><StopWorklistOnDAError>0</StopWorklistOnDAError>")
	b.WriteString("<OverlappedInjections>0</OverlappedInjections><UseBarcode>0</UseBarcode>")
	b.WriteString("<InjectOnBarcodeMismatch>0</InjectOnBarcodeMismatch><ThresholdDiskSpace>50</ThresholdDiskSpace>")
	b.WriteString("<ReadyTimeOut>300</ReadyTimeOut><ClearRunCheckBox>0</ClearRunCheckBox>")
	b.WriteString("<UsePreWorklistMacro>0</UsePreWorklistMacro>")
	fmt.Fprintf(&b, macroXML, "PreWorklistMacro", "", "PreWorklistMacro")
	b.WriteString("<UsePostWorklistMacro>-1</UsePostWorklistMacro>")
	fmt.Fprintf(&b, macroXML, "PostWorklistMacro", "Cleanup", "PostWorklistMacro")
	b.WriteString("<RunAcqCleanMacroOnError>0</RunAcqCleanMacroOnError>")
	fmt.Fprintf(&b, macroXML, "AcqCleanMacro", "", "AcqCleanMacro")
	b.WriteString("<UsePostAnalysisMacro>0</UsePostAnalysisMacro>")
	fmt.Fprintf(&b, macroXML, "PostAnalysisMacro", "", "PostAnalysisMacro")
	b.WriteString("<Description>  nightly run  </Description><PlateBarCodes></PlateBarCodes>")
	b.WriteString("</Params>")
	return b.String()
}

type attributeFixture struct {
	id, attrType, dataType int
	header, defaultValue   string
}

func (a attributeFixture) xml() string {
	return fmt.Sprintf(`<Attributes><AttributeID>%d</AttributeID><AttributeType>%d</AttributeType>`+
		`<FieldType>%d</FieldType><SystemName>%s</SystemName><HeaderName>%s</HeaderName>`+
		`<DataType>%d</DataType><DefaultDataValue>%s</DefaultDataValue><ReorderID>%d</ReorderID>`+
		`<ShowHideStatus>-1</ShowHideStatus><ColumnWidth>100</ColumnWidth></Attributes>`,
		a.id, a.attrType, a.id+45, a.header, a.header, a.dataType, a.defaultValue, a.id)
}

type jobFixture struct {
	id        string
	overrides map[string]string
	data      map[int]string
}

var systemValues = map[string]string{
	"Name": "Blank", "SampleType": "Blank", "AcqMethod": `D:\Methods\screen.m`,
	"DataFileName": `D:\Data\blank_001.d`, "InjectionVolume": "-1", "DilutionFactor": "2",
}

func (j jobFixture) xml() string {
	var b strings.Builder
	fmt.Fprintf(&b, "<JobData><ID>%s</ID><JobType>0</JobType><RunStatus>0</RunStatus><SampleInfo>", j.id)
	b.WriteString("<AcqTime>2020-12-08T15:30:00+01:00</AcqTime><SampleLockedRunMode>0</SampleLockedRunMode>")
	b.WriteString("<RunCompletedFlag>-1</RunCompletedFlag><Label>A1</Label>")
	for _, tag := range columns.SystemTags {
		v, ok := j.overrides[tag.Tag]
		if !ok {
			v = systemValues[tag.Tag]
		}
		fmt.Fprintf(&b, "<%s>%s</%s>", tag.Tag, v, tag.Tag)
	}
	for id, v := range j.data {
		fmt.Fprintf(&b, "<SampleDataArray><AttributeID>%d</AttributeID><DataValue>%s</DataValue></SampleDataArray>", id, v)
	}
	b.WriteString("</SampleInfo></JobData>")
	return b.String()
}

type worklistFixture struct {
	lockedRunMode string
	attributes    []attributeFixture
	jobs          []jobFixture
}

func (f worklistFixture) xml() string {
	locked := f.lockedRunMode
	if locked == "" {
		locked = "0"
	}
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="utf-8"?>`)
	b.WriteString("<WorklistData><Version>1.3</Version>")
	b.WriteString(`<Checksum SchemaVersion="1" ALGO_VERSION="2"><MAIN HASHCODE="abcdefg"/></Checksum>`)
	fmt.Fprintf(&b, "<WorklistInfo><LockedRunMode>%s</LockedRunMode><Instrument>QQQ-01</Instrument>", locked)
	b.WriteString(paramsXML())
	b.WriteString("<AttributeInformation>")
	for _, a := range f.attributes {
		b.WriteString(a.xml())
	}
	b.WriteString("</AttributeInformation><JobDataList>")
	for _, j := range f.jobs {
		b.WriteString(j.xml())
	}
	b.WriteString("</JobDataList></WorklistInfo></WorklistData>")
	return b.String()
}

func (f worklistFixture) root(t *testing.T) *etree.Element {
	t.Helper()
	root, err := xmltree.ParseString(f.xml())
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return root
}

func (f worklistFixture) write(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "worklist.wkl")
	if err := os.WriteFile(path, []byte(f.xml()), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func element(t *testing.T, s string) *etree.Element {
	t.Helper()
	el, err := xmltree.ParseString(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return el
}

const jobID = "{8B0A3E1C-5E2A-4F5B-9D7C-1A2B3C4D5E6F}"
