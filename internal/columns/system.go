package columns

// SystemTag pairs a SampleInfo child element with the column it fills.
type SystemTag struct {
	Tag  string
	Name string
}

// SystemTags lists the SampleInfo elements holding system defined columns,
// in column order.
var SystemTags = []SystemTag{
	{"Identifier", "Sample ID"},
	{"Name", "Sample Name"},
	{"RackCode", "Rack Code"},
	{"RackPosition", "Rack Position"},
	{"PlateCode", "Plate Code"},
	{"PlatePosition", "Plate Position"},
	{"SamplePosition", "Sample Position"},
	{"AcqMethod", "Method"},
	{"DAMethod", "Override DA Method"},
	{"DataFileName", "Data File"},
	{"SampleType", "Sample Type"},
	{"MethodExecutionType", "Method Type"},
	{"BalanceType", "Balance Override"},
	{"InjectionVolume", "Inj Vol (µl)"},
	{"EquilibrationTime", "Equilib Time (min)"},
	{"DilutionFactor", "Dilution"},
	{"WeightPerVolume", "Wt/Vol"},
	{"Description", "Comment"},
	{"Barcode", "Barcode"},
	{"Reserved1", "Reserved1"},
	{"Reserved2", "Reserved2"},
	{"Reserved3", "Reserved3"},
	{"Reserved4", "Reserved4"},
	{"Reserved5", "Reserved5"},
	{"Reserved6", "Reserved6"},
	{"CalibLevelName", "Level Name"},
	{"SampleGroup", "Sample Group"},
	{"SampleInformation", "Info."},
}

// System holds the columns every worklist carries, in declaration order.
var System = NewSet(
	mustColumn("Sample ID", 0, Text, ""),
	mustColumn("Sample Name", 1, Text, ""),
	mustColumn("Rack Code", 2, Text, ""),
	mustColumn("Rack Position", 3, Text, ""),
	mustColumn("Plate Code", 4, Text, ""),
	mustColumn("Plate Position", 5, Text, ""),
	mustColumn("Sample Position", 6, Text, ""),
	mustColumn("Method", 7, Path, nil),
	mustColumn("Override DA Method", 8, Path, nil),
	mustColumn("Data File", 9, Path, nil),
	mustColumn("Sample Type", 10, Text, "Unknown"),
	mustColumn("Method Type", 11, Text, "Method No Override", WithReorderID(12)),
	mustColumn("Balance Override", 12, Text, "No Override", WithReorderID(13)),
	mustColumn("Inj Vol (µl)", 13, InjectionVolume, 5, WithReorderID(14)),
	mustColumn("Equilib Time (min)", 14, Int, 0, WithReorderID(15)),
	mustColumn("Dilution", 15, Int, 1, WithReorderID(16)),
	mustColumn("Wt/Vol", 16, Float, 0, WithReorderID(17)),
	mustColumn("Comment", 17, Text, "", WithReorderID(18)),
	mustColumn("Barcode", 18, Text, "", WithReorderID(19)),
	mustColumn("Reserved1", 19, Text, "", WithReorderID(-1)),
	mustColumn("Reserved2", 20, Text, "", WithReorderID(-1)),
	mustColumn("Reserved3", 21, Text, "", WithReorderID(-1)),
	mustColumn("Reserved4", 22, Float, 0, WithReorderID(-1)),
	mustColumn("Reserved5", 23, Float, 0, WithReorderID(-1)),
	mustColumn("Reserved6", 24, Float, 0, WithReorderID(-1)),
	mustColumn("Level Name", 25, Text, "", WithReorderID(11)),
	mustColumn("Sample Group", 26, Text, "", WithReorderID(20)),
	mustColumn("Info.", 27, Text, "", WithReorderID(21)),
)

func mustColumn(name string, id int, dtype DType, defaultValue any, opts ...Option) Column {
	c, err := NewColumn(name, id, SystemDefined, dtype, defaultValue, opts...)
	if err != nil {
		panic(err)
	}
	return c
}
