package model

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cast"

	"github.com/mhtools/mhwork/internal/convert"
)

// FormatValue renders a SampleInfo value as text for export.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case time.Time:
		return x.Format(time.RFC3339)
	case convert.WindowsPath:
		return string(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return s
}
