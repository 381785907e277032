// Package convert holds the scalar conversions shared by the worklist
// decoders: the instrument's boolean vocabulary, its timestamp layout and
// Windows-style file paths.
package convert

import (
	"fmt"
	"strings"
	"time"
)

// Epoch is returned by ParseDatetime for blank input.
var Epoch = time.Unix(0, 0).UTC()

// BoolError reports text outside the recognised truthy/falsy vocabulary.
type BoolError struct {
	Value string
}

func (e *BoolError) Error() string {
	return fmt.Sprintf("invalid truth value %q", e.Value)
}

var truthValues = map[string]bool{
	"y": true, "yes": true, "t": true, "true": true, "on": true, "1": true, "-1": true,
	"n": false, "no": false, "f": false, "false": false, "off": false, "0": false,
}

// ParseBool converts worklist flag text to a bool. The instrument writes
// -1 for true, so "-1" is accepted alongside the usual yes/no vocabulary.
// Matching is case-insensitive and ignores surrounding whitespace.
func ParseBool(s string) (bool, error) {
	v, ok := truthValues[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return false, &BoolError{Value: s}
	}
	return v, nil
}

// dateLayout is the instrument's timestamp with fractional seconds removed
// and the offset colon folded away.
const dateLayout = "2006-01-02T15:04:05-0700"

// ParseDatetime parses timestamps such as 2019-11-21T11:36:57.9473494+00:00.
// Sub-second precision is discarded. Blank input yields Epoch.
func ParseDatetime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Epoch, nil
	}

	if len(s) >= 3 && s[len(s)-3] == ':' {
		s = s[:len(s)-3] + s[len(s)-2:]
	}
	if len(s) < 24 {
		return time.Time{}, fmt.Errorf("parsing datetime %q: too short", s)
	}
	s = s[:19] + s[len(s)-5:]

	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing datetime: %w", err)
	}
	return t, nil
}
