package columns

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cast"

	"github.com/mhtools/mhwork/internal/convert"
)

// DType selects the conversion a Column applies to raw cell text. It is
// resolved once when the Column is built.
type DType int

const (
	// Passthrough leaves values untouched.
	Passthrough DType = iota
	Text
	Float
	Int
	Path
	InjectionVolume
)

var errNilValue = errors.New("value is nil")

func (d DType) String() string {
	switch d {
	case Passthrough:
		return "passthrough"
	case Text:
		return "text"
	case Float:
		return "float"
	case Int:
		return "int"
	case Path:
		return "path"
	case InjectionVolume:
		return "injection volume"
	default:
		return "DType(" + strconv.Itoa(int(d)) + ")"
	}
}

// DTypeForDataType maps an attribute's DataType code to a DType:
// 8 is text, 5 is floating point and anything else is passed through.
func DTypeForDataType(code int) DType {
	switch code {
	case 8:
		return Text
	case 5:
		return Float
	default:
		return Passthrough
	}
}

// Cast converts v according to d.
func (d DType) Cast(v any) (any, error) {
	var (
		out any
		err error
	)
	switch d {
	case Passthrough:
		return v, nil
	case Text:
		out, err = cast.ToStringE(v)
	case Float:
		out, err = toFloat(v)
	case Int:
		out, err = toInt(v)
	case Path:
		out, err = toPath(v)
	case InjectionVolume:
		out, err = injectionVolume(v)
	default:
		err = fmt.Errorf("unknown dtype %d", int(d))
	}
	if err != nil {
		return nil, &CastError{DType: d, Value: v, Err: err}
	}
	return out, nil
}

// AsMethod is the injection volume recorded as -1, meaning the volume set in
// the acquisition method is used.
const AsMethod = "As Method"

// InjectionVolumeValue converts an injection volume, mapping -1 to AsMethod.
func InjectionVolumeValue(v any) (any, error) {
	return InjectionVolume.Cast(v)
}

func injectionVolume(v any) (any, error) {
	switch x := v.(type) {
	case string:
		if strings.TrimSpace(x) == "-1" {
			return AsMethod, nil
		}
	case int:
		if x == -1 {
			return AsMethod, nil
		}
	case float64:
		if x == -1 {
			return AsMethod, nil
		}
	}
	return toInt(v)
}

func toFloat(v any) (float64, error) {
	switch x := v.(type) {
	case nil:
		return 0, errNilValue
	case string:
		return strconv.ParseFloat(strings.TrimSpace(x), 64)
	default:
		return cast.ToFloat64E(v)
	}
}

func toInt(v any) (int, error) {
	switch x := v.(type) {
	case nil:
		return 0, errNilValue
	case string:
		return strconv.Atoi(strings.TrimSpace(x))
	default:
		return cast.ToIntE(v)
	}
}

func toPath(v any) (any, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case convert.WindowsPath:
		return x, nil
	case string:
		return convert.AsPath(x), nil
	default:
		return nil, fmt.Errorf("unsupported path type %T", v)
	}
}
