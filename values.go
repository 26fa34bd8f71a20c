package rxtemplate

import (
	"fmt"
	"math"
	"strconv"

	"github.com/jacoelho/rxtemplate/internal/compose"
)

// valueOf classifies an interpolated value.
func valueOf(v any) compose.Value {
	switch v := v.(type) {
	case nil:
		return compose.AbsentValue()
	case Fragment:
		return compose.FragmentValue(v.Source, v.Flags)
	case *Fragment:
		if v == nil {
			return compose.AbsentValue()
		}
		return compose.FragmentValue(v.Source, v.Flags)
	case *Pattern:
		if v == nil {
			return compose.AbsentValue()
		}
		return compose.FragmentValue(v.Source, v.Flags)
	case string:
		return compose.TextValue(v)
	case []byte:
		return compose.TextValue(string(v))
	case bool:
		return compose.TextValue(strconv.FormatBool(v))
	case int:
		return compose.TextValue(strconv.Itoa(v))
	case int8:
		return compose.TextValue(strconv.FormatInt(int64(v), 10))
	case int16:
		return compose.TextValue(strconv.FormatInt(int64(v), 10))
	case int32:
		return compose.TextValue(strconv.FormatInt(int64(v), 10))
	case int64:
		return compose.TextValue(strconv.FormatInt(v, 10))
	case uint:
		return compose.TextValue(strconv.FormatUint(uint64(v), 10))
	case uint8:
		return compose.TextValue(strconv.FormatUint(uint64(v), 10))
	case uint16:
		return compose.TextValue(strconv.FormatUint(uint64(v), 10))
	case uint32:
		return compose.TextValue(strconv.FormatUint(uint64(v), 10))
	case uint64:
		return compose.TextValue(strconv.FormatUint(v, 10))
	case float32:
		return compose.TextValue(formatNumber(float64(v)))
	case float64:
		return compose.TextValue(formatNumber(v))
	case fmt.Stringer:
		return compose.TextValue(v.String())
	default:
		return compose.TextValue(fmt.Sprint(v))
	}
}

// formatNumber renders a float the way a script engine prints numbers:
// integral values without exponent below 1e21, NaN and Infinity by name.
func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	case f == math.Trunc(f) && math.Abs(f) < 1e21:
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
