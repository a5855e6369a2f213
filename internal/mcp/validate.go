package mcp

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// ValidateArguments checks that args carries exactly the keys declared in the
// descriptor's input schema, each of the declared primitive type.
func ValidateArguments(d ToolDescriptor, args map[string]any) error {
	var missing, extra []string
	for k := range d.InputSchema {
		if _, ok := args[k]; !ok {
			missing = append(missing, k)
		}
	}
	for k := range args {
		if _, ok := d.InputSchema[k]; !ok {
			extra = append(extra, k)
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return InvalidArgument(d.Name, "missing required argument(s): %s", strings.Join(missing, ", "))
	}
	if len(extra) > 0 {
		slices.Sort(extra)
		return InvalidArgument(d.Name, "unexpected argument(s): %s", strings.Join(extra, ", "))
	}

	for _, k := range d.Params() {
		if err := checkType(args[k], d.InputSchema[k]); err != nil {
			return InvalidArgument(d.Name, "argument %s: %v", k, err)
		}
	}
	return nil
}

func checkType(value any, expected ParamType) error {
	switch expected {
	case ParamString:
		if _, ok := value.(string); ok {
			return nil
		}
	case ParamNumber:
		switch v := value.(type) {
		case float64, float32, int, int64, int32:
			return nil
		case json.Number:
			if _, err := v.Float64(); err == nil {
				return nil
			}
		}
	case ParamInteger:
		switch v := value.(type) {
		case int, int64, int32:
			return nil
		case float64:
			if math.Trunc(v) == v {
				return nil
			}
		case json.Number:
			if _, err := v.Int64(); err == nil {
				return nil
			}
		}
	case ParamBoolean:
		if _, ok := value.(bool); ok {
			return nil
		}
	default:
		return fmt.Errorf("unsupported schema type %q", expected)
	}
	return fmt.Errorf("expected %s but got %T", expected, value)
}

// ParseArgument converts a command-line value to the declared parameter type.
func ParseArgument(t ParamType, raw string) (any, error) {
	switch t {
	case ParamString:
		return raw, nil
	case ParamInteger:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not an integer", raw)
		}
		return n, nil
	case ParamNumber:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", raw)
		}
		return f, nil
	case ParamBoolean:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%q is not a boolean", raw)
		}
		return b, nil
	}
	return nil, fmt.Errorf("unsupported schema type %q", t)
}
