package tree

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// FromAny converts a generic decoded document (the shapes produced by
// encoding/json, yaml.v3, and go-toml) into a Node. Values outside the
// serializable tree model are rejected with an error rather than being
// carried into the merge engine.
func FromAny(v any) (Node, error) {
	switch val := v.(type) {
	case nil:
		return Null{}, nil
	case bool:
		return Bool(val), nil
	case string:
		return String(val), nil
	case float64:
		return number(val)
	case float32:
		return number(float64(val))
	case int:
		return number(float64(val))
	case int8:
		return number(float64(val))
	case int16:
		return number(float64(val))
	case int32:
		return number(float64(val))
	case int64:
		return number(float64(val))
	case uint:
		return number(float64(val))
	case uint8:
		return number(float64(val))
	case uint16:
		return number(float64(val))
	case uint32:
		return number(float64(val))
	case uint64:
		return number(float64(val))
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", val.String(), err)
		}
		return number(f)
	case time.Time:
		// TOML and YAML decode timestamps natively; keep them as strings.
		return String(val.Format(time.RFC3339)), nil
	case []any:
		out := make(Array, len(val))
		for i, e := range val {
			n, err := FromAny(e)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			out[i] = n
		}
		return out, nil
	case map[string]any:
		out := make(Object, len(val))
		for k, e := range val {
			n, err := FromAny(e)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", k, err)
			}
			out[k] = n
		}
		return out, nil
	case map[any]any:
		out := make(Object, len(val))
		for k, e := range val {
			ks, ok := k.(string)
			if !ok {
				ks = fmt.Sprint(k)
			}
			n, err := FromAny(e)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", ks, err)
			}
			out[ks] = n
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported value of type %T — only scalars, arrays, and objects are allowed", v)
	}
}

func number(f float64) (Node, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("non-finite number %v is not serializable", f)
	}
	return Number(f), nil
}

// ToAny converts a Node back into the generic representation accepted by
// the standard encoders. Integral numbers come back as int64 so that
// YAML and TOML round-trips do not grow decimal points.
func ToAny(n Node) any {
	switch v := n.(type) {
	case nil, Null:
		return nil
	case Bool:
		return bool(v)
	case Number:
		f := float64(v)
		if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
			return int64(f)
		}
		return f
	case String:
		return string(v)
	case Array:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = ToAny(e)
		}
		return out
	case Object:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[k] = ToAny(e)
		}
		return out
	}
	return nil
}
