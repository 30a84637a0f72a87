package expr

import (
	"fmt"
	"reflect"

	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"

	"github.com/weft-dev/weft/pkg/reactive"
)

// toCty bridges a scope value into the expression value system. Child
// Scopes are materialized through Snapshot, so converting an object during
// a tracked evaluation subscribes the watcher to all of its keys — reading
// the whole object means depending on the whole object.
func toCty(v any) (cty.Value, error) {
	switch val := v.(type) {
	case nil:
		return cty.NullVal(cty.DynamicPseudoType), nil
	case cty.Value:
		return val, nil
	case *reactive.Scope:
		return objectToCty(val.Snapshot())
	case map[string]any:
		return objectToCty(val)
	case string:
		return cty.StringVal(val), nil
	case bool:
		return cty.BoolVal(val), nil
	case int:
		return cty.NumberIntVal(int64(val)), nil
	case int8:
		return cty.NumberIntVal(int64(val)), nil
	case int16:
		return cty.NumberIntVal(int64(val)), nil
	case int32:
		return cty.NumberIntVal(int64(val)), nil
	case int64:
		return cty.NumberIntVal(val), nil
	case uint:
		return cty.NumberUIntVal(uint64(val)), nil
	case uint8:
		return cty.NumberUIntVal(uint64(val)), nil
	case uint16:
		return cty.NumberUIntVal(uint64(val)), nil
	case uint32:
		return cty.NumberUIntVal(uint64(val)), nil
	case uint64:
		return cty.NumberUIntVal(val), nil
	case float32:
		return cty.NumberFloatVal(float64(val)), nil
	case float64:
		return cty.NumberFloatVal(val), nil
	case []any:
		return sliceToCty(val)
	default:
		// Generic slices ([]string, []int, ...) via reflection.
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
			items := make([]any, rv.Len())
			for i := range items {
				items[i] = rv.Index(i).Interface()
			}
			return sliceToCty(items)
		}
		return cty.NilVal, fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
	}
}

func objectToCty(m map[string]any) (cty.Value, error) {
	if len(m) == 0 {
		return cty.EmptyObjectVal, nil
	}
	attrs := make(map[string]cty.Value, len(m))
	for k, v := range m {
		cv, err := toCty(v)
		if err != nil {
			return cty.NilVal, err
		}
		attrs[k] = cv
	}
	return cty.ObjectVal(attrs), nil
}

func sliceToCty(items []any) (cty.Value, error) {
	if len(items) == 0 {
		return cty.EmptyTupleVal, nil
	}
	vals := make([]cty.Value, len(items))
	for i, item := range items {
		cv, err := toCty(item)
		if err != nil {
			return cty.NilVal, err
		}
		vals[i] = cv
	}
	return cty.TupleVal(vals), nil
}

// formatValue stringifies one evaluated expression fragment for
// concatenation into the template result. Null renders as empty text;
// structured values render as JSON.
func formatValue(v cty.Value) (string, error) {
	if v.IsNull() {
		return "", nil
	}

	switch v.Type() {
	case cty.String:
		return v.AsString(), nil
	case cty.Number:
		return v.AsBigFloat().Text('f', -1), nil
	case cty.Bool:
		if v.True() {
			return "true", nil
		}
		return "false", nil
	}

	out, err := ctyjson.Marshal(v, v.Type())
	if err != nil {
		return "", fmt.Errorf("weft: format value: %w", err)
	}
	return string(out), nil
}

// mergeValues unions two object values built from different traversals of
// the same root variable. Non-object collisions keep the later value; the
// two sides were resolved from the same scope, so they agree.
func mergeValues(a, b cty.Value) cty.Value {
	if !a.Type().IsObjectType() || !b.Type().IsObjectType() {
		return b
	}

	attrs := make(map[string]cty.Value)
	for it := a.ElementIterator(); it.Next(); {
		k, v := it.Element()
		attrs[k.AsString()] = v
	}
	for it := b.ElementIterator(); it.Next(); {
		k, v := it.Element()
		key := k.AsString()
		if existing, ok := attrs[key]; ok {
			attrs[key] = mergeValues(existing, v)
			continue
		}
		attrs[key] = v
	}
	if len(attrs) == 0 {
		return cty.EmptyObjectVal
	}
	return cty.ObjectVal(attrs)
}
