package extractor

import (
	"encoding"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()

// bindStruct fills the exported fields of rv from values using tagName.
// Fields without a tag bind to their lowercased name; "-" skips a field;
// the "required" option fails the binding when no value is present.
func bindStruct(rv reflect.Value, tagName string, values map[string][]string) error {
	rt := rv.Type()

	for i := range rv.NumField() {
		field := rv.Field(i)
		fieldType := rt.Field(i)

		if !field.CanSet() {
			continue
		}

		name, required, skip := parseFieldTag(fieldType, tagName)
		if skip {
			continue
		}

		fieldValues := values[name]
		if len(fieldValues) == 0 {
			if required {
				return fmt.Errorf("%w: %s", ErrMissingValue, name)
			}
			continue
		}

		if err := setFieldValue(field, fieldType.Type, fieldValues); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidValue, name, err)
		}
	}

	return nil
}

func parseFieldTag(field reflect.StructField, tagName string) (name string, required, skip bool) {
	tag := field.Tag.Get(tagName)
	if tag == "" {
		return strings.ToLower(field.Name), false, false
	}
	if tag == "-" {
		return "", false, true
	}

	name, opts, _ := strings.Cut(tag, ",")
	if name == "" {
		name = strings.ToLower(field.Name)
	}
	for opt := range strings.SplitSeq(opts, ",") {
		if strings.TrimSpace(opt) == "required" {
			required = true
		}
	}
	return name, required, false
}

func setFieldValue(field reflect.Value, fieldType reflect.Type, values []string) error {
	if field.CanAddr() && reflect.PointerTo(fieldType).Implements(textUnmarshalerType) {
		u := field.Addr().Interface().(encoding.TextUnmarshaler)
		return u.UnmarshalText([]byte(values[0]))
	}

	if fieldType.Kind() == reflect.Pointer {
		if field.IsNil() {
			field.Set(reflect.New(fieldType.Elem()))
		}
		return setFieldValue(field.Elem(), fieldType.Elem(), values)
	}

	if fieldType.Kind() == reflect.Slice {
		return setSliceValue(field, fieldType, values)
	}

	value := values[0]

	switch fieldType.Kind() {
	case reflect.String:
		field.SetString(sanitizeStringValue(value))

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(value, 10, fieldType.Bits())
		if err != nil {
			return fmt.Errorf("invalid int value %q", value)
		}
		field.SetInt(n)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(value, 10, fieldType.Bits())
		if err != nil {
			return fmt.Errorf("invalid uint value %q", value)
		}
		field.SetUint(n)

	case reflect.Float32, reflect.Float64:
		n, err := strconv.ParseFloat(value, fieldType.Bits())
		if err != nil {
			return fmt.Errorf("invalid float value %q", value)
		}
		field.SetFloat(n)

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			switch strings.ToLower(value) {
			case "on", "yes":
				b = true
			case "off", "no", "":
				b = false
			default:
				return fmt.Errorf("invalid bool value %q", value)
			}
		}
		field.SetBool(b)

	default:
		return fmt.Errorf("unsupported type %s", fieldType)
	}

	return nil
}

// setSliceValue binds every value to one element. Path and query values
// are already split by the router, so commas are kept as part of a value.
func setSliceValue(field reflect.Value, fieldType reflect.Type, values []string) error {
	slice := reflect.MakeSlice(fieldType, len(values), len(values))
	for i, value := range values {
		if err := setFieldValue(slice.Index(i), fieldType.Elem(), []string{value}); err != nil {
			return err
		}
	}
	field.Set(slice)
	return nil
}

// sanitizeStringValue drops NUL, CR, LF and other non-printable runes.
func sanitizeStringValue(value string) string {
	if !strings.ContainsFunc(value, func(r rune) bool { return r < ' ' && r != '\t' || r == utf8.RuneError }) {
		return value
	}

	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		if r == utf8.RuneError {
			continue
		}
		if r == '\t' || r >= ' ' && (unicode.IsGraphic(r) || unicode.IsSpace(r)) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
