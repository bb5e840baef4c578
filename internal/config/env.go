package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// envField is one `env:`-tagged leaf of the config tree, addressed by its
// dotted yaml path (e.g. "redis.db").
type envField struct {
	path  string
	key   string
	value reflect.Value
}

// collectEnvFields walks v and returns every settable field carrying an env tag.
func collectEnvFields(v reflect.Value, prefix string) []envField {
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil
	}

	var fields []envField
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		path := yamlName(sf)
		if prefix != "" {
			path = prefix + "." + path
		}

		fv := v.Field(i)
		if fv.Kind() == reflect.Struct {
			fields = append(fields, collectEnvFields(fv, path)...)
			continue
		}
		if key := sf.Tag.Get("env"); key != "" {
			fields = append(fields, envField{path: path, key: key, value: fv})
		}
	}
	return fields
}

func yamlName(sf reflect.StructField) string {
	name, _, _ := strings.Cut(sf.Tag.Get("yaml"), ",")
	if name == "" || name == "-" {
		return strings.ToLower(sf.Name)
	}
	return name
}

// applyEnvOverrides sets every tagged field whose variable is present and
// returns the dotted paths it changed. Values are never reported since several
// of them are secrets.
func applyEnvOverrides(cfg *Config) ([]string, error) {
	var applied []string
	for _, f := range collectEnvFields(reflect.ValueOf(cfg), "") {
		raw, ok := os.LookupEnv(f.key)
		if !ok {
			continue
		}
		if err := setFromEnv(f.value, strings.TrimSpace(raw)); err != nil {
			return applied, fmt.Errorf("%s (%s): %w", f.path, f.key, err)
		}
		applied = append(applied, f.path)
	}
	return applied, nil
}

func setFromEnv(field reflect.Value, value string) error {
	if !field.CanSet() {
		return fmt.Errorf("field cannot be set")
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			d, err := time.ParseDuration(value)
			if err != nil {
				return fmt.Errorf("invalid duration %q", value)
			}
			field.SetInt(int64(d))
			return nil
		}
		n, err := strconv.ParseInt(value, 10, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid integer %q", value)
		}
		field.SetInt(n)

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean %q", value)
		}
		field.SetBool(b)

	case reflect.Float32, reflect.Float64:
		x, err := strconv.ParseFloat(value, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid number %q", value)
		}
		field.SetFloat(x)

	default:
		return fmt.Errorf("unsupported field type %s", field.Kind())
	}
	return nil
}
