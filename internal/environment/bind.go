package environment

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/spf13/viper"
)

// keyDelimiter keeps dotted property names flat when handed to viper
const keyDelimiter = "::"

// Bind resolves properties and decodes them into target, a pointer to a
// struct whose fields carry mapstructure tags naming full property keys,
// e.g. `mapstructure:"secret.property"`. Only tagged keys are resolved, so
// properties the target does not reference are never decrypted. Lookup-only
// sources such as the unprefixed environment still apply.
func (e *Environment) Bind(ctx context.Context, target any) error {
	keys := taggedKeys(target)

	v := viper.NewWithOptions(viper.KeyDelimiter(keyDelimiter))
	seen := make(map[string]bool, len(keys))
	for _, key := range keys {
		if seen[key] {
			continue
		}
		seen[key] = true

		value, found, err := e.Get(ctx, key)
		if err != nil {
			return err
		}
		if found {
			v.Set(key, value)
		}
	}

	if err := v.Unmarshal(target); err != nil {
		return fmt.Errorf("failed to bind properties: %w", err)
	}
	return nil
}

func taggedKeys(target any) []string {
	t := reflect.TypeOf(target)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}

	var keys []string
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("mapstructure")
		name, _, _ := strings.Cut(tag, ",")
		if name != "" && name != "-" {
			keys = append(keys, name)
		}
	}
	return keys
}
