package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// flagAliases maps alternative long flag names to their canonical name.
var flagAliases = map[string]string{
	"files-warning":  "fw",
	"warning":        "fw",
	"files-critical": "fc",
}

// NormalizeFlagName accepts underscores in place of dashes and resolves
// flag aliases, so "files_warning", "files-warning" and "fw" are one flag.
func NormalizeFlagName(f *pflag.FlagSet, name string) pflag.NormalizedName {
	name = strings.ReplaceAll(name, "_", "-")
	if canonical, ok := flagAliases[name]; ok {
		name = canonical
	}
	return pflag.NormalizedName(name)
}

// LoadFile reads a YAML file of flag defaults, keyed by long flag name:
//
//	hostname: ftp.example.com
//	port: 2121
//	files-critical: "5:"
func LoadFile(path string) (map[string]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(content, &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	values := make(map[string]string, len(raw))
	for key, value := range raw {
		switch v := value.(type) {
		case nil:
			values[key] = ""
		case map[string]any, []any:
			return nil, &Error{Flag: key, Value: fmt.Sprint(v), Err: fmt.Errorf("must be a scalar")}
		default:
			values[key] = fmt.Sprint(v)
		}
	}
	return values, nil
}

// ApplyFile sets every flag named in the YAML file at path that was not
// given explicitly on the command line.
func ApplyFile(fs *pflag.FlagSet, path string) error {
	values, err := LoadFile(path)
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		flag := fs.Lookup(key)
		if flag == nil || key == "config" {
			return &Error{Flag: key, Value: values[key], Err: fmt.Errorf("unknown setting in %s", path)}
		}
		if flag.Changed {
			continue
		}
		if err := fs.Set(key, values[key]); err != nil {
			return &Error{Flag: flag.Name, Value: values[key], Err: err}
		}
	}
	return nil
}
