package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// SetKey writes a single dotted key (e.g. "hovers.pullRequests.enabled") into
// the yaml config file, creating the file if needed. Values are stored as
// strings; viper coerces types on load.
func SetKey(path, key, value string) error {
	doc := map[string]interface{}{}
	if content, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(content, &doc); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	}

	setNested(doc, strings.Split(key, "."), value)
	return writeYaml(path, doc)
}

// UnsetKey removes a dotted key from the yaml config file. Unsetting a key
// that does not exist is a no-op.
func UnsetKey(path, key string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	doc := map[string]interface{}{}
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	unsetNested(doc, strings.Split(key, "."))
	return writeYaml(path, doc)
}

// Write marshals a full Config to path.
func Write(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Flatten returns the file's keys as sorted "dotted.key = value" lines, for
// `gitpeek config list`.
func Flatten(path string) ([]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	doc := map[string]interface{}{}
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	var lines []string
	flattenInto(&lines, "", doc)
	sort.Strings(lines)
	return lines, nil
}

func setNested(doc map[string]interface{}, parts []string, value string) {
	if len(parts) == 1 {
		doc[parts[0]] = value
		return
	}
	child, ok := doc[parts[0]].(map[string]interface{})
	if !ok {
		child = map[string]interface{}{}
		doc[parts[0]] = child
	}
	setNested(child, parts[1:], value)
}

func unsetNested(doc map[string]interface{}, parts []string) {
	if len(parts) == 1 {
		delete(doc, parts[0])
		return
	}
	if child, ok := doc[parts[0]].(map[string]interface{}); ok {
		unsetNested(child, parts[1:])
		if len(child) == 0 {
			delete(doc, parts[0])
		}
	}
}

func flattenInto(lines *[]string, prefix string, v interface{}) {
	switch node := v.(type) {
	case map[string]interface{}:
		for k, child := range node {
			key := k
			if prefix != "" {
				key = prefix + "." + k
			}
			flattenInto(lines, key, child)
		}
	default:
		*lines = append(*lines, fmt.Sprintf("%s = %v", prefix, v))
	}
}

func writeYaml(path string, doc map[string]interface{}) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
