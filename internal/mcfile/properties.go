package mcfile

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/iancoleman/orderedmap"
)

/**
 * Load a server.properties file preserving key order
 * @param {string} path - Path to server.properties
 * @returns {*orderedmap.OrderedMap, error} Properties in file order
 * @description
 * - Comment and blank lines are dropped; the writer emits a fresh header
 * - A missing file yields an empty map so callers can merge defaults in
 */
func LoadProperties(path string) (*orderedmap.OrderedMap, error) {
	props := orderedmap.New()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return props, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "!") {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		props.Set(strings.TrimSpace(key), strings.TrimSpace(value))
	}
	return props, nil
}

/**
 * Write a server.properties file
 * @param {string} path - Destination path
 * @param {*orderedmap.OrderedMap} props - Properties to write, in order
 */
func WriteProperties(path string, props *orderedmap.OrderedMap) error {
	var sb strings.Builder
	sb.WriteString("#Minecraft server properties\n")
	sb.WriteString("#" + time.Now().Format("Mon Jan 02 15:04:05 MST 2006") + "\n")
	for _, key := range props.Keys() {
		value, _ := props.Get(key)
		sb.WriteString(fmt.Sprintf("%s=%v\n", key, value))
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

/**
 * Merge overrides into an existing server.properties file
 * @param {string} path - Path to server.properties
 * @param {map[string]string} overrides - Keys to set or replace
 * @description
 * - Existing keys keep their position; new keys append at the end
 */
func MergeProperties(path string, overrides map[string]string) error {
	props, err := LoadProperties(path)
	if err != nil {
		return err
	}
	// deterministic append order for new keys
	keys := make([]string, 0, len(overrides))
	for key := range overrides {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		props.Set(key, overrides[key])
	}
	return WriteProperties(path, props)
}
