package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/temirov/repotree/internal/utils"
)

// Preset names accepted by PresetExcludes.
const (
	PresetPython = "python"
	PresetNode   = "node"
	PresetJava   = "java"
)

const errorUnknownPresetFormat = "unknown preset %q (available: %s)"

var basicExcludes = []string{
	utils.GitDirectoryName,
	"node_modules",
	"venv",
}

var ecosystemExcludes = map[string][]string{
	PresetPython: {"__pycache__", "*.pyc", ".idea", ".vscode"},
	PresetNode:   {"dist", "build", ".idea", ".vscode", "coverage"},
	PresetJava:   {"target", "out", "build", ".idea", ".vscode"},
}

// BasicExcludes returns the patterns applied to every extraction: version-control
// metadata, dependency caches and virtual environments.
func BasicExcludes() []string {
	return append([]string(nil), basicExcludes...)
}

// PresetExcludes returns the named ecosystem preset layered on top of the basic set.
func PresetExcludes(name string) ([]string, error) {
	normalizedName := strings.ToLower(strings.TrimSpace(name))
	ecosystemPatterns, known := ecosystemExcludes[normalizedName]
	if !known {
		return nil, fmt.Errorf(errorUnknownPresetFormat, name, strings.Join(PresetNames(), ", "))
	}
	combined := append(BasicExcludes(), ecosystemPatterns...)
	return utils.DeduplicatePatterns(combined), nil
}

// PresetNames lists the available presets in lexical order.
func PresetNames() []string {
	names := make([]string, 0, len(ecosystemExcludes))
	for name := range ecosystemExcludes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
