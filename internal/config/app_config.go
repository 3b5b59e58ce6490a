package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/temirov/repotree/internal/utils"
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration holds command-specific configuration defaults.
type ApplicationConfiguration struct {
	Structure CommandConfiguration `mapstructure:"structure"`
	Tree      CommandConfiguration `mapstructure:"tree"`
	Fetch     FetchConfiguration   `mapstructure:"fetch"`
}

// CommandConfiguration defines options shared by the structure and tree commands.
type CommandConfiguration struct {
	Format    string            `mapstructure:"format"`
	Paths     PathConfiguration `mapstructure:"paths"`
	Clipboard *bool             `mapstructure:"clipboard"`
}

// PathConfiguration configures exclusion rules and depth for traversal.
type PathConfiguration struct {
	Exclude         []string `mapstructure:"exclude"`
	Preset          string   `mapstructure:"preset"`
	MaxDepth        *int     `mapstructure:"max_depth"`
	UseGitignore    *bool    `mapstructure:"use_gitignore"`
	UseIgnoreFile   *bool    `mapstructure:"use_ignore"`
	NestedGitignore *bool    `mapstructure:"nested_gitignore"`
}

// FetchConfiguration defines defaults for cloning.
type FetchConfiguration struct {
	Branch        string `mapstructure:"branch"`
	Depth         *int   `mapstructure:"depth"`
	Timeout       string `mapstructure:"timeout"`
	Username      string `mapstructure:"username"`
	TokenVariable string `mapstructure:"token_env"`
	Quiet         *bool  `mapstructure:"quiet"`
}

// TimeoutDuration parses the configured clone timeout, returning fallback when unset.
func (config FetchConfiguration) TimeoutDuration(fallback time.Duration) (time.Duration, error) {
	if config.Timeout == "" {
		return fallback, nil
	}
	duration, parseError := time.ParseDuration(config.Timeout)
	if parseError != nil {
		return 0, fmt.Errorf("parse fetch timeout %q: %w", config.Timeout, parseError)
	}
	return duration, nil
}

// LoadApplicationConfiguration loads configuration from global and local files.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", err)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if homeDirectory, err := os.UserHomeDir(); err == nil && homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.ConfigFileName)
		globalConfig, loadErr := loadConfigurationFromPath(globalPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath, resolveErr := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if resolveErr != nil {
		return ApplicationConfiguration{}, resolveErr
	}
	if localPath != "" {
		localConfig, loadErr := loadConfigurationFromPath(localPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(localConfig)
	}

	merged.Structure.Paths.Exclude = utils.DeduplicatePatterns(merged.Structure.Paths.Exclude)
	merged.Tree.Paths.Exclude = utils.DeduplicatePatterns(merged.Tree.Paths.Exclude)

	return merged, nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) (string, error) {
	if explicitPath != "" {
		if filepath.IsAbs(explicitPath) {
			return explicitPath, nil
		}
		if workingDirectory == "" {
			absolute, err := filepath.Abs(explicitPath)
			if err != nil {
				return "", fmt.Errorf("resolve configuration path %s: %w", explicitPath, err)
			}
			return absolute, nil
		}
		return filepath.Join(workingDirectory, explicitPath), nil
	}
	if workingDirectory == "" {
		return "", nil
	}
	return filepath.Join(workingDirectory, utils.ConfigFileName), nil
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	if path == "" {
		return ApplicationConfiguration{}, nil
	}
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readErr)
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeErr)
	}
	return config, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	result.Structure = result.Structure.merge(override.Structure)
	result.Tree = result.Tree.merge(override.Tree)
	result.Fetch = result.Fetch.merge(override.Fetch)
	return result
}

func (config CommandConfiguration) merge(override CommandConfiguration) CommandConfiguration {
	result := config
	if override.Format != "" {
		result.Format = override.Format
	}
	result.Paths = result.Paths.merge(override.Paths)
	if override.Clipboard != nil {
		result.Clipboard = cloneBool(override.Clipboard)
	}
	return result
}

func (config PathConfiguration) merge(override PathConfiguration) PathConfiguration {
	result := config
	if len(override.Exclude) > 0 {
		result.Exclude = append([]string{}, utils.DeduplicatePatterns(override.Exclude)...)
	}
	if override.Preset != "" {
		result.Preset = override.Preset
	}
	if override.MaxDepth != nil {
		result.MaxDepth = cloneInt(override.MaxDepth)
	}
	if override.UseGitignore != nil {
		result.UseGitignore = cloneBool(override.UseGitignore)
	}
	if override.UseIgnoreFile != nil {
		result.UseIgnoreFile = cloneBool(override.UseIgnoreFile)
	}
	if override.NestedGitignore != nil {
		result.NestedGitignore = cloneBool(override.NestedGitignore)
	}
	return result
}

func (config FetchConfiguration) merge(override FetchConfiguration) FetchConfiguration {
	result := config
	if override.Branch != "" {
		result.Branch = override.Branch
	}
	if override.Depth != nil {
		result.Depth = cloneInt(override.Depth)
	}
	if override.Timeout != "" {
		result.Timeout = override.Timeout
	}
	if override.Username != "" {
		result.Username = override.Username
	}
	if override.TokenVariable != "" {
		result.TokenVariable = override.TokenVariable
	}
	if override.Quiet != nil {
		result.Quiet = cloneBool(override.Quiet)
	}
	return result
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneInt(value *int) *int {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
