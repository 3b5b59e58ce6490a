// Package cli provides the command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/temirov/repotree/internal/commands"
	"github.com/temirov/repotree/internal/config"
	"github.com/temirov/repotree/internal/fetch"
	"github.com/temirov/repotree/internal/output"
	"github.com/temirov/repotree/internal/progress"
	"github.com/temirov/repotree/internal/repostructure"
	"github.com/temirov/repotree/internal/services/clipboard"
	"github.com/temirov/repotree/internal/types"
	"github.com/temirov/repotree/internal/utils"
)

const (
	excludeFlagName         = "exclude"
	excludeFlagShorthand    = "e"
	presetFlagName          = "preset"
	maxDepthFlagName        = "max-depth"
	noGitignoreFlagName     = "no-gitignore"
	noIgnoreFlagName        = "no-ignore"
	nestedGitignoreFlagName = "nested-gitignore"
	formatFlagName          = "format"
	summaryFlagName         = "summary"
	copyFlagName            = "copy"
	tokenFlagName           = "token"
	usernameFlagName        = "username"
	branchFlagName          = "branch"
	cloneDepthFlagName      = "depth"
	timeoutFlagName         = "timeout"
	quietFlagName           = "quiet"
	versionFlagName         = "version"
	configFlagName          = "config"
	globalFlagName          = "global"
	forceFlagName           = "force"

	versionTemplate      = "repotree version: %s\n"
	defaultPath          = "."
	defaultTokenVariable = "GITHUB_TOKEN"
	defaultCloneTimeout  = 10 * time.Minute
	progressTitle        = "clone"
	gitSuffix            = ".git"

	rootUse              = "repotree"
	rootShortDescription = "repotree command line interface"
	rootLongDescription  = `repotree clones a git repository and describes its directory structure.
It honors .gitignore rules, ecosystem presets and custom exclude patterns.
Use --format to select json, yaml, xml, or raw output, and --version to print the application version.`

	structureCommandName      = "structure"
	treeCommandName           = "tree"
	structureUse              = structureCommandName + " <repository-url> [local-path]"
	treeUse                   = treeCommandName + " [paths...]"
	presetsUse                = "presets"
	initUse                   = "init"
	structureAlias            = "s"
	treeAlias                 = "t"
	structureShortDescription = "clone a repository and describe its structure (" + structureAlias + ")"
	treeShortDescription      = "describe the structure of local directories (" + treeAlias + ")"
	presetsShortDescription   = "list the exclude presets"
	initShortDescription      = "write the default configuration file"

	// structureLongDescription provides detailed help for the structure command.
	structureLongDescription = `Clone a repository into a local path and print its directory tree.
The clone is skipped when the local path already holds a repository.
The local path defaults to the repository name in the working directory.
A token is taken from --token or from the environment variable named by fetch.token_env.`
	// structureUsageExample demonstrates structure command usage.
	structureUsageExample = `  # Describe a public repository two levels deep
  repotree structure https://github.com/spf13/cobra --max-depth 2

  # Use the python preset and print a raw tree
  repotree structure https://github.com/psf/requests ./requests --preset python --format raw`

	// treeLongDescription provides detailed help for the tree command.
	treeLongDescription = `Print the directory tree of one or more local directories.
Each directory is extracted concurrently and printed in the order given.`
	// treeUsageExample demonstrates tree command usage.
	treeUsageExample = `  # Render the tree in YAML format
  repotree tree --format yaml ./cmd

  # Exclude generated files
  repotree tree -e '*.pb.go' -e dist/ .`

	versionFlagDescription         = "display application version"
	configFlagDescription          = "path to a configuration file"
	excludeFlagDescription         = "exclude path pattern (repeatable)"
	presetFlagDescription          = "exclude preset to apply (python, node, java)"
	maxDepthFlagDescription        = "maximum depth to descend; negative means unlimited"
	noGitignoreFlagDescription     = "do not use .gitignore"
	noIgnoreFlagDescription        = "do not use .ignore"
	nestedGitignoreFlagDescription = "also honor .gitignore files below the root"
	formatFlagDescription          = "output format (json, yaml, xml, raw)"
	summaryFlagDescription         = "append directory and file counts to raw output"
	copyFlagDescription            = "copy the rendered output to the clipboard"
	tokenFlagDescription           = "access token for https repositories"
	usernameFlagDescription        = "username sent with the token"
	branchFlagDescription          = "branch to clone instead of the default branch"
	cloneDepthFlagDescription      = "create a shallow clone with this many commits"
	timeoutFlagDescription         = "abort the clone after this duration"
	quietFlagDescription           = "suppress clone progress"
	globalFlagDescription          = "write the configuration to the global directory"
	forceFlagDescription           = "overwrite an existing configuration file"

	invalidFormatMessage        = "invalid format value '%s'"
	workingDirectoryErrorFormat = "unable to determine working directory: %w"
	repositoryNameErrorFormat   = "cannot derive a local path from %q; pass one explicitly"
	configurationWrittenFormat  = "configuration written to %s\n"
	presetLineFormat            = "%s: %s\n"
	basicPresetName             = "defaults"
	warningSkipPathFormat       = "skipping %s: %v"
	warningCopyFailedFormat     = "copy to clipboard failed: %v"
	// errorAbsolutePathFormat reports failure to resolve an absolute path.
	errorAbsolutePathFormat = "abs failed for '%s': %w"
)

// isSupportedFormat reports whether the provided format is recognized.
func isSupportedFormat(format string) bool {
	switch format {
	case types.FormatRaw, types.FormatJSON, types.FormatXML, types.FormatYAML:
		return true
	default:
		return false
	}
}

// applicationDependencies are the collaborators the commands talk to.
type applicationDependencies struct {
	logger            *zap.Logger
	fetcher           fetch.Fetcher
	copier            clipboard.Copier
	stdout            io.Writer
	stderr            io.Writer
	lookupEnvironment func(string) string
	workingDirectory  string
}

// Execute runs the repotree application.
func Execute(logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	rootCommand := createRootCommand(applicationDependencies{
		logger:            logger,
		fetcher:           fetch.WithLogging(fetch.NewGitFetcher(), logger),
		copier:            clipboard.NewService(),
		stdout:            os.Stdout,
		stderr:            os.Stderr,
		lookupEnvironment: os.Getenv,
	})
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand, os.Args[1:]))
	return rootCommand.ExecuteContext(context.Background())
}

// createRootCommand builds the root Cobra command.
func createRootCommand(dependencies applicationDependencies) *cobra.Command {
	var showVersion bool
	var configurationPath string
	var applicationConfiguration config.ApplicationConfiguration

	rootCommand := &cobra.Command{
		Use:           rootUse,
		Short:         rootShortDescription,
		Long:          rootLongDescription,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			if showVersion {
				fmt.Fprintf(dependencies.stdout, versionTemplate, utils.GetApplicationVersion())
				os.Exit(0)
			}
			if command.Name() == initUse {
				return nil
			}
			loadedConfiguration, loadError := config.LoadApplicationConfiguration(config.LoadOptions{
				WorkingDirectory: dependencies.workingDirectory,
				ExplicitFilePath: configurationPath,
			})
			if loadError != nil {
				return loadError
			}
			applicationConfiguration = loadedConfiguration
			return nil
		},
	}
	rootCommand.SetOut(dependencies.stdout)
	rootCommand.SetErr(dependencies.stderr)
	rootCommand.PersistentFlags().BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)
	rootCommand.PersistentFlags().StringVar(&configurationPath, configFlagName, "", configFlagDescription)
	rootCommand.AddCommand(
		createStructureCommand(dependencies, &applicationConfiguration),
		createTreeCommand(dependencies, &applicationConfiguration),
		createPresetsCommand(dependencies),
		createInitCommand(dependencies),
	)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// pathOptions stores configuration for path-related flags.
type pathOptions struct {
	exclusionPatterns []string
	preset            string
	maxDepth          int
	disableGitignore  bool
	disableIgnoreFile bool
	nestedGitignore   bool
}

// renderOptions stores configuration for output flags.
type renderOptions struct {
	format          string
	summary         bool
	copyToClipboard bool
}

// extractionSettings is the outcome of merging configuration and flags.
type extractionSettings struct {
	excludePatterns []string
	preset          string
	maxDepth        int
	useGitignore    bool
	useIgnoreFile   bool
	nestedGitignore bool
	format          string
	summary         bool
	copyToClipboard bool
}

// addPathFlags registers path-related flags on the command.
func addPathFlags(command *cobra.Command, options *pathOptions) {
	command.Flags().StringArrayVarP(&options.exclusionPatterns, excludeFlagName, excludeFlagShorthand, nil, excludeFlagDescription)
	command.Flags().StringVar(&options.preset, presetFlagName, "", presetFlagDescription)
	command.Flags().IntVar(&options.maxDepth, maxDepthFlagName, types.UnlimitedDepth, maxDepthFlagDescription)
	registerBooleanFlag(command.Flags(), &options.disableGitignore, noGitignoreFlagName, false, noGitignoreFlagDescription)
	registerBooleanFlag(command.Flags(), &options.disableIgnoreFile, noIgnoreFlagName, false, noIgnoreFlagDescription)
	registerBooleanFlag(command.Flags(), &options.nestedGitignore, nestedGitignoreFlagName, false, nestedGitignoreFlagDescription)
}

// addRenderFlags registers output-related flags on the command.
func addRenderFlags(command *cobra.Command, options *renderOptions) {
	command.Flags().StringVar(&options.format, formatFlagName, types.FormatJSON, formatFlagDescription)
	registerBooleanFlag(command.Flags(), &options.summary, summaryFlagName, false, summaryFlagDescription)
	registerBooleanFlag(command.Flags(), &options.copyToClipboard, copyFlagName, false, copyFlagDescription)
}

// resolveExtractionSettings merges the command configuration with the flags the user set explicitly.
func resolveExtractionSettings(command *cobra.Command, paths pathOptions, rendering renderOptions, commandConfiguration config.CommandConfiguration) (extractionSettings, error) {
	flags := command.Flags()
	settings := extractionSettings{
		excludePatterns: utils.DeduplicatePatterns(append(append([]string{}, commandConfiguration.Paths.Exclude...), paths.exclusionPatterns...)),
		preset:          commandConfiguration.Paths.Preset,
		maxDepth:        types.UnlimitedDepth,
		useGitignore:    true,
		useIgnoreFile:   true,
		format:          types.FormatJSON,
	}

	if commandConfiguration.Paths.MaxDepth != nil {
		settings.maxDepth = *commandConfiguration.Paths.MaxDepth
	}
	if commandConfiguration.Paths.UseGitignore != nil {
		settings.useGitignore = *commandConfiguration.Paths.UseGitignore
	}
	if commandConfiguration.Paths.UseIgnoreFile != nil {
		settings.useIgnoreFile = *commandConfiguration.Paths.UseIgnoreFile
	}
	if commandConfiguration.Paths.NestedGitignore != nil {
		settings.nestedGitignore = *commandConfiguration.Paths.NestedGitignore
	}
	if commandConfiguration.Format != "" {
		settings.format = commandConfiguration.Format
	}
	if commandConfiguration.Clipboard != nil {
		settings.copyToClipboard = *commandConfiguration.Clipboard
	}

	if flags.Changed(presetFlagName) {
		settings.preset = paths.preset
	}
	if flags.Changed(maxDepthFlagName) {
		settings.maxDepth = paths.maxDepth
	}
	if flags.Changed(noGitignoreFlagName) {
		settings.useGitignore = !paths.disableGitignore
	}
	if flags.Changed(noIgnoreFlagName) {
		settings.useIgnoreFile = !paths.disableIgnoreFile
	}
	if flags.Changed(nestedGitignoreFlagName) {
		settings.nestedGitignore = paths.nestedGitignore
	}
	if flags.Changed(formatFlagName) {
		settings.format = rendering.format
	}
	if flags.Changed(copyFlagName) {
		settings.copyToClipboard = rendering.copyToClipboard
	}
	settings.summary = rendering.summary

	settings.format = strings.ToLower(strings.TrimSpace(settings.format))
	if !isSupportedFormat(settings.format) {
		return extractionSettings{}, fmt.Errorf(invalidFormatMessage, settings.format)
	}
	return settings, nil
}

// fetchOptions stores configuration for clone flags.
type fetchOptions struct {
	token      string
	username   string
	branch     string
	cloneDepth int
	timeout    time.Duration
	quiet      bool
}

// createStructureCommand returns the structure subcommand.
func createStructureCommand(dependencies applicationDependencies, applicationConfiguration *config.ApplicationConfiguration) *cobra.Command {
	var pathConfiguration pathOptions
	var renderConfiguration renderOptions
	var fetchConfiguration fetchOptions

	structureCommand := &cobra.Command{
		Use:     structureUse,
		Aliases: []string{structureAlias},
		Short:   structureShortDescription,
		Long:    structureLongDescription,
		Example: structureUsageExample,
		Args:    cobra.RangeArgs(1, 2),
		RunE: func(command *cobra.Command, arguments []string) error {
			settings, settingsError := resolveExtractionSettings(command, pathConfiguration, renderConfiguration, applicationConfiguration.Structure)
			if settingsError != nil {
				return settingsError
			}
			repository := arguments[0]
			localPath := ""
			if len(arguments) > 1 {
				localPath = arguments[1]
			} else {
				repositoryName := repositoryNameFromLocator(repository)
				if repositoryName == "" {
					return fmt.Errorf(repositoryNameErrorFormat, repository)
				}
				localPath = repositoryName
			}
			if dependencies.workingDirectory != "" && !filepath.IsAbs(localPath) {
				localPath = filepath.Join(dependencies.workingDirectory, localPath)
			}
			fetchSettings, fetchSettingsError := resolveFetchSettings(command, fetchConfiguration, applicationConfiguration.Fetch, dependencies.lookupEnvironment)
			if fetchSettingsError != nil {
				return fetchSettingsError
			}
			return runStructure(command, dependencies, repository, localPath, settings, fetchSettings)
		},
	}

	addPathFlags(structureCommand, &pathConfiguration)
	addRenderFlags(structureCommand, &renderConfiguration)
	structureCommand.Flags().StringVar(&fetchConfiguration.token, tokenFlagName, "", tokenFlagDescription)
	structureCommand.Flags().StringVar(&fetchConfiguration.username, usernameFlagName, "", usernameFlagDescription)
	structureCommand.Flags().StringVar(&fetchConfiguration.branch, branchFlagName, "", branchFlagDescription)
	structureCommand.Flags().IntVar(&fetchConfiguration.cloneDepth, cloneDepthFlagName, 0, cloneDepthFlagDescription)
	structureCommand.Flags().DurationVar(&fetchConfiguration.timeout, timeoutFlagName, defaultCloneTimeout, timeoutFlagDescription)
	registerBooleanFlag(structureCommand.Flags(), &fetchConfiguration.quiet, quietFlagName, false, quietFlagDescription)
	return structureCommand
}

// resolveFetchSettings merges the fetch configuration with explicit flags and the environment.
func resolveFetchSettings(command *cobra.Command, flagValues fetchOptions, fetchConfiguration config.FetchConfiguration, lookupEnvironment func(string) string) (fetchOptions, error) {
	flags := command.Flags()
	settings := fetchOptions{
		token:    flagValues.token,
		username: fetchConfiguration.Username,
		branch:   fetchConfiguration.Branch,
		timeout:  defaultCloneTimeout,
	}
	if fetchConfiguration.Depth != nil {
		settings.cloneDepth = *fetchConfiguration.Depth
	}
	configuredTimeout, timeoutError := fetchConfiguration.TimeoutDuration(defaultCloneTimeout)
	if timeoutError != nil {
		return fetchOptions{}, timeoutError
	}
	settings.timeout = configuredTimeout
	if fetchConfiguration.Quiet != nil {
		settings.quiet = *fetchConfiguration.Quiet
	}

	if flags.Changed(usernameFlagName) {
		settings.username = flagValues.username
	}
	if flags.Changed(branchFlagName) {
		settings.branch = flagValues.branch
	}
	if flags.Changed(cloneDepthFlagName) {
		settings.cloneDepth = flagValues.cloneDepth
	}
	if flags.Changed(timeoutFlagName) {
		settings.timeout = flagValues.timeout
	}
	if flags.Changed(quietFlagName) {
		settings.quiet = flagValues.quiet
	}

	if settings.token == "" && lookupEnvironment != nil {
		tokenVariable := fetchConfiguration.TokenVariable
		if tokenVariable == "" {
			tokenVariable = defaultTokenVariable
		}
		settings.token = strings.TrimSpace(lookupEnvironment(tokenVariable))
	}
	return settings, nil
}

// runStructure fetches the repository and renders its tree.
func runStructure(command *cobra.Command, dependencies applicationDependencies, repository string, localPath string, settings extractionSettings, fetchSettings fetchOptions) error {
	ctx := command.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if fetchSettings.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, fetchSettings.timeout)
		defer cancel()
	}

	var progressSink progress.Sink = progress.Discard
	var terminalSink *progress.TerminalSink
	if !fetchSettings.quiet {
		terminalSink = progress.NewTerminalSink(dependencies.stderr, progressTitle)
		progressSink = terminalSink
	}

	respectIgnoreFile := settings.useGitignore
	maxDepth := settings.maxDepth
	rootNode, structureError := repostructure.GetRepoStructure(ctx, repostructure.Options{
		Repository:        repository,
		LocalPath:         localPath,
		Token:             fetchSettings.token,
		Username:          fetchSettings.username,
		Reference:         fetchSettings.branch,
		Depth:             fetchSettings.cloneDepth,
		MaxDepth:          &maxDepth,
		ExcludePatterns:   settings.excludePatterns,
		Preset:            settings.preset,
		RespectIgnoreFile: &respectIgnoreFile,
		UseIgnoreFile:     settings.useIgnoreFile,
		NestedIgnoreFiles: settings.nestedGitignore,
		Progress:          progressSink,
		Warn:              warningReporter(dependencies.logger),
		Fetcher:           dependencies.fetcher,
	})
	if terminalSink != nil {
		terminalSink.Finish()
	}
	if structureError != nil {
		return structureError
	}
	return renderTrees(dependencies, []*types.TreeNode{rootNode}, settings)
}

// createTreeCommand returns the tree subcommand.
func createTreeCommand(dependencies applicationDependencies, applicationConfiguration *config.ApplicationConfiguration) *cobra.Command {
	var pathConfiguration pathOptions
	var renderConfiguration renderOptions

	treeCommand := &cobra.Command{
		Use:     treeUse,
		Aliases: []string{treeAlias},
		Short:   treeShortDescription,
		Long:    treeLongDescription,
		Example: treeUsageExample,
		Args:    cobra.ArbitraryArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			if len(arguments) == 0 {
				arguments = []string{defaultPath}
			}
			settings, settingsError := resolveExtractionSettings(command, pathConfiguration, renderConfiguration, applicationConfiguration.Tree)
			if settingsError != nil {
				return settingsError
			}
			return runTree(command.Context(), dependencies, arguments, settings)
		},
	}

	addPathFlags(treeCommand, &pathConfiguration)
	addRenderFlags(treeCommand, &renderConfiguration)
	return treeCommand
}

// runTree extracts every root concurrently and renders the trees in input order.
// A root that fails is reported and skipped; the command fails only when none succeed.
func runTree(ctx context.Context, dependencies applicationDependencies, paths []string, settings extractionSettings) error {
	if ctx == nil {
		ctx = context.Background()
	}
	rootPaths, resolveError := resolveRootPaths(dependencies.workingDirectory, paths)
	if resolveError != nil {
		return resolveError
	}

	trees := make([]*types.TreeNode, len(rootPaths))
	failures := make([]error, len(rootPaths))
	warn := warningReporter(dependencies.logger)

	group, groupContext := errgroup.WithContext(ctx)
	group.SetLimit(runtime.NumCPU())
	for index, rootPath := range rootPaths {
		index, rootPath := index, rootPath
		group.Go(func() error {
			if contextError := groupContext.Err(); contextError != nil {
				return contextError
			}
			rootNode, extractError := commands.ExtractStructure(commands.ExtractOptions{
				Root:              rootPath,
				MaxDepth:          settings.maxDepth,
				ExcludePatterns:   settings.excludePatterns,
				Preset:            settings.preset,
				RespectIgnoreFile: settings.useGitignore,
				UseIgnoreFile:     settings.useIgnoreFile,
				NestedIgnoreFiles: settings.nestedGitignore,
				Warn:              warn,
			})
			trees[index] = rootNode
			failures[index] = extractError
			return nil
		})
	}
	if waitError := group.Wait(); waitError != nil {
		return waitError
	}

	var extracted []*types.TreeNode
	for index, rootNode := range trees {
		if failures[index] != nil {
			if errors.Is(failures[index], types.ErrInvalidPattern) {
				return failures[index]
			}
			warn(fmt.Sprintf(warningSkipPathFormat, rootPaths[index], failures[index]))
			continue
		}
		extracted = append(extracted, rootNode)
	}
	if len(extracted) == 0 {
		return errors.Join(failures...)
	}
	return renderTrees(dependencies, extracted, settings)
}

// renderTrees writes the trees to stdout and optionally to the clipboard.
func renderTrees(dependencies applicationDependencies, trees []*types.TreeNode, settings extractionSettings) error {
	rendered, renderError := output.Render(settings.format, trees, output.RenderOptions{
		Color:   isTerminalWriter(dependencies.stdout),
		Summary: settings.summary,
	})
	if renderError != nil {
		return renderError
	}
	if !strings.HasSuffix(rendered, "\n") {
		rendered += "\n"
	}
	if _, writeError := io.WriteString(dependencies.stdout, rendered); writeError != nil {
		return writeError
	}
	if settings.copyToClipboard && dependencies.copier != nil {
		if copyError := dependencies.copier.Copy(rendered); copyError != nil {
			warningReporter(dependencies.logger)(fmt.Sprintf(warningCopyFailedFormat, copyError))
		}
	}
	return nil
}

// createPresetsCommand returns the presets subcommand.
func createPresetsCommand(dependencies applicationDependencies) *cobra.Command {
	return &cobra.Command{
		Use:   presetsUse,
		Short: presetsShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			fmt.Fprintf(dependencies.stdout, presetLineFormat, basicPresetName, strings.Join(config.BasicExcludes(), ", "))
			for _, presetName := range config.PresetNames() {
				patterns, presetError := config.PresetExcludes(presetName)
				if presetError != nil {
					return presetError
				}
				fmt.Fprintf(dependencies.stdout, presetLineFormat, presetName, strings.Join(patterns, ", "))
			}
			return nil
		},
	}
}

// createInitCommand returns the init subcommand.
func createInitCommand(dependencies applicationDependencies) *cobra.Command {
	var global bool
	var force bool

	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if global {
				target = config.InitTargetGlobal
			}
			destinationPath, initError := config.InitializeConfiguration(config.InitOptions{
				Target:           target,
				Force:            force,
				WorkingDirectory: dependencies.workingDirectory,
			})
			if initError != nil {
				return initError
			}
			fmt.Fprintf(dependencies.stdout, configurationWrittenFormat, destinationPath)
			return nil
		},
	}
	registerBooleanFlag(initCommand.Flags(), &global, globalFlagName, false, globalFlagDescription)
	registerBooleanFlag(initCommand.Flags(), &force, forceFlagName, false, forceFlagDescription)
	return initCommand
}

// warningReporter routes extractor diagnostics to the logger.
func warningReporter(logger *zap.Logger) func(string) {
	if logger == nil {
		logger = zap.NewNop()
	}
	sugaredLogger := logger.Sugar()
	return func(message string) {
		sugaredLogger.Warn(message)
	}
}

// repositoryNameFromLocator returns the last path segment of a locator without its .git suffix.
func repositoryNameFromLocator(locator string) string {
	trimmed := strings.TrimRight(strings.TrimSpace(locator), "/")
	trimmed = strings.TrimSuffix(trimmed, gitSuffix)
	if separatorIndex := strings.LastIndexAny(trimmed, "/:\\"); separatorIndex >= 0 {
		trimmed = trimmed[separatorIndex+1:]
	}
	if trimmed == "." || trimmed == ".." {
		return ""
	}
	return trimmed
}

// isTerminalWriter reports whether writer is an interactive terminal.
func isTerminalWriter(writer io.Writer) bool {
	file, isFile := writer.(*os.File)
	if !isFile {
		return false
	}
	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}

// resolveRootPaths converts input paths to cleaned absolute form, dropping duplicates.
// Existence is checked per root by the extractor so that one missing root does not hide the others.
func resolveRootPaths(workingDirectory string, inputs []string) ([]string, error) {
	if workingDirectory == "" {
		currentDirectory, workingDirectoryError := os.Getwd()
		if workingDirectoryError != nil {
			return nil, fmt.Errorf(workingDirectoryErrorFormat, workingDirectoryError)
		}
		workingDirectory = currentDirectory
	}
	seen := make(map[string]struct{})
	var result []string
	for _, inputPath := range inputs {
		absolutePath := inputPath
		if !filepath.IsAbs(absolutePath) {
			absolutePath = filepath.Join(workingDirectory, inputPath)
		}
		absolutePath, absolutePathError := filepath.Abs(absolutePath)
		if absolutePathError != nil {
			return nil, fmt.Errorf(errorAbsolutePathFormat, inputPath, absolutePathError)
		}
		cleanPath := filepath.Clean(absolutePath)
		if _, ok := seen[cleanPath]; ok {
			continue
		}
		seen[cleanPath] = struct{}{}
		result = append(result, cleanPath)
	}
	return result, nil
}
