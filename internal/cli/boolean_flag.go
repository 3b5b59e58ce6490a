package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	switchFlagTypeName         = "switch"
	switchFlagAcceptedValues   = "true, false, yes, no, on, off, 1, 0"
	switchFlagInvalidValueText = "invalid value %q for --%s; accepted values: %s"
	flagPrefix                 = "--"
	shorthandFlagPrefix        = "-"
	flagValueSeparator         = "="
)

// switchLiterals are the words accepted by on/off flags such as --quiet or --copy.
var switchLiterals = map[string]bool{
	"true":  true,
	"t":     true,
	"1":     true,
	"yes":   true,
	"y":     true,
	"on":    true,
	"false": false,
	"f":     false,
	"0":     false,
	"no":    false,
	"n":     false,
	"off":   false,
}

func parseSwitchLiteral(input string) (bool, bool) {
	value, known := switchLiterals[strings.ToLower(strings.TrimSpace(input))]
	return value, known
}

// switchFlagValue is a pflag.Value for on/off flags that also accepts yes/no and on/off.
type switchFlagValue struct {
	target *bool
	name   string
}

func (value *switchFlagValue) Set(input string) error {
	parsed, known := parseSwitchLiteral(input)
	if !known {
		return fmt.Errorf(switchFlagInvalidValueText, input, value.name, switchFlagAcceptedValues)
	}
	*value.target = parsed
	return nil
}

func (value *switchFlagValue) String() string {
	if value.target == nil {
		return strconv.FormatBool(false)
	}
	return strconv.FormatBool(*value.target)
}

func (value *switchFlagValue) Type() string {
	return switchFlagTypeName
}

// registerBooleanFlag adds an on/off flag. Given alone it turns the option on;
// "--name=no" or "--name off" turn it off again, which lets a flag override a
// configuration file that enabled the option.
func registerBooleanFlag(flagSet *pflag.FlagSet, target *bool, name string, defaultValue bool, usage string) {
	*target = defaultValue
	flagSet.Var(&switchFlagValue{target: target, name: name}, name, usage)
	registered := flagSet.Lookup(name)
	registered.DefValue = strconv.FormatBool(defaultValue)
	registered.NoOptDefVal = strconv.FormatBool(true)
}

// normalizeBooleanFlagArguments joins "--name value" into "--name=value" when
// --name is an on/off flag of the subcommand being invoked and value is one of
// the accepted literals. pflag would otherwise treat the value as a positional
// argument. Values of other flags are passed through untouched so that, for
// example, "--format yaml" is never mistaken for a subcommand name.
func normalizeBooleanFlagArguments(rootCommand *cobra.Command, arguments []string) []string {
	activeCommand := rootCommand
	normalized := make([]string, 0, len(arguments))
	for index := 0; index < len(arguments); index++ {
		argument := arguments[index]
		if argument == flagPrefix {
			return append(normalized, arguments[index:]...)
		}
		if !strings.HasPrefix(argument, shorthandFlagPrefix) {
			if subcommand := findSubcommand(activeCommand, argument); subcommand != nil {
				activeCommand = subcommand
			}
			normalized = append(normalized, argument)
			continue
		}

		flag := lookupArgumentFlag(activeCommand, argument)
		hasNext := index+1 < len(arguments)
		if flag == nil || strings.Contains(argument, flagValueSeparator) || !hasNext {
			normalized = append(normalized, argument)
			continue
		}
		nextArgument := arguments[index+1]
		switch {
		case flag.Value.Type() == switchFlagTypeName:
			if _, known := parseSwitchLiteral(nextArgument); known {
				normalized = append(normalized, argument+flagValueSeparator+nextArgument)
				index++
				continue
			}
			normalized = append(normalized, argument)
		case flag.NoOptDefVal == "":
			normalized = append(normalized, argument, nextArgument)
			index++
		default:
			normalized = append(normalized, argument)
		}
	}
	return normalized
}

// findSubcommand returns the direct subcommand of command named or aliased by name.
func findSubcommand(command *cobra.Command, name string) *cobra.Command {
	for _, subcommand := range command.Commands() {
		if subcommand.Name() == name || subcommand.HasAlias(name) {
			return subcommand
		}
	}
	return nil
}

// lookupArgumentFlag resolves "--name", "--name=value" or "-x" against the flags
// command accepts, including the persistent flags of its parents.
func lookupArgumentFlag(command *cobra.Command, argument string) *pflag.Flag {
	inherited := command.InheritedFlags()
	if strings.HasPrefix(argument, flagPrefix) {
		name, _, _ := strings.Cut(strings.TrimPrefix(argument, flagPrefix), flagValueSeparator)
		if flag := command.Flags().Lookup(name); flag != nil {
			return flag
		}
		return inherited.Lookup(name)
	}
	if len(argument) != len(shorthandFlagPrefix)+1 {
		return nil
	}
	shorthand := strings.TrimPrefix(argument, shorthandFlagPrefix)
	if flag := command.Flags().ShorthandLookup(shorthand); flag != nil {
		return flag
	}
	return inherited.ShorthandLookup(shorthand)
}
