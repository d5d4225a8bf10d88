package cmd

import (
	"fmt"
	"strconv"

	"github.com/pretextbook/pretext/internal/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// AddFlagValidation wraps the named flag so every value is checked before
// it is stored
func AddFlagValidation(cmd *cobra.Command, flagName string, validator func(string) error) {
	flag := cmd.Flags().Lookup(flagName)
	if flag == nil {
		return
	}

	flag.Value = &validatingValue{
		Value:     flag.Value,
		validator: validator,
	}
}

type validatingValue struct {
	pflag.Value
	validator func(string) error
}

func (v *validatingValue) Set(val string) error {
	if v.validator != nil {
		if err := v.validator(val); err != nil {
			return err
		}
	}
	return v.Value.Set(val)
}

// ValidatePort accepts TCP ports 1-65535
func ValidatePort(portStr string) error {
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return fmt.Errorf("invalid port number: %s", portStr)
	}

	if port < 1 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", port)
	}

	return nil
}

// exactArgs is cobra.ExactArgs reporting a usage error
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return errors.NewUsageError(errors.ErrCodeUsage,
				fmt.Sprintf("%s takes exactly %d argument(s), got %d\nRun '%s --help' for usage.",
					cmd.CommandPath(), n, len(args), cmd.CommandPath()))
		}
		return nil
	}
}

// maxArgs is cobra.MaximumNArgs reporting a usage error
func maxArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) > n {
			return errors.NewUsageError(errors.ErrCodeUsage,
				fmt.Sprintf("%s takes at most %d argument(s), got %d\nRun '%s --help' for usage.",
					cmd.CommandPath(), n, len(args), cmd.CommandPath()))
		}
		return nil
	}
}
