// Package flags holds custom urfave/cli flag value types.
package flags

import (
	"fmt"
	"slices"
	"strings"

	"github.com/urfave/cli/v2"
)

// EnumValue is a cli.Generic that only accepts one of Enum.
type EnumValue struct {
	Name        string
	Usage       string
	Destination *string
	Enum        []string
	Value       string
}

var _ cli.Generic = (*EnumValue)(nil)

// Set stores the canonical spelling of value. Matching is case insensitive.
func (e *EnumValue) Set(value string) error {
	i := slices.IndexFunc(e.Enum, func(choice string) bool {
		return strings.EqualFold(choice, value)
	})
	if i < 0 {
		return fmt.Errorf("allowed values are %s", strings.Join(e.Enum, ", "))
	}
	*e.Destination = e.Enum[i]
	return nil
}

func (e *EnumValue) String() string {
	if e.Destination != nil && *e.Destination != "" {
		return *e.Destination
	}
	return e.Value
}

// GenericFlag builds the cli flag, writing Value to Destination as the default.
func (e EnumValue) GenericFlag() *cli.GenericFlag {
	*e.Destination = e.Value
	v := &e
	return &cli.GenericFlag{
		Name:        e.Name,
		Usage:       fmt.Sprintf("%s (one of %s)", e.Usage, strings.Join(e.Enum, ", ")),
		Destination: v,
		Value:       v,
	}
}
