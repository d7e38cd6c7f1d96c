package flags

import (
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestEnumValue(t *testing.T) {
	f := EnumValue{
		Name:        "format",
		Usage:       "Output format",
		Value:       "text",
		Enum:        []string{"text", "json"},
		Destination: new(string),
	}.GenericFlag()
	assert.Equal(t, "Output format (one of text, json)", f.Usage)
	assert.Equal(t, "text", f.Value.String())

	require.NoError(t, f.Value.Set("JSON"))
	assert.Equal(t, "json", f.Value.String())
	assert.ErrorContains(t, f.Value.Set("xml"), "allowed values are text, json")
	assert.Equal(t, "json", f.Value.String())
}

func TestEnumValue_FromContext(t *testing.T) {
	f := EnumValue{
		Name:        "format",
		Value:       "text",
		Enum:        []string{"text", "json"},
		Destination: new(string),
	}.GenericFlag()
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	require.NoError(t, f.Apply(set))
	require.NoError(t, set.Parse([]string{"--format", "json"}))
	ctx := cli.NewContext(&cli.App{}, set, nil)
	assert.Equal(t, "json", ctx.String("format"))

	set = flag.NewFlagSet("test", flag.ContinueOnError)
	set.SetOutput(nopWriter{})
	require.NoError(t, f.Apply(set))
	assert.Error(t, set.Parse([]string{"--format", "yaml"}))
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }
