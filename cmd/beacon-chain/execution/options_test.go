package executioncmd

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prysmaticlabs/enginebridge/cmd/beacon-chain/flags"
	"github.com/prysmaticlabs/enginebridge/encoding/bytesutil"
	logTest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func writeSecretFile(t *testing.T, data []byte) string {
	fullPath := filepath.Join(t.TempDir(), "jwt.hex")
	require.NoError(t, os.WriteFile(fullPath, data, 0600))
	return fullPath
}

func secretContext(path string) *cli.Context {
	app := cli.App{}
	set := flag.NewFlagSet("test", 0)
	set.String(flags.ExecutionJWTSecretFlag.Name, path, "")
	return cli.NewContext(&app, set, nil)
}

func Test_parseJWTSecret(t *testing.T) {
	t.Run("no flag value specified leads to nil secret", func(t *testing.T) {
		secret, err := parseJWTSecret(secretContext(""))
		require.NoError(t, err)
		require.Nil(t, secret)
	})
	t.Run("flag specified but no file found", func(t *testing.T) {
		_, err := parseJWTSecret(secretContext(filepath.Join(t.TempDir(), "missing")))
		require.ErrorContains(t, err, "no such file")
	})
	t.Run("empty string in file", func(t *testing.T) {
		_, err := parseJWTSecret(secretContext(writeSecretFile(t, []byte{})))
		require.ErrorContains(t, err, "cannot be empty")
	})
	t.Run("less than 32 bytes", func(t *testing.T) {
		hexData := fmt.Sprintf("%#x", bytesutil.PadTo([]byte("foo"), 16))
		_, err := parseJWTSecret(secretContext(writeSecretFile(t, []byte(hexData))))
		require.ErrorContains(t, err, "should be a hex string of at least 32 bytes")
	})
	t.Run("bad data", func(t *testing.T) {
		_, err := parseJWTSecret(secretContext(writeSecretFile(t, []byte("food"))))
		require.ErrorContains(t, err, "invalid hex string")
	})
	t.Run("correct format", func(t *testing.T) {
		secret := bytesutil.ToBytes32([]byte("foo"))
		got, err := parseJWTSecret(secretContext(writeSecretFile(t, []byte(fmt.Sprintf("%#x", secret)))))
		require.NoError(t, err)
		require.Equal(t, secret[:], got)
	})
	t.Run("without prefix and trailing newline", func(t *testing.T) {
		secret := bytesutil.ToBytes32([]byte("bar"))
		got, err := parseJWTSecret(secretContext(writeSecretFile(t, []byte(fmt.Sprintf("%x\n", secret)))))
		require.NoError(t, err)
		require.Equal(t, secret[:], got)
	})
}

func Test_parseExecutionChainEndpoint(t *testing.T) {
	t.Run("empty endpoint", func(t *testing.T) {
		set := flag.NewFlagSet("test", 0)
		set.String(flags.ExecutionEngineEndpoint.Name, "", "")
		_, err := parseExecutionChainEndpoint(cli.NewContext(&cli.App{}, set, nil))
		require.ErrorContains(t, err, "you need to specify execution-endpoint")
	})
	t.Run("remote http without secret warns", func(t *testing.T) {
		hook := logTest.NewGlobal()
		set := flag.NewFlagSet("test", 0)
		set.String(flags.ExecutionEngineEndpoint.Name, "http://10.0.0.3:8551", "")
		set.String(flags.ExecutionJWTSecretFlag.Name, "", "")
		endpoint, err := parseExecutionChainEndpoint(cli.NewContext(&cli.App{}, set, nil))
		require.NoError(t, err)
		assert.Equal(t, "http://10.0.0.3:8551", endpoint)
		assert.Contains(t, hook.LastEntry().Message, "without a JWT secret")
	})
	t.Run("ipc path", func(t *testing.T) {
		hook := logTest.NewGlobal()
		set := flag.NewFlagSet("test", 0)
		set.String(flags.ExecutionEngineEndpoint.Name, "/var/run/geth.ipc", "")
		endpoint, err := parseExecutionChainEndpoint(cli.NewContext(&cli.App{}, set, nil))
		require.NoError(t, err)
		assert.Equal(t, "/var/run/geth.ipc", endpoint)
		assert.Empty(t, hook.AllEntries())
	})
}

func TestFlagOptions(t *testing.T) {
	secret := bytesutil.ToBytes32([]byte("foo"))
	set := flag.NewFlagSet("test", 0)
	set.String(flags.ExecutionEngineEndpoint.Name, "http://localhost:8551", "")
	set.String(flags.ExecutionJWTSecretFlag.Name, writeSecretFile(t, []byte(fmt.Sprintf("%#x", secret))), "")
	set.Duration(flags.EngineUpcheckIntervalFlag.Name, time.Second, "")
	opts, err := FlagOptions(cli.NewContext(&cli.App{}, set, nil))
	require.NoError(t, err)
	assert.Len(t, opts, 3)

	set = flag.NewFlagSet("test", 0)
	set.String(flags.ExecutionEngineEndpoint.Name, "http://localhost:8551", "")
	set.String(flags.ExecutionJWTSecretFlag.Name, writeSecretFile(t, []byte("0x00")), "")
	_, err = FlagOptions(cli.NewContext(&cli.App{}, set, nil))
	require.ErrorContains(t, err, "could not read JWT secret file")
}
