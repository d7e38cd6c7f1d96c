// Package executioncmd turns command line flags into execution service options.
package executioncmd

import (
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
	"github.com/prysmaticlabs/enginebridge/beacon-chain/execution"
	"github.com/prysmaticlabs/enginebridge/cmd/beacon-chain/flags"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var log = logrus.WithField("prefix", "cmd-execution")

// FlagOptions for execution service flag configurations.
func FlagOptions(c *cli.Context) ([]execution.Option, error) {
	endpoint, err := parseExecutionChainEndpoint(c)
	if err != nil {
		return nil, err
	}
	jwtSecret, err := parseJWTSecret(c)
	if err != nil {
		return nil, errors.Wrap(err, "could not read JWT secret file for authenticating execution API")
	}
	opts := []execution.Option{execution.WithHttpEndpoint(endpoint)}
	if interval := c.Duration(flags.EngineUpcheckIntervalFlag.Name); interval > 0 {
		opts = append(opts, execution.WithUpcheckInterval(interval))
	}
	if len(jwtSecret) > 0 {
		opts = append(opts, execution.WithJwtSecret(jwtSecret))
	}
	return opts, nil
}

// Parses a JWT secret from a file path. This secret is required when connecting to execution nodes
// over HTTP, and must match the secret configured on the execution node.
// The engine API specification here https://github.com/ethereum/execution-apis/blob/main/src/engine/authentication.md
// Explains how we should validate this secret and the format of the file a user can specify.
//
// The secret must be stored as a hex-encoded string within a file in the filesystem.
// If --jwt-secret is provided but the file cannot be read, or does not contain a hex-encoded
// key of at least 256 bits, the client should treat this as an error and abort the startup.
func parseJWTSecret(c *cli.Context) ([]byte, error) {
	jwtSecretFile := c.String(flags.ExecutionJWTSecretFlag.Name)
	if jwtSecretFile == "" {
		return nil, nil
	}
	enc, err := os.ReadFile(jwtSecretFile) // #nosec G304
	if err != nil {
		return nil, err
	}
	strData := strings.TrimSpace(string(enc))
	if len(strData) == 0 {
		return nil, errors.Errorf("provided JWT secret in file %s cannot be empty", jwtSecretFile)
	}
	if !strings.HasPrefix(strData, "0x") {
		strData = "0x" + strData
	}
	secret, err := hexutil.Decode(strData)
	if err != nil {
		return nil, err
	}
	if len(secret) < 32 {
		return nil, errors.New("provided JWT secret should be a hex string of at least 32 bytes")
	}
	return secret, nil
}

func parseExecutionChainEndpoint(c *cli.Context) (string, error) {
	endpoint := c.String(flags.ExecutionEngineEndpoint.Name)
	if endpoint == "" {
		return "", errors.Errorf(
			"you need to specify %s to provide a connection endpoint to an Ethereum execution client "+
				"for your node. Please see our documentation for more information on this requirement",
			flags.ExecutionEngineEndpoint.Name,
		)
	}
	if strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "http://localhost") &&
		!strings.HasPrefix(endpoint, "http://127.0.0.1") && c.String(flags.ExecutionJWTSecretFlag.Name) == "" {
		log.WithField("endpoint", endpoint).Warn("Connecting to a remote execution client over plain HTTP without a JWT secret")
	}
	return endpoint, nil
}
