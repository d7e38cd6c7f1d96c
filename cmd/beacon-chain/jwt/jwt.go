// Package jwt provides the command generating the shared engine API secret.
package jwt

import (
	"crypto/rand"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
	"github.com/prysmaticlabs/enginebridge/cmd"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

const secretFileName = "jwt.hex"

var log = logrus.WithField("prefix", "jwt")

var outputFileFlag = &cli.StringFlag{
	Name:  "output-file",
	Usage: "Target file path for the generated secret",
	Value: secretFileName,
}

// Commands for jwt secret generation.
var Commands = &cli.Command{
	Name:        "generate-auth-secret",
	Usage:       "creates a random, 32 byte hex string in a plaintext file to be used for authenticating JSON-RPC requests. If no --output-file flag is defined, the file will be created in the current working directory",
	Description: `creates a random, 32 byte hex string in a plaintext file to be used for authenticating JSON-RPC requests. If no --output-file flag is defined, the file will be created in the current working directory`,
	Flags: cmd.WrapFlags([]cli.Flag{
		outputFileFlag,
	}),
	Action: generateAuthSecretInFile,
}

func generateAuthSecretInFile(c *cli.Context) error {
	fileName := c.String(outputFileFlag.Name)
	if fileName == "" {
		fileName = secretFileName
	}
	dir := filepath.Dir(fileName)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return errors.Wrapf(err, "could not create directory %s", dir)
	}
	secret, err := generateRandomHexString()
	if err != nil {
		return err
	}
	if err := os.WriteFile(fileName, []byte(secret), 0600); err != nil {
		return errors.Wrap(err, "could not write secret file")
	}
	path, err := filepath.Abs(fileName)
	if err != nil {
		return err
	}
	log.WithField("path", path).Info("Wrote new JWT secret")
	return nil
}

func generateRandomHexString() (string, error) {
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return "", errors.Wrap(err, "could not read random bytes")
	}
	return hexutil.Encode(secret), nil
}
