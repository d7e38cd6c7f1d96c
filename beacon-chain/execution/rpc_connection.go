package execution

import (
	"context"
	"net/http"
	"strings"
	"time"

	gethRPC "github.com/ethereum/go-ethereum/rpc"
	"github.com/golang-jwt/jwt/v4"
	"github.com/pkg/errors"
)

// jwtAuth signs a fresh HS256 token for every request, as required by the engine API.
func jwtAuth(secret []byte) gethRPC.HTTPAuth {
	return func(h http.Header) error {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"iat": time.Now().Unix(),
		})
		signed, err := token.SignedString(secret)
		if err != nil {
			return errors.Wrap(err, "could not produce signed JWT token")
		}
		h.Set("Authorization", "Bearer "+signed)
		return nil
	}
}

// newRPCClientWithAuth dials the execution endpoint. HTTP endpoints authenticate with the JWT secret
// when one is configured; any other endpoint string is treated as an IPC path.
func (s *Service) newRPCClientWithAuth(ctx context.Context, endpoint string) (*gethRPC.Client, error) {
	if endpoint == "" {
		return nil, errors.New("no execution endpoint configured")
	}
	var opts []gethRPC.ClientOption
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		if len(s.cfg.jwtSecret) > 0 {
			opts = append(opts, gethRPC.WithHTTPAuth(jwtAuth(s.cfg.jwtSecret)))
		}
	}
	client, err := gethRPC.DialOptions(ctx, endpoint, opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "could not dial execution endpoint %s", endpoint)
	}
	return client, nil
}
