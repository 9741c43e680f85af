package state

import (
	"fmt"
	"os"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

// InitSecret loads the RSA keypair used to verify access tokens issued by
// the identity service. The private half is optional; it is only present in
// environments that mint their own tokens (local dev, tests).
func InitSecret() (*JwtSecret, error) {
	pubKeyBytes, err := os.ReadFile("public.pem")
	if err != nil {
		return nil, err
	}

	pubKey, err := jwt.ParseRSAPublicKeyFromPEM(pubKeyBytes)
	if err != nil {
		return nil, fmt.Errorf("invalid public key: %w", err)
	}

	secret := &JwtSecret{Public: pubKey}

	if privKeyBytes, err := os.ReadFile("private.pem"); err == nil {
		privKey, err := jwt.ParseRSAPrivateKeyFromPEM(privKeyBytes)
		if err != nil {
			return nil, fmt.Errorf("invalid private key: %w", err)
		}
		secret.Private = privKey
	}

	log.Info().Msg("JWT secret initialized successfully")
	return secret, nil
}
