package jwt

import (
	"fmt"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-auth-client/internal/config"
	"github.com/jrsteele09/go-auth-client/internal/errors"
)

// RevokedChecker is an interface for checking if a token has been revoked
type RevokedChecker interface {
	IsRevoked(jti string) bool
}

// Verifier validates access tokens issued by Creator.
type Verifier struct {
	config  config.OAuthConfig
	secret  []byte
	revoked RevokedChecker
}

func NewVerifier(cfg config.OAuthConfig, revoked RevokedChecker) *Verifier {
	return &Verifier{
		config:  cfg,
		secret:  []byte(cfg.GetSigningSecret()),
		revoked: revoked,
	}
}

// Verify checks signature, issuer, expiry and revocation and returns the claims.
func (v *Verifier) Verify(rawToken string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	token, err := jwtlib.ParseWithClaims(rawToken, claims, v.key,
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithIssuer(v.config.GetIssuer()),
		jwtlib.WithExpirationRequired(),
		jwtlib.WithTimeFunc(NowTimeFunc),
	)
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return nil, errors.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %w", errors.ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, errors.ErrInvalidToken
	}
	if v.revoked != nil && v.revoked.IsRevoked(claims.ID) {
		return nil, errors.Wrapf(errors.ErrInvalidToken, "token %s revoked", claims.ID)
	}
	return claims, nil
}

func (v *Verifier) key(token *jwtlib.Token) (any, error) {
	if _, ok := token.Method.(*jwtlib.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return v.secret, nil
}
