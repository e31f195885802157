package security

import (
	"context"
	"fmt"
)

// Identity is what an external identity provider vouches for.
type Identity struct {
	ExternalUserID string
	Email          string
}

type IdentityProvider interface {
	Verify(ctx context.Context, idToken string) (Identity, error)
}

// JWTIdentityProvider verifies HS256 ID tokens issued by an external
// identity service sharing Secret with this server. The token must carry
// sub and email claims.
type JWTIdentityProvider struct {
	Secret   string
	Issuer   string
	Audience string
}

func (p *JWTIdentityProvider) Verify(_ context.Context, idToken string) (Identity, error) {
	claims, err := verifyHS256(idToken, p.Secret, p.Issuer, p.Audience)
	if err != nil {
		return Identity{}, err
	}

	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	if sub == "" || email == "" {
		return Identity{}, fmt.Errorf("%w: id token needs sub and email", ErrInvalidToken)
	}
	return Identity{ExternalUserID: sub, Email: email}, nil
}
