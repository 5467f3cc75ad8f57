package service

import (
	"context"

	"github.com/vibast-solutions/ms-go-contacts/app/entity"
)

type userFinder interface {
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
}

type tokenVerifier interface {
	Verify(tokenString string, purpose TokenPurpose) (string, error)
}

// Authenticator turns a bearer access token into the user it was issued for.
type Authenticator struct {
	tokens tokenVerifier
	users  userFinder
}

func NewAuthenticator(tokens tokenVerifier, users userFinder) *Authenticator {
	return &Authenticator{tokens: tokens, users: users}
}

func (a *Authenticator) Resolve(ctx context.Context, bearer string) (*entity.User, error) {
	email, err := a.tokens.Verify(bearer, PurposeAccess)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	user, err := a.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUnauthenticated
	}

	return user, nil
}
