package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"community-service/internal/models"
)

type TokenValidatorMock struct {
	mock.Mock
}

func (m *TokenValidatorMock) ValidateToken(ctx context.Context, token string) (int, error) {
	args := m.Called(ctx, token)
	return args.Int(0), args.Error(1)
}

type AccountResolverMock struct {
	mock.Mock
}

func (m *AccountResolverMock) Resolve(ctx context.Context, userID int) (models.User, models.Profile, error) {
	args := m.Called(ctx, userID)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	var profile models.Profile
	if val := args.Get(1); val != nil {
		profile = val.(models.Profile)
	}
	return user, profile, args.Error(2)
}
