package mocks

import (
	"context"

	"github.com/google/uuid"
)

// MockTokenVerifier implements auth.TokenVerifier.
type MockTokenVerifier struct {
	VerifyFn func(ctx context.Context, token string) (uuid.UUID, error)
}

func (m *MockTokenVerifier) Verify(ctx context.Context, token string) (uuid.UUID, error) {
	return m.VerifyFn(ctx, token)
}

// VerifierForUser returns a verifier that accepts exactly the given token
// and resolves it to userID; any other token is rejected with err.
func VerifierForUser(userID uuid.UUID, token string, rejectErr error) *MockTokenVerifier {
	return &MockTokenVerifier{
		VerifyFn: func(ctx context.Context, got string) (uuid.UUID, error) {
			if got == token {
				return userID, nil
			}
			return uuid.Nil, rejectErr
		},
	}
}
