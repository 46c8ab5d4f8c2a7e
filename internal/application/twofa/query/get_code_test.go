package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/nestpass/twofa-backend/internal/domain/twofa"
	"gitlab.com/nestpass/twofa-backend/pkg/errorx"
	"gitlab.com/nestpass/twofa-backend/tests/mocks"
)

func TestGetCodeHandler(t *testing.T) {
	t.Parallel()

	store := mocks.NewVerificationStore()
	store.SeedRecord(t, twofa.Rehydrate(twofa.RehydrateArgs{UserID: "user-1", Code: "123456", Retries: 5}))

	handler := NewGetCodeHandler(store)

	code, err := handler.Handle(t.Context(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "123456", code)
}

func TestGetCodeHandler_NotFound(t *testing.T) {
	t.Parallel()

	handler := NewGetCodeHandler(mocks.NewVerificationStore())

	_, err := handler.Handle(t.Context(), "nobody")
	require.Error(t, err)
	assert.True(t, errorx.IsNotFound(err))
}
