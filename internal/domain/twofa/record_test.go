package twofa

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecord(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		args        NewRecordArgs
		expectError bool
	}{
		{
			name: "valid args",
			args: NewRecordArgs{UserID: "user-1", Email: "user@example.com"},
		},
		{
			name: "valid args with user status",
			args: NewRecordArgs{UserID: "user-1", Email: "user@example.com", UserStatus: "active"},
		},
		{
			name:        "empty user id",
			args:        NewRecordArgs{Email: "user@example.com"},
			expectError: true,
		},
		{
			name:        "empty email",
			args:        NewRecordArgs{UserID: "user-1"},
			expectError: true,
		},
		{
			name:        "invalid email format",
			args:        NewRecordArgs{UserID: "user-1", Email: "notanemail"},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec, err := NewRecord(tt.args)
			if tt.expectError {
				require.Error(t, err)
				assert.Nil(t, rec)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, rec)
			assert.Equal(t, tt.args.UserID, rec.UserID())
			assert.Equal(t, tt.args.Email, rec.Email())
			assert.Equal(t, tt.args.UserStatus, rec.UserStatus())
			assert.EqualValues(t, DefaultRetries, rec.Retries())
			assert.Len(t, rec.Code(), CodeLength)
			for _, c := range rec.Code() {
				assert.True(t, c >= '0' && c <= '9')
			}
			assert.NotEqual(t, byte('0'), rec.Code()[0])
			assert.False(t, rec.IssuedAt().IsZero())
		})
	}
}

func TestNewRecord_CodeIssuedEvent(t *testing.T) {
	t.Parallel()

	rec, err := NewRecord(NewRecordArgs{UserID: "user-1", Email: "user@example.com", UserStatus: "pending"})
	require.NoError(t, err)

	events := rec.GetUncommittedEvents()
	require.Len(t, events, 1)

	issued, ok := events[0].(*CodeIssued)
	require.True(t, ok)
	assert.Equal(t, "user-1", issued.UserID)
	assert.Equal(t, "user@example.com", issued.Email)
	assert.Equal(t, "pending", issued.UserStatus)
	assert.NotEqual(t, uuid.Nil, issued.ID)

	payload, err := json.Marshal(issued)
	require.NoError(t, err)
	assert.NotContains(t, string(payload), rec.Code())
}

func TestRecord_Matches(t *testing.T) {
	t.Parallel()

	rec := Rehydrate(RehydrateArgs{UserID: "user-1", Code: "123456", Retries: 5})
	assert.True(t, rec.Matches("123456"))
	assert.False(t, rec.Matches("654321"))
	assert.False(t, rec.Matches(""))

	var nilRec *Record
	assert.False(t, nilRec.Matches("123456"))
}

func TestRecord_Decrement(t *testing.T) {
	t.Parallel()

	rec := Rehydrate(RehydrateArgs{UserID: "user-1", Code: "123456", Retries: 2})

	require.NoError(t, rec.Decrement())
	assert.EqualValues(t, 1, rec.Retries())

	require.NoError(t, rec.Decrement())
	assert.EqualValues(t, 0, rec.Retries())

	err := rec.Decrement()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRetriesExhausted)
	assert.EqualValues(t, 0, rec.Retries())
}
