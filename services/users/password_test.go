package users

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := hashPassword("hunter2")
	require.NoError(t, err)
	require.NotEqual(t, "hunter2", hash)

	require.True(t, verifyPassword("hunter2", hash))
	require.False(t, verifyPassword("wrong", hash))
	require.False(t, verifyPassword("hunter2", "not-a-hash"))
}

func TestRegisterRequestValidate(t *testing.T) {
	tests := []struct {
		label     string
		req       RegisterRequest
		expectErr error
	}{
		{label: "valid", req: RegisterRequest{Email: "a@b.c", Password: "pw"}},
		{label: "missing email", req: RegisterRequest{Password: "pw"}, expectErr: ErrMissingEmail},
		{label: "missing password", req: RegisterRequest{Email: "a@b.c"}, expectErr: ErrMissingPassword},
	}
	for _, tc := range tests {
		t.Run(tc.label, func(t *testing.T) {
			err := tc.req.validate()
			if tc.expectErr != nil {
				require.ErrorIs(t, err, tc.expectErr)
				return
			}
			require.NoError(t, err)
		})
	}
}
