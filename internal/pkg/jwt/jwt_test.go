package jwt

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/shift-autofill/internal/domain/run"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobToken_RoundTrip(t *testing.T) {
	svc := NewJWTService("secret", time.Hour)

	token, expiresAt, err := svc.GenerateJobToken("job-1")
	require.NoError(t, err)
	assert.Greater(t, expiresAt, time.Now().Unix())

	jobID, err := svc.ValidateJobToken(token)
	require.NoError(t, err)
	assert.Equal(t, "job-1", jobID)
}

func TestJobToken_Rejected(t *testing.T) {
	svc := NewJWTService("secret", time.Hour)
	other := NewJWTService("another-secret", time.Hour)
	expired := NewJWTService("secret", -time.Hour)

	foreign, _, err := other.GenerateJobToken("job-1")
	require.NoError(t, err)
	stale, _, err := expired.GenerateJobToken("job-1")
	require.NoError(t, err)
	_, notJob, err := svc.JWTAuth().Encode(map[string]interface{}{"job_id": "job-1", "type": "sse"})
	require.NoError(t, err)

	for name, token := range map[string]string{
		"garbage":    "not-a-token",
		"foreign":    foreign,
		"expired":    stale,
		"wrong type": notJob,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ValidateJobToken(token)
			assert.ErrorIs(t, err, run.ErrInvalidJobToken)
		})
	}
}
