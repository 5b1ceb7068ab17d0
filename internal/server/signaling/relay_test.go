package signaling

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/dmitrijs2005/storjvault/internal/common"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelay_PostAndPoll(t *testing.T) {
	r := NewRelay(time.Minute, 10, 10)

	m1, err := r.Post("vault_1", "s1", "offer", "alice", json.RawMessage(`{"sdp":"x"}`))
	require.NoError(t, err)
	assert.Equal(t, int64(1), m1.Seq)

	m2, err := r.Post("vault_1", "s1", "candidate", "alice", json.RawMessage(`{"c":1}`))
	require.NoError(t, err)
	assert.Equal(t, int64(2), m2.Seq)

	all, err := r.Messages("vault_1", "s1", 0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "offer", all[0].Kind)

	later, err := r.Messages("vault_1", "s1", 1)
	require.NoError(t, err)
	require.Len(t, later, 1)
	assert.Equal(t, int64(2), later[0].Seq)
}

func TestRelay_VaultIsolation(t *testing.T) {
	r := NewRelay(time.Minute, 10, 10)
	_, err := r.Post("vault_1", "s1", "offer", "a", nil)
	require.NoError(t, err)

	msgs, err := r.Messages("vault_2", "s1", 0)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestRelay_Validation(t *testing.T) {
	r := NewRelay(time.Minute, 10, 10)

	_, err := r.Post("vault_1", "s1", "bye", "a", nil)
	assert.ErrorIs(t, err, common.ErrorValidation)

	_, err = r.Post("vault_1", "../x", "offer", "a", nil)
	assert.ErrorIs(t, err, common.ErrorValidation)

	_, err = r.Post("vault_1", "s1", "offer", "a", make(json.RawMessage, MaxPayloadBytes+1))
	assert.ErrorIs(t, err, common.ErrorTooLarge)

	_, err = r.Messages("vault_1", "", 0)
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestRelay_Bounds(t *testing.T) {
	r := NewRelay(time.Minute, 2, 2)

	_, err := r.Post("vault_1", "a", "offer", "x", nil)
	require.NoError(t, err)
	_, err = r.Post("vault_1", "a", "answer", "y", nil)
	require.NoError(t, err)
	_, err = r.Post("vault_1", "a", "candidate", "x", nil)
	assert.ErrorIs(t, err, common.ErrorLimitExceeded)

	_, err = r.Post("vault_1", "b", "offer", "x", nil)
	require.NoError(t, err)
	_, err = r.Post("vault_1", "c", "offer", "x", nil)
	assert.ErrorIs(t, err, common.ErrorLimitExceeded)

	require.NoError(t, r.Close("vault_1", "a"))
	_, err = r.Post("vault_1", "c", "offer", "x", nil)
	assert.NoError(t, err)
	assert.Equal(t, 2, r.Sessions())
}

func TestRelay_Expiry(t *testing.T) {
	r := NewRelay(20*time.Millisecond, 1, 10)
	_, err := r.Post("vault_1", "a", "offer", "x", nil)
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)

	msgs, err := r.Messages("vault_1", "a", 0)
	require.NoError(t, err)
	assert.Empty(t, msgs)

	// the expired session no longer counts against the bound
	_, err = r.Post("vault_1", "b", "offer", "x", nil)
	assert.NoError(t, err)
}

func TestRelay_PollingKeepsSessionAlive(t *testing.T) {
	r := NewRelay(100*time.Millisecond, 1, 10)
	_, err := r.Post("vault_1", "a", "offer", "x", nil)
	require.NoError(t, err)

	for i := 0; i < 8; i++ {
		time.Sleep(40 * time.Millisecond)
		msgs, err := r.Messages("vault_1", "a", 0)
		require.NoError(t, err)
		require.Len(t, msgs, 1, "poll %d", i)
	}

	time.Sleep(250 * time.Millisecond)
	msgs, err := r.Messages("vault_1", "a", 0)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestNewSessionID(t *testing.T) {
	id := NewSessionID()
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Regexp(t, sessionIDPattern, id)
}
