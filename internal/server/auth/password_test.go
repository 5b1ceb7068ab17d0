package auth

import (
	"testing"

	"github.com/dmitrijs2005/storjvault/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPasscode_RoundTrip(t *testing.T) {
	h, err := HashPasscode("1234")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(h))
	require.NoError(t, err)
	assert.Equal(t, PasscodeCost, cost)

	assert.NoError(t, ComparePasscode(h, "1234"))
	assert.ErrorIs(t, ComparePasscode(h, "4321"), common.ErrorUnauthorized)
}

func TestComparePasscode_MalformedHash(t *testing.T) {
	err := ComparePasscode("not-a-hash", "x")
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrorUnauthorized)
}
