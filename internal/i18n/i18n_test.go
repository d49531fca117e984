package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslate(t *testing.T) {
	require.NoError(t, Initialize())

	assert.Equal(t, "Rental approved", T("en", KeyRentalApproved))
	assert.Equal(t, "Location approuvée", T("fr", KeyRentalApproved))
	// Unknown language falls back to English
	assert.Equal(t, "Rental approved", T("de", KeyRentalApproved))
	assert.Equal(t, "no.such.key", T("fr", "no.such.key"))
}

func TestSupportedLanguages(t *testing.T) {
	require.NoError(t, Initialize())

	assert.Equal(t, []string{"en", "fr"}, GetSupportedLanguages())
	assert.True(t, IsSupported("fr"))
	assert.False(t, IsSupported("zh_TW"))
}

func TestEveryKeyIsTranslated(t *testing.T) {
	require.NoError(t, Initialize())

	keys := []string{
		KeyRentalRequested, KeyRentalApproved, KeyRentalRejected, KeyRentalFinalized,
		KeyRentalNotFound, KeyRentalUnavailable, KeyRentalOnlyRequested, KeyRentalOnlyRequestedRej, KeyRentalOnlyApproved,
		KeyArtworkNotFound, KeyArtworkAlreadyReviewed, KeyArtworkHasActiveRental, KeyArtworkHasRentalHistory,
		KeyMediumExists, KeyAuthRequired, KeyFileStorageUnavailable,
	}
	for _, key := range keys {
		assert.True(t, instance.Has(key), key)
		assert.NotEqual(t, key, T("fr", key), key)
	}
}
