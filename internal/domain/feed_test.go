package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryFilterNormalize(t *testing.T) {
	f := EntryFilter{Search: "  starbucks "}
	require.NoError(t, f.Normalize())
	assert.Equal(t, EntryFilter{Search: "starbucks", Sort: SortMerchant, Limit: DefaultFeedLimit}, f)

	f = EntryFilter{Sort: "rating", Offset: 40, Limit: MaxFeedLimit}
	require.NoError(t, f.Normalize())
	assert.Equal(t, SortMerchant, f.Sort)
	assert.Equal(t, MaxFeedLimit, f.Limit)

	f = EntryFilter{Sort: SortVerified}
	require.NoError(t, f.Normalize())
	assert.Equal(t, SortVerified, f.Sort)

	for _, bad := range []EntryFilter{{Offset: -1}, {Limit: -5}, {Limit: MaxFeedLimit + 1}} {
		assert.ErrorIs(t, bad.Normalize(), ErrInvalidInput)
	}
}
