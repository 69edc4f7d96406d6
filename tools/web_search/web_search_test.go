package web_search

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWebSearcher(t *testing.T) {
	s, err := NewWebSearcher(BrowserProvider, "")
	require.NoError(t, err)
	assert.Nil(t, s)

	for _, p := range []Provider{DuckDuckGoProvider, SerperProvider, BraveProvider} {
		s, err := NewWebSearcher(p, "key")
		require.NoError(t, err, p)
		assert.NotNil(t, s, p)
	}

	_, err = NewWebSearcher("bing", "")
	assert.True(t, errors.Is(err, ErrUnsupportedProvider))
}
