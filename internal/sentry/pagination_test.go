package sentry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextCursorFollowsNextWithResults(t *testing.T) {
	header := `<https://sentry.io/api/0/organizations/acme/projects/?&cursor=0:0:1>; rel="previous"; results="false"; cursor="0:0:1", ` +
		`<https://sentry.io/api/0/organizations/acme/projects/?&cursor=0:100:0>; rel="next"; results="true"; cursor="0:100:0"`

	cursor, ok := nextCursor(header)
	require.True(t, ok)
	assert.Equal(t, "0:100:0", cursor)
}

func TestNextCursorStopsOnLastPage(t *testing.T) {
	// Sentry emits a next link on the final page too, with results="false".
	header := `<https://sentry.io/api/0/organizations/acme/projects/?&cursor=0:0:1>; rel="previous"; results="true"; cursor="0:0:1", ` +
		`<https://sentry.io/api/0/organizations/acme/projects/?&cursor=0:200:0>; rel="next"; results="false"; cursor="0:200:0"`

	_, ok := nextCursor(header)
	assert.False(t, ok)
}

func TestNextCursorEmptyHeader(t *testing.T) {
	_, ok := nextCursor("")
	assert.False(t, ok)
}
