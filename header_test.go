package restbind

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHeaders(t *testing.T) {
	var h Headers
	require.Zero(t, h.Len())
	require.False(t, h.Has("x"))
	require.Equal(t, "", h.Get("x"))
	require.Nil(t, h.Values("x"))

	h.Add("x-b", "1")
	h.Add("X-A", "2")
	h.Add("X-B", "3")
	require.Equal(t, []string{"x-b", "X-A"}, h.Names())
	require.Equal(t, []string{"1", "3"}, h.Values("X-B"))
	require.Equal(t, "1", h.Get("x-B"))
	require.Equal(t, 2, h.Len())

	values := h.Values("x-b")
	values[0] = "changed"
	require.Equal(t, "1", h.Get("x-b"))

	h.Set("X-B", "4")
	require.Equal(t, []string{"x-b", "X-A"}, h.Names())
	require.Equal(t, []string{"4"}, h.Values("x-b"))

	h.Set("X-C", "5")
	require.Equal(t, []string{"x-b", "X-A", "X-C"}, h.Names())

	require.Equal(t, http.Header{
		"X-B": {"4"},
		"X-A": {"2"},
		"X-C": {"5"},
	}, h.HTTP())
}

func TestHeadersClone(t *testing.T) {
	var h Headers
	h.Add("X-A", "1")

	c := h.Clone()
	c.Add("X-A", "2")
	c.Add("X-B", "3")

	require.Equal(t, []string{"1"}, h.Values("X-A"))
	require.False(t, h.Has("X-B"))
	require.Equal(t, []string{"1", "2"}, c.Values("X-A"))

	var empty Headers
	clone := empty.Clone()
	clone.Add("X", "1")
	require.Equal(t, "1", clone.Get("x"))
}
