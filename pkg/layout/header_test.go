package layout

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func labels(h Header) []string {
	var out []string
	for _, l := range h.Links {
		out = append(out, l.Label)
	}
	return out
}

func TestHeaderForGuest(t *testing.T) {
	h := HeaderFor(Guest, false)
	require.Equal(t, "/", h.LogoHref)
	require.Empty(t, h.Links)
	require.NotNil(t, h.SignIn)
	require.False(t, h.Account)
}

func TestHeaderForUser(t *testing.T) {
	h := HeaderFor(User, false)
	require.Equal(t, []string{"Saved Cars", "My Reservations"}, labels(h))
	require.Nil(t, h.SignIn)
	require.True(t, h.Account)
}

func TestHeaderForAdmin(t *testing.T) {
	h := HeaderFor(Admin, false)
	require.Equal(t, []string{"Saved Cars", "Admin Panel"}, labels(h))
	require.Equal(t, "/admin", h.Links[1].Href)
}

func TestHeaderOnAdminPage(t *testing.T) {
	h := HeaderFor(Admin, true)
	require.Equal(t, "/admin", h.LogoHref)
	require.True(t, h.AdminBadge)
	require.Equal(t, []string{"Back to App"}, labels(h))
	require.True(t, h.Account)

	g := HeaderFor(Guest, true)
	require.Equal(t, []string{"Back to App"}, labels(g))
	require.NotNil(t, g.SignIn)
}

func TestParseRole(t *testing.T) {
	require.Equal(t, Guest, ParseRole(""))
	require.Equal(t, Admin, ParseRole("administrator"))
	require.Equal(t, Admin, ParseRole(" Admin "))
	require.Equal(t, User, ParseRole("user"))
	require.Equal(t, User, ParseRole("dealer"))
}
