package layout

// Page metadata shared by every page.
const (
	SiteTitle       = "Carz.ai"
	SiteDescription = "Find your dream car with AI"
	Footer          = "Made with ❤️ by Ishan"
	LogoPath        = "/logo.png"
	LogoAlt         = "carz.ai logo"
)

// Link is a header link or button.
type Link struct {
	Label   string
	Href    string
	Icon    string
	Outline bool
}

// Header describes everything the page header renders.
type Header struct {
	LogoHref   string
	AdminBadge bool
	Links      []Link
	// SignIn is set for guests; it points at the sign-in entry with a
	// redirect back to the home page.
	SignIn *Link
	// Account shows the signed-in user's account button.
	Account bool
}

// HeaderFor derives the header for a visitor with role r. adminPage marks
// pages under the admin section.
func HeaderFor(r Role, adminPage bool) Header {
	h := Header{LogoHref: "/"}
	if adminPage {
		h.LogoHref = "/admin"
		h.AdminBadge = true
		h.Links = append(h.Links, Link{Label: "Back to App", Href: "/", Icon: "arrow-left", Outline: true})
	} else if r.SignedIn() {
		h.Links = append(h.Links, Link{Label: "Saved Cars", Href: "/saved-cars", Icon: "heart"})
		if r == Admin {
			h.Links = append(h.Links, Link{Label: "Admin Panel", Href: "/admin", Icon: "layout", Outline: true})
		} else {
			h.Links = append(h.Links, Link{Label: "My Reservations", Href: "/reservations", Icon: "car-front", Outline: true})
		}
	}
	if r.SignedIn() {
		h.Account = true
	} else {
		h.SignIn = &Link{Label: "Sign In", Href: "/sign-in?redirect_url=%2F", Outline: true}
	}
	return h
}
