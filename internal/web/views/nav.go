package views

import (
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

// Nav keys
const (
	NavDashboard = "Dashboard"
	NavLogs      = "Logs"
	NavStarred   = "Starred"
	NavChat      = "ChatBot"
)

type navLink struct {
	Label string
	Href  string
}

// NavLinks is the main menu in display order
var NavLinks = []navLink{
	{Label: NavDashboard, Href: "/app/dashboard"},
	{Label: NavLogs, Href: "/app/logs"},
	{Label: NavStarred, Href: "/app/starred"},
	{Label: NavChat, Href: "/app/chat"},
}

// Header shows the title, a link back to the current page, and the menu with the active item highlighted
func Header(p PageProps) g.Node {
	self := p.Path
	if self == "" {
		self = "/app/dashboard"
	}
	return h.Header(
		h.Class("header"),
		h.A(
			h.Class("title"),
			h.Href(self),
			h.Span(g.Attr("aria-hidden", "true"), g.Text("🍬")),
			h.H1(g.Text("Sweet Friend")),
		),
		h.Nav(
			h.Class("links"),
			g.Map(NavLinks, func(l navLink) g.Node {
				return h.A(
					h.Href(l.Href),
					g.If(l.Label == p.Active, h.Class("active")),
					g.If(l.Label == p.Active, g.Attr("aria-current", "page")),
					g.Text(l.Label),
				)
			}),
			h.Span(h.Class("muted"), g.Text(p.Username)),
			h.A(h.Href("/logout"), g.Text("Log out")),
		),
	)
}
