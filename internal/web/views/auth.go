package views

import (
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

// LoginPage is the landing page with the login form
func LoginPage(flashes Flashes, username string) g.Node {
	return Page(PageProps{Title: "Log in", Flashes: flashes},
		h.Section(
			h.Class("card"),
			h.H2(g.Text("Welcome to Sweet Friend")),
			h.Form(
				h.Class("stacked"),
				h.Method("post"),
				h.Action("/api/user_login"),
				h.Label(h.For("username"), g.Text("Username")),
				h.Input(h.ID("username"), h.Name("username"), h.Type("text"), h.Value(username), h.Required(), g.Attr("autocomplete", "username")),
				h.Label(h.For("password"), g.Text("Password")),
				h.Input(h.ID("password"), h.Name("password"), h.Type("password"), h.Required(), g.Attr("autocomplete", "current-password")),
				h.Div(h.Class("form-buttons"), h.Button(h.Type("submit"), g.Text("Log in"))),
			),
			h.P(h.Class("muted"), g.Text("No account yet? "), h.A(h.Href("/register"), g.Text("Register"))),
		),
	)
}

// RegisterPage holds the registration form
func RegisterPage(flashes Flashes, username string) g.Node {
	return Page(PageProps{Title: "Register", Flashes: flashes},
		h.Section(
			h.Class("card"),
			h.H2(g.Text("Create your account")),
			h.Form(
				h.Class("stacked"),
				h.Method("post"),
				h.Action("/api/user_register"),
				h.Label(h.For("username"), g.Text("Username")),
				h.Input(h.ID("username"), h.Name("username"), h.Type("text"), h.Value(username), h.Required(), g.Attr("autocomplete", "username")),
				h.Label(h.For("password"), g.Text("Password")),
				h.Input(h.ID("password"), h.Name("password"), h.Type("password"), h.Required(), g.Attr("autocomplete", "new-password")),
				h.Label(h.For("password_confirm"), g.Text("Confirm password")),
				h.Input(h.ID("password_confirm"), h.Name("password_confirm"), h.Type("password"), h.Required(), g.Attr("autocomplete", "new-password")),
				h.Div(h.Class("form-buttons"), h.Button(h.Type("submit"), g.Text("Register"))),
			),
			h.P(h.Class("muted"), g.Text("Already registered? "), h.A(h.Href("/"), g.Text("Log in"))),
		),
	)
}
