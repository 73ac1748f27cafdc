// Package views renders the pages and htmx partials of the web UI with gomponents.
package views

import (
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

const (
	htmxSrc    = "https://unpkg.com/htmx.org@2.0.3"
	chartJSSrc = "https://cdn.jsdelivr.net/npm/chart.js@4.4.4/dist/chart.umd.min.js"
)

// Flashes are one-shot messages carried over a redirect
type Flashes struct {
	Success []string
	Error   []string
}

// PageProps describe the frame around every page
type PageProps struct {
	Title    string
	Path     string
	Active   string
	Username string
	Flashes  Flashes
}

// Page wraps content in the document shell, header and flash area
func Page(p PageProps, children ...g.Node) g.Node {
	title := "Sweet Friend"
	if p.Title != "" {
		title = p.Title + " · Sweet Friend"
	}
	return g.Group{
		h.Doctype(
			h.HTML(
				h.Lang("en"),
				h.Head(
					h.Meta(h.Charset("utf-8")),
					h.Meta(h.Name("viewport"), h.Content("width=device-width, initial-scale=1")),
					g.El("title", g.Text(title)),
					h.Script(h.Src(htmxSrc)),
					h.StyleEl(g.Raw(stylesheet)),
				),
				h.Body(
					g.If(p.Username != "", Header(p)),
					h.Main(
						h.Class("container"),
						FlashList(p.Flashes),
						g.Group(children),
					),
				),
			),
		),
	}
}

// FlashList shows pending flash messages
func FlashList(f Flashes) g.Node {
	if len(f.Success) == 0 && len(f.Error) == 0 {
		return nil
	}
	return h.Div(
		h.ID("flashes"),
		g.Map(f.Success, func(msg string) g.Node {
			return h.Div(h.Class("flash success"), h.Role("status"), g.Text(msg))
		}),
		g.Map(f.Error, func(msg string) g.Node {
			return h.Div(h.Class("flash error"), h.Role("alert"), g.Text(msg))
		}),
	)
}

// ErrorPage is shown when a page request fails
func ErrorPage(status int, message string) g.Node {
	return Page(PageProps{Title: "Error"},
		h.Section(
			h.Class("card"),
			h.H2(g.Textf("Error %d", status)),
			h.P(g.Text(message)),
			h.A(h.Href("/app/dashboard"), g.Text("Back to the dashboard")),
		),
	)
}

const stylesheet = `
*{box-sizing:border-box}
body{margin:0;font-family:system-ui,sans-serif;background:#f6f7fb;color:#222}
.header{display:flex;justify-content:space-between;align-items:center;padding:.75rem 1.5rem;background:#fff;box-shadow:0 1px 4px rgba(0,0,0,.08)}
.header .title{display:flex;align-items:center;gap:.5rem;text-decoration:none;color:inherit}
.header h1{font-size:1.4rem;margin:0}
.links{display:flex;gap:1rem;align-items:center}
.links a{color:#555;text-decoration:none;padding:.25rem .5rem;border-radius:6px}
.links a.active{background:#4bc0c0;color:#fff}
.container{max-width:960px;margin:1.5rem auto;padding:0 1rem}
.card{background:#fff;border-radius:10px;padding:1.25rem;margin-bottom:1rem;box-shadow:0 1px 3px rgba(0,0,0,.06)}
.flash{padding:.6rem 1rem;border-radius:6px;margin-bottom:.75rem}
.flash.success{background:#e5f7ec;color:#1d6b3a}
.flash.error{background:#fde8e8;color:#9b1c1c}
.list-header{display:flex;justify-content:space-between;align-items:center}
.toggles{display:flex;gap:.75rem;flex-wrap:wrap;align-items:center}
ul.entries{list-style:none;padding:0;margin:0}
ul.entries li{display:flex;justify-content:space-between;align-items:center;padding:.6rem .25rem;border-bottom:1px solid #eee}
ul.entries li a{color:inherit;text-decoration:none}
.star{background:none;border:none;font-size:1.2rem;cursor:pointer;color:#c9a400}
.muted{color:#888;font-size:.9rem}
.modal-overlay{position:fixed;inset:0;background:rgba(0,0,0,.35);display:flex;align-items:center;justify-content:center}
.modal-content{background:#fff;border-radius:10px;padding:1.25rem;min-width:320px;max-width:90vw}
.modal-header{display:flex;justify-content:space-between;align-items:center}
.detail-item{display:flex;justify-content:space-between;gap:2rem}
form.stacked label{display:block;margin-top:.6rem}
form.stacked input,form.stacked select{width:100%;padding:.4rem}
.form-buttons{display:flex;gap:.5rem;margin-top:.75rem}
.form-error{color:#9b1c1c}
.chat-window{display:flex;flex-direction:column;gap:.5rem;min-height:300px;max-height:60vh;overflow-y:auto}
.chat-bubble{padding:.5rem .8rem;border-radius:12px;max-width:75%;white-space:pre-wrap}
.chat-bubble.user{align-self:flex-end;background:#4bc0c0;color:#fff}
.chat-bubble.robot{align-self:flex-start;background:#eceff4}
.input-container{display:flex;gap:.5rem;margin-top:.75rem}
.input-container input{flex:1;padding:.5rem}
.htmx-indicator{display:none}
.htmx-request .htmx-indicator,.htmx-request.htmx-indicator{display:block}
.advice h1,.advice h2,.advice h3{font-size:1.1rem}
`
