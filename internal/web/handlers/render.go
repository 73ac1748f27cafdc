package handlers

import (
	"github.com/labstack/echo/v4"
	"github.com/vladimiradmaev/sweet-friend/internal/web/views"
	g "maragu.dev/gomponents"
)

// render writes a gomponents node as the HTML response
func render(c echo.Context, status int, node g.Node) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(status)
	if node == nil {
		return nil
	}
	return node.Render(c.Response())
}

func isHTMX(c echo.Context) bool {
	return c.Request().Header.Get("HX-Request") == "true"
}

// pageProps fills the frame shared by every logged-in page
func pageProps(c echo.Context, title, active string) views.PageProps {
	p := views.PageProps{
		Title:   title,
		Path:    c.Request().URL.Path,
		Active:  active,
		Flashes: GetFlashes(c),
	}
	if u := currentUser(c); u != nil {
		p.Username = u.Username
	}
	return p
}

// jsonSuccess writes {status: "success", key: value}
func jsonSuccess(c echo.Context, status int, key string, value interface{}) error {
	return c.JSON(status, map[string]interface{}{"status": "success", key: value})
}
