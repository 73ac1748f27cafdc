package views

import (
	"fmt"

	"github.com/vladimiradmaev/sweet-friend/internal/domain"
	"github.com/vladimiradmaev/sweet-friend/internal/logbook"
	"github.com/vladimiradmaev/sweet-friend/internal/utils"
	hx "maragu.dev/gomponents-htmx"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

const closeModalJS = "document.getElementById('modal').innerHTML=''"

// LogsPage shows the filter and sort toggles, the list and the add-log button
func LogsPage(p PageProps, entries []domain.LogEntry, f logbook.Filter, s logbook.Sort) g.Node {
	return Page(p,
		h.Section(
			h.Class("card log"),
			h.Div(
				h.Class("list-header"),
				h.H2(g.Text("Logs")),
				h.Button(hx.Get("/app/logs/new"), hx.Target("#modal"), g.Text("Add Log")),
			),
			logToggles(f, s),
			h.Div(
				h.ID("log-list"),
				hx.Get("/app/logs/list"),
				hx.Trigger("logs-changed from:body"),
				g.Attr("hx-include", "#log-toggles"),
				LogList(entries),
			),
		),
		h.Div(h.ID("modal")),
	)
}

func logToggles(f logbook.Filter, s logbook.Sort) g.Node {
	field, order := s.Query()
	return h.Form(
		h.ID("log-toggles"),
		h.Class("toggles"),
		hx.Get("/app/logs/list"),
		hx.Target("#log-list"),
		hx.Trigger("change"),
		h.Span(h.Class("muted"), g.Text("Filter:")),
		g.Map(domain.EntryTypes, func(t domain.EntryType) g.Node {
			return h.Label(
				h.Input(h.Type("checkbox"), h.Name("type"), h.Value(string(t)), g.If(f.Has(t), h.Checked())),
				g.Textf(" %s", t),
			)
		}),
		h.Label(
			h.Input(h.Type("checkbox"), h.Name("starred"), h.Value("true"), g.If(f.StarredOnly, h.Checked())),
			g.Text(" starred"),
		),
		h.Span(h.Class("muted"), g.Text("Sort:")),
		h.Select(
			h.Name("sort"),
			option(string(logbook.SortByTimestamp), "time", field),
			option(string(logbook.SortByName), "name", field),
		),
		h.Select(
			h.Name("order"),
			option("desc", "descending", order),
			option("asc", "ascending", order),
		),
	)
}

func option(value, label, current string) g.Node {
	return h.Option(h.Value(value), g.If(value == current, h.Selected()), g.Text(label))
}

// LogList renders the entries as a list
func LogList(entries []domain.LogEntry) g.Node {
	if len(entries) == 0 {
		return h.P(h.Class("muted"), g.Text("No entries yet."))
	}
	return h.Ul(
		h.Class("entries"),
		g.Map(entries, func(e domain.LogEntry) g.Node { return LogRow(e) }),
	)
}

// LogRow is one entry with its star toggle
func LogRow(e domain.LogEntry) g.Node {
	star, label := "☆", "Star"
	if e.Starred {
		star, label = "★", "Unstar"
	}
	return h.Li(
		h.ID(fmt.Sprintf("entry-%d", e.ID)),
		h.A(
			h.Href("#"),
			hx.Get(fmt.Sprintf("/app/logs/%d", e.ID)),
			hx.Target("#modal"),
			h.Strong(g.Text(e.Name)),
			h.Span(h.Class("muted"), g.Textf(" %s · %s", e.Type, utils.FormatTimestamp(e.Timestamp))),
		),
		h.Button(
			h.Class("star"),
			g.Attr("aria-label", label),
			hx.Post(fmt.Sprintf("/app/logs/%d/star", e.ID)),
			g.Attr("hx-vals", fmt.Sprintf(`{"starred":"%t"}`, !e.Starred)),
			hx.Target("closest li"),
			hx.Swap("outerHTML"),
			g.Text(star),
		),
	)
}

func modal(title string, body ...g.Node) g.Node {
	return h.Div(
		h.Class("modal-overlay"),
		h.Div(
			h.Class("modal-content"),
			h.Div(
				h.Class("modal-header"),
				h.H2(g.Text(title)),
				h.Button(h.Class("close-button"), g.Attr("onclick", closeModalJS), g.Text("X")),
			),
			h.Div(append([]g.Node{h.Class("modal-body")}, body...)...),
		),
	)
}

func detail(label string, value g.Node) g.Node {
	return h.Div(h.Class("detail-item"), h.P(g.Text(label)), h.P(value))
}

// LogDetails is the modal with every field of an entry
func LogDetails(e domain.LogEntry) g.Node {
	starred := "No"
	if e.Starred {
		starred = "Yes"
	}
	return modal("Details",
		h.H3(g.Text(e.Name)),
		h.Div(
			h.Class("sub-details"),
			detail("Type:", g.Text(string(e.Type))),
			detail("Timestamp:", g.Text(utils.FormatTimestamp(e.Timestamp))),
			detail("Starred:", g.Text(starred)),
			g.If(e.Type == domain.EntryFood, detail("Total Carbs:", g.Textf("%gg", e.Details.Carbs()))),
			g.If(e.Type == domain.EntryExercise, g.Group{
				detail("Time Spent:", g.Textf("%d minutes", e.Details.Minutes())),
				detail("Intensity Level:", g.Text(e.Details.IntensityLevel)),
			}),
		),
	)
}

// AddLogChooser asks for the type of the new entry
func AddLogChooser() g.Node {
	return modal("Add Log",
		h.H3(g.Text("Select Log Type:")),
		h.Div(
			h.Class("add-logs-type-button form-buttons"),
			h.Button(hx.Get("/app/logs/new?type=food"), hx.Target("#modal"), g.Text("Food")),
			h.Button(hx.Get("/app/logs/new?type=exercise"), hx.Target("#modal"), g.Text("Exercise")),
		),
	)
}

// FoodFormProps describe the food tab of the add-log modal
type FoodFormProps struct {
	Form   logbook.EntryForm
	Error  string
	Upload bool
	Reason string
}

// FoodModal offers manual entry or a photo upload that prefills the form
func FoodModal(p FoodFormProps) g.Node {
	return modal("Add Log",
		h.Div(
			h.Class("form-buttons"),
			h.Button(hx.Get("/app/logs/new?type=food"), hx.Target("#modal"), g.Text("Enter Manually")),
			h.Button(hx.Get("/app/logs/new?type=food&mode=upload"), hx.Target("#modal"), g.Text("Upload Image")),
		),
		g.If(p.Error != "", h.P(h.Class("form-error"), g.Text(p.Error))),
		g.If(p.Upload, uploadForm()),
		g.If(!p.Upload, foodForm(p)),
	)
}

func foodForm(p FoodFormProps) g.Node {
	return h.Form(
		h.Class("stacked"),
		hx.Post("/app/logs"),
		hx.Target("#modal"),
		h.Input(h.Type("hidden"), h.Name("type"), h.Value(string(domain.EntryFood))),
		g.If(p.Reason != "", h.P(h.Class("muted"), g.Text(p.Reason))),
		h.Label(h.For("food-name"), g.Text("Name:")),
		h.Input(h.ID("food-name"), h.Type("text"), h.Name("name"), h.Value(p.Form.Name), h.Required()),
		h.Label(h.For("food-carbs"), g.Text("Total Carbs (g):")),
		h.Input(h.ID("food-carbs"), h.Type("number"), g.Attr("step", "0.1"), h.Name("total_carbs"), h.Value(p.Form.TotalCarbs), h.Required()),
		formButtons("Submit"),
	)
}

func uploadForm() g.Node {
	return h.Form(
		h.Class("stacked"),
		hx.Post("/app/logs/analyze"),
		hx.Target("#modal"),
		g.Attr("hx-encoding", "multipart/form-data"),
		h.Label(h.For("food-image"), g.Text("Upload Food Image:")),
		h.Input(h.ID("food-image"), h.Type("file"), h.Name("file"), g.Attr("accept", "image/*"), h.Required()),
		h.P(h.Class("muted htmx-indicator"), g.Text("Analyzing your meal...")),
		formButtons("Upload"),
	)
}

// ExerciseModal is the exercise tab of the add-log modal
func ExerciseModal(form logbook.EntryForm, errMsg string) g.Node {
	return modal("Add Log",
		g.If(errMsg != "", h.P(h.Class("form-error"), g.Text(errMsg))),
		h.Form(
			h.Class("stacked exercise-form"),
			hx.Post("/app/logs"),
			hx.Target("#modal"),
			h.Input(h.Type("hidden"), h.Name("type"), h.Value(string(domain.EntryExercise))),
			h.Label(h.For("ex-name"), g.Text("Name:")),
			h.Input(h.ID("ex-name"), h.Type("text"), h.Name("name"), h.Value(form.Name), h.Required()),
			h.Label(h.For("ex-time"), g.Text("Time Spent (minutes):")),
			h.Input(h.ID("ex-time"), h.Type("number"), g.Attr("step", "1"), g.Attr("min", "0"), h.Name("time_spent"), h.Value(form.TimeSpent), h.Required()),
			h.Label(h.For("ex-intensity"), g.Text("Intensity Level:")),
			h.Input(h.ID("ex-intensity"), h.Type("text"), h.Name("intensity_level"), h.Value(form.IntensityLevel), h.Required()),
			formButtons("Submit"),
		),
	)
}

func formButtons(submit string) g.Node {
	return h.Div(
		h.Class("form-buttons"),
		h.Button(h.Type("button"), hx.Get("/app/logs/new"), hx.Target("#modal"), g.Text("Back")),
		h.Button(h.Type("submit"), g.Text(submit)),
	)
}

// StarredPage lists the starred entries
func StarredPage(p PageProps, entries []domain.LogEntry) g.Node {
	return Page(p,
		h.Section(
			h.Class("card log"),
			h.Div(
				h.Class("list-header"),
				h.H2(g.Text("Starred Logs")),
				h.Span(h.Class("muted"), g.Textf("Top %d by name", logbook.StarredLimit)),
			),
			LogList(entries),
		),
		h.Div(h.ID("modal")),
	)
}
