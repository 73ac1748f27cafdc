package views

import (
	"bytes"
	"encoding/json"

	"github.com/vladimiradmaev/sweet-friend/internal/chart"
	"github.com/vladimiradmaev/sweet-friend/internal/logger"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	hx "maragu.dev/gomponents-htmx"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

// DashboardProps feed the dashboard page
type DashboardProps struct {
	Page          PageProps
	Chart         chart.Data
	Placeholder   bool
	DexcomEnabled bool
	DexcomLinked  bool
}

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// chartJSON encodes the chart for the page script, falling back to the sample data
// when the readings cannot be encoded
func chartJSON(d chart.Data) []byte {
	data, err := json.Marshal(d)
	if err == nil {
		return data
	}
	logger.Error("Failed to encode chart data", "error", err)
	data, _ = json.Marshal(chart.Placeholder())
	return data
}

// DashboardPage shows the glucose chart, the reading form and the AI suggestion
func DashboardPage(p DashboardProps) g.Node {
	data := chartJSON(p.Chart)
	return Page(p.Page,
		h.Section(
			h.Class("card"),
			h.Div(
				h.Class("list-header"),
				h.H2(g.Text("Glucose")),
				markerPicker(),
			),
			g.If(p.Placeholder, h.P(h.Class("muted"), g.Text("Sample data. Add a reading or connect Dexcom to see yours."))),
			h.Div(
				h.Style("height:400px;width:100%"),
				g.El("canvas", h.ID("glucose-chart")),
			),
			h.Script(h.ID("chart-data"), h.Type("application/json"), g.Raw(string(data))),
			h.Script(h.Src(chartJSSrc)),
			h.Script(g.Raw(chartScript)),
		),
		h.Section(
			h.Class("card"),
			h.H3(g.Text("Add a reading")),
			h.Form(
				h.Class("toggles"),
				h.Method("post"),
				h.Action("/app/glucose"),
				h.Input(h.Name("value"), h.Type("number"), g.Attr("step", "1"), g.Attr("min", "10"), g.Attr("max", "1000"), h.Placeholder("mg/dL"), h.Required()),
				h.Button(h.Type("submit"), g.Text("Save")),
			),
			dexcomControls(p.DexcomEnabled, p.DexcomLinked),
		),
		h.Section(
			h.Class("card advice"),
			h.H3(g.Text("Suggestion")),
			h.Div(
				h.ID("advice"),
				hx.Get("/app/advice"),
				hx.Trigger("load"),
				h.P(h.Class("muted"), g.Text("Asking Sweet Friend for a suggestion...")),
			),
		),
	)
}

func markerPicker() g.Node {
	return h.Div(
		h.Class("toggles"),
		h.Span(h.Class("muted"), g.Text("Click the chart to mark:")),
		h.Label(h.Input(h.Type("radio"), h.Name("marker_type"), h.Value("food")), g.Text(" Food")),
		h.Label(h.Input(h.Type("radio"), h.Name("marker_type"), h.Value("exercise")), g.Text(" Exercise")),
	)
}

func dexcomControls(enabled, linked bool) g.Node {
	switch {
	case !enabled:
		return nil
	case linked:
		return h.Form(
			h.Method("post"),
			h.Action("/app/dexcom/sync"),
			h.Button(h.Type("submit"), g.Text("Sync Dexcom readings")),
		)
	default:
		return h.P(h.A(h.Href("/api/dexcom_login"), g.Text("Connect your Dexcom account")))
	}
}

// AdvicePartial renders the model's Markdown suggestion
func AdvicePartial(md string) g.Node {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(md), &buf); err != nil {
		return h.P(g.Text(md))
	}
	return h.Div(g.Raw(buf.String()))
}

// ErrorFragment is the inline error swapped in by htmx requests
func ErrorFragment(message string) g.Node {
	return h.P(h.Class("form-error"), g.Text(message))
}

const chartScript = `
(function () {
  var data = JSON.parse(document.getElementById("chart-data").textContent);
  var chart = new Chart(document.getElementById("glucose-chart"), {
    type: "line",
    data: {
      labels: data.labels,
      datasets: [
        { label: "Glucose Readings (mg/dL)", data: data.values, borderColor: "rgba(75, 192, 192, 1)", backgroundColor: "rgba(75, 192, 192, 0.2)", fill: true },
        { label: "Food", data: data.food, pointRadius: 6, pointBackgroundColor: "red", pointStyle: "circle", showLine: false },
        { label: "Exercise", data: data.exercise, pointRadius: 6, pointBackgroundColor: "blue", pointStyle: "triangle", showLine: false }
      ]
    },
    options: {
      responsive: true,
      maintainAspectRatio: false,
      plugins: { legend: { display: true, position: "top", align: "center", labels: { usePointStyle: true, padding: 20 } } },
      onClick: function (evt) {
        var picked = document.querySelector("input[name=marker_type]:checked");
        if (!picked) return;
        var body = new URLSearchParams({
          type: picked.value,
          x: chart.scales.x.getValueForPixel(evt.x),
          y: chart.scales.y.getValueForPixel(evt.y)
        });
        fetch("/app/markers", { method: "POST", body: body, credentials: "same-origin" })
          .then(function (r) { return r.ok ? r.json() : null; })
          .then(function (m) {
            if (!m) return;
            chart.data.datasets[m.type === "food" ? 1 : 2].data.push({ x: m.x, y: m.y });
            chart.update();
          });
      }
    }
  });
})();
`
