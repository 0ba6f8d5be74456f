package web

import (
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/sweeney/headroom-pager/internal/status"
)

type row struct {
	Label string
	Value string
	Class string
}

type section struct {
	Title string
	Rows  []row
}

type page struct {
	Sections []section
}

var indexTmpl = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta http-equiv="refresh" content="2">
<title>Headroom Pager</title>
<style>
body { font-family: ui-monospace, monospace; max-width: 640px; margin: 1.5em auto; padding: 0 1em; }
section { margin-bottom: 1.5em; }
h2 { font-size: 1em; text-transform: uppercase; color: #555; margin: 0 0 .3em; }
table { border-collapse: collapse; width: 100%; }
th, td { text-align: left; padding: 3px 6px; border-bottom: 1px dotted #ccc; }
th { width: 45%; font-weight: normal; }
.pinned, .ok { color: #070; font-weight: bold; }
.unpinned { color: #999; }
.unfixed { color: #246; }
.unknown { color: #c60; }
.down { color: #b00; }
</style>
</head>
<body>
<h1>Headroom Pager</h1>
{{range .Sections}}<section>
<h2>{{.Title}}</h2>
<table>
{{range .Rows}}<tr><th>{{.Label}}</th><td{{with .Class}} class="{{.}}"{{end}}>{{.Value}}</td></tr>
{{end}}</table>
</section>
{{end}}<p><a href="/index.json">json</a> | <a href="/metrics">metrics</a></p>
</body>
</html>
`))

func buildPage(snap status.Snapshot) page {
	state := string(snap.State)
	if state == "" {
		state = "UNKNOWN"
	}
	tracking := "enabled"
	if snap.Disabled {
		tracking = "disabled"
	}
	mode := "header"
	if snap.Config.Footer {
		mode = "footer"
	}
	if snap.Config.AlwaysPinned {
		mode += ", always pinned"
	}

	events := row{Label: "Events", Value: "off"}
	if snap.Config.Sink != "" && snap.Config.Sink != "none" {
		events.Value = snap.Config.Sink + " " + snap.Config.Broker
		events.Class = "down"
		if snap.BrokerConnected {
			events.Class = "ok"
		}
	}

	system := []row{
		{Label: "Session", Value: snap.Session},
		events,
	}
	if snap.Config.Document != "" {
		system = append(system, row{Label: "Document", Value: snap.Config.Document})
	}
	system = append(system,
		row{Label: "Uptime", Value: snap.Uptime().Truncate(time.Second).String()},
		row{Label: "Started", Value: snap.StartTime.UTC().Format(time.RFC3339)},
	)

	return page{Sections: []section{
		{Title: "Bar", Rows: []row{
			{Label: "State", Value: state, Class: strings.ToLower(state)},
			{Label: "Last action", Value: string(snap.LastAction)},
			{Label: "Scroll offset", Value: num(snap.ScrollY)},
			{Label: "Tracking", Value: tracking},
			{Label: "Mode", Value: mode},
		}},
		{Title: "Transitions", Rows: []row{
			{Label: "Pin", Value: fmt.Sprint(snap.Counts.Pin)},
			{Label: "Unpin", Value: fmt.Sprint(snap.Counts.Unpin)},
			{Label: "Unfix", Value: fmt.Sprint(snap.Counts.Unfix)},
		}},
		{Title: "Thresholds", Rows: []row{
			{Label: "Up tolerance", Value: num(snap.Config.UpTolerance)},
			{Label: "Down tolerance", Value: num(snap.Config.DownTolerance)},
			{Label: "Pin start", Value: num(snap.Config.PinStart)},
			{Label: "Frame", Value: fmt.Sprintf("%dms", snap.Config.FrameMs)},
		}},
		{Title: "System", Rows: system},
	}}
}

func num(f float64) string {
	return fmt.Sprintf("%g", f)
}

func renderHTML(w io.Writer, snap status.Snapshot) error {
	return indexTmpl.Execute(w, buildPage(snap))
}
