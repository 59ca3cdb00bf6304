package report

import (
	"encoding/base64"
	"fmt"
	"html/template"
	"strings"

	"github.com/agromet/advisory-report-service/internal/domain"
)

const (
	// PageBreakSentinel is the literal marker the browser-side paginator
	// splits the document on. Every block, introduction included, is
	// followed by exactly one sentinel.
	PageBreakSentinel = "<!-- PAGE BREAK -->"

	// PlaceholderToken is the named token received-rainfall narrative text
	// may embed. Replaced with "<value>%" when a substitution is supplied,
	// left verbatim otherwise.
	PlaceholderToken = "<OBSERVED_PRECIPITATION>"
)

type sectionImage struct {
	Src template.URL
	Alt string
}

type sectionTable struct {
	Header []string
	Rows   [][]string
}

// sectionView is the template input for one rendered section.
type sectionView struct {
	Title     string
	Available bool
	Text      string
	Images    []sectionImage
	Tables    []sectionTable
}

var sectionTmpl = template.Must(template.New("section").Parse(`<div class="section" style="page-break-after: always;">
    <h2>{{.Title}}</h2>
{{- if .Available}}
    <p style="text-align: justify;">{{if .Text}}{{.Text}}{{else}}No text available.{{end}}</p>
    <div style="text-align: center; margin-top: 20px;">
{{- range .Images}}
        <img src="{{.Src}}" alt="{{.Alt}}" style="max-width: 80%; margin: 10px auto;" />
{{- end}}
{{- range .Tables}}
        <div style="margin-top: 20px;"><table border="1" style="border-collapse: collapse; width: 100%; text-align: left;">
            <tr>{{range .Header}}<th style="padding: 8px; background-color: #f2f2f2;">{{.}}</th>{{end}}</tr>
{{- range .Rows}}
            <tr>{{range .}}<td style="padding: 8px;">{{.}}</td>{{end}}</tr>
{{- end}}
        </table></div>
{{- end}}
    </div>
{{- else}}
    <p>Data not available.</p>
{{- end}}
</div>`))

type introView struct {
	District string
	Month    string
	Year     int
	Day      int
}

var introTmpl = template.Must(template.New("introduction").Parse(`<div class="section" style="page-break-after: always;">
    <h1>District Agro-met Advisory Co-production</h1>
    <h2>{{.District}} District</h2>
    <h3>{{.Day}} {{.Month}} {{.Year}}</h3>
    <p style="text-align: justify;">
        The Natural Resources Management Centre, Department of Agriculture (NRMC, DoA)
        has released the Agro-met advisory for {{.Month}} {{.Year}}, incorporating weather
        forecasts from the Department of Meteorology (DoM) and irrigation water availability
        information from various departments. Field-level data were collected from multiple sources
        to compile this report.
    </p>
    <p style="text-align: justify;">
        The Department of Meteorology (DoM) has issued the seasonal weather forecast
        for the upcoming three-month period, outlining anticipated weather conditions.
    </p>
</div>`))

var shellTmpl = template.Must(template.New("document").Parse(`<html>
    <head>
        <title>Environment Data Report</title>
        <style>
            body {
                font-family: Arial, sans-serif;
                margin: 20px;
                line-height: 1.6;
            }
            h1, h2, h3, h4 {
                text-align: center;
            }
            .section {
                margin-top: 20px;
            }
            img {
                max-width: 100%;
                height: auto;
            }
        </style>
    </head>
    <body>
{{.Body}}
    </body>
</html>`))

// renderSection renders one record, or its absence, into a section block.
// An absent record still produces a full block so pagination positions stay
// fixed. observed is the pre-formatted substitution value ("40%"), empty
// when none was supplied.
func renderSection(title string, rec *domain.Record, observed string) (string, error) {
	view := sectionView{Title: title}

	if rec != nil {
		view.Available = true
		view.Text = rec.Content.Text
		if observed != "" {
			view.Text = strings.ReplaceAll(view.Text, PlaceholderToken, observed)
		}

		for i, png := range [][]byte{rec.Content.PNG1, rec.Content.PNG2, rec.Content.PNG3} {
			if len(png) == 0 {
				continue
			}
			view.Images = append(view.Images, sectionImage{
				Src: template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png)),
				Alt: fmt.Sprintf("%s Image %d", title, i+1),
			})
		}

		for _, csv := range []string{rec.Content.CSV1, rec.Content.CSV2} {
			if table, ok := parseCSVTable(csv); ok {
				view.Tables = append(view.Tables, table)
			}
		}
	}

	var b strings.Builder
	if err := sectionTmpl.Execute(&b, view); err != nil {
		return "", fmt.Errorf("render section %q: %w", title, err)
	}
	return b.String(), nil
}

// renderIntroduction renders the fixed opening block parameterized by the
// request date and district.
func renderIntroduction(req Request) (string, error) {
	var b strings.Builder
	err := introTmpl.Execute(&b, introView{
		District: req.District,
		Month:    req.Month,
		Year:     req.Year,
		Day:      req.Day,
	})
	if err != nil {
		return "", fmt.Errorf("render introduction: %w", err)
	}
	return b.String(), nil
}

// renderDocument wraps the blocks in the document shell, appending the
// pagination sentinel after every block.
func renderDocument(blocks []string) (string, error) {
	var body strings.Builder
	for _, block := range blocks {
		body.WriteString(block)
		body.WriteString("\n")
		body.WriteString(PageBreakSentinel)
		body.WriteString("\n")
	}

	var b strings.Builder
	if err := shellTmpl.Execute(&b, struct{ Body template.HTML }{Body: template.HTML(body.String())}); err != nil {
		return "", fmt.Errorf("render document: %w", err)
	}
	return b.String(), nil
}

// parseCSVTable splits delimited text into a header row and data rows.
// Returns ok=false for empty input so empty slots are omitted entirely.
func parseCSVTable(data string) (sectionTable, bool) {
	var rows [][]string
	for _, line := range strings.Split(data, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		cells := strings.Split(line, ",")
		for i := range cells {
			cells[i] = strings.TrimSpace(cells[i])
		}
		rows = append(rows, cells)
	}
	if len(rows) == 0 {
		return sectionTable{}, false
	}
	return sectionTable{Header: rows[0], Rows: rows[1:]}, true
}
