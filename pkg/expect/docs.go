package expect

import (
	"context"
	"encoding/json"
	"html/template"
	"strings"

	"github.com/congress-network/congressx/pkg/db/models"
)

var docsTemplate = template.Must(template.New("docs").Parse(`<!DOCTYPE html>
<html>
<head>
<title>Data Validation</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; margin-bottom: 2em; }
th, td { border: 1px solid #ccc; padding: 0.4em 0.8em; text-align: left; }
.pass { color: #2e7d32; }
.fail { color: #c62828; font-weight: bold; }
</style>
</head>
<body>
<h1>Data Validation</h1>
{{range .Runs}}
<h2>{{.Table}} <span class="{{if .Success}}pass{{else}}fail{{end}}">{{if .Success}}passed{{else}}failed{{end}}</span></h2>
<p>Suite {{.Suite}}, evaluated {{.EvaluatedAt.Format "2006-01-02 15:04:05 MST"}}: {{.Passed}}/{{.Total}} expectations passed.</p>
<table>
<tr><th>Expectation</th><th>Outcome</th><th>Detail</th></tr>
{{range .Results}}
<tr><td>{{.Expectation}}</td><td class="{{if .Success}}pass{{else}}fail{{end}}">{{if .Success}}pass{{else}}fail{{end}}</td><td>{{.Detail}}</td></tr>
{{end}}
</table>
{{end}}
{{if not .Runs}}<p>No validation runs recorded yet.</p>{{end}}
</body>
</html>
`))

type docsRun struct {
	models.ValidationResult
	Results []Result
}

// RenderDocs renders an HTML report of the latest suite run per table,
// newest data first.
func (r *Runner) RenderDocs(ctx context.Context) (string, error) {
	recorded, err := r.Engine.ValidationResults(ctx, 200)
	if err != nil {
		return "", err
	}

	// Keep only the newest run per table; results arrive newest first.
	seen := map[string]struct{}{}
	var runs []docsRun
	for _, rec := range recorded {
		if _, dup := seen[rec.Table]; dup {
			continue
		}
		seen[rec.Table] = struct{}{}

		run := docsRun{ValidationResult: rec}
		if rec.Detail != "" {
			// Detail is stored as the JSON result list; skip it when
			// an older record does not decode.
			_ = json.Unmarshal([]byte(rec.Detail), &run.Results)
		}
		runs = append(runs, run)
	}

	var out strings.Builder
	if err := docsTemplate.Execute(&out, map[string]any{"Runs": runs}); err != nil {
		return "", err
	}
	return out.String(), nil
}
