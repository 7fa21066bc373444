// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package views

import (
	"fmt"
	"html/template"
	"io"

	"github.com/danielhkuo/uniforms/models"
)

// FieldPrefix names urlencoded answer fields: q_<questionId>
const FieldPrefix = "q_"

// FillPage is everything the fill template needs
type FillPage struct {
	View      models.FillView
	Action    string
	Submitted bool
}

var fillTemplate = template.Must(template.New("fill").Funcs(template.FuncMap{
	"fieldName": func(id string) string { return FieldPrefix + id },
}).Parse(fillHTML))

// RenderFill writes the public fill page for page.View
func RenderFill(w io.Writer, page FillPage) error {
	if err := fillTemplate.Execute(w, page); err != nil {
		return fmt.Errorf("failed to render fill page: %w", err)
	}
	return nil
}

const fillHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{if .View.Title}}{{.View.Title}}{{else}}UniForms{{end}}</title>
</head>
<body>
<main>
{{- if eq .View.State "success"}}
<h1>{{.View.Title}}</h1>
<p>{{.View.Description}}</p>
{{- if .Submitted}}
<p role="status">Thank you! Your response has been recorded.</p>
{{- else}}
<form method="post" action="{{.Action}}">
{{- range .View.Fields}}
<fieldset>
<legend>{{.Label}}</legend>
{{- if eq .Input "radio"}}
{{- $name := fieldName .QuestionID}}
{{- $required := .Required}}
{{- range $i, $opt := .Options}}
<label><input type="radio" name="{{$name}}" value="{{$opt}}"{{if and $required (eq $i 0)}} required{{end}}> {{$opt}}</label>
{{- end}}
{{- else}}
<input type="text" name="{{fieldName .QuestionID}}" value="{{.Value}}"{{if .Required}} required{{end}}>
{{- end}}
</fieldset>
{{- end}}
<button type="submit">Submit</button>
</form>
{{- end}}
{{- else if eq .View.State "not_found"}}
<h1>Form not found</h1>
<p>{{.View.Message}}</p>
{{- else}}
<h1>Something went wrong</h1>
<p>{{.View.Message}}</p>
{{- end}}
</main>
</body>
</html>
`
