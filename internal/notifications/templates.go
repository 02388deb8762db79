package notifications

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"pet-services/internal/ports/events"
)

//go:embed templates/*.html
var templateFS embed.FS

var statusLabels = map[string]string{
	"pending":   "pendiente",
	"confirmed": "confirmada",
	"completed": "completada",
	"cancelled": "cancelada",
}

var funcs = template.FuncMap{
	"statusLabel": func(s string) string {
		if l, ok := statusLabels[s]; ok {
			return l
		}
		return s
	},
}

// templateData es lo que ven los templates: D son los datos del evento.
type templateData struct {
	App string
	D   map[string]string
}

type renderer struct {
	byType map[events.Type]*template.Template
}

func newRenderer() (*renderer, error) {
	base, err := template.New("layout").Funcs(funcs).Option("missingkey=zero").ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, err
	}
	r := &renderer{byType: map[events.Type]*template.Template{}}
	for t := range subjects {
		clone, err := base.Clone()
		if err != nil {
			return nil, err
		}
		tpl, err := clone.ParseFS(templateFS, "templates/"+string(t)+".html")
		if err != nil {
			return nil, fmt.Errorf("template %s: %w", t, err)
		}
		r.byType[t] = tpl
	}
	return r, nil
}

func (r *renderer) render(t events.Type, data templateData) (string, error) {
	tpl, ok := r.byType[t]
	if !ok {
		return "", fmt.Errorf("no template for %s", t)
	}
	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
