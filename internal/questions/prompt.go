package questions

import (
	"bytes"
	"strings"
	"text/template"

	"github.com/a3tai/acta-generator/internal/citation"
)

var promptTemplate = template.Must(template.New("descargos").
	Funcs(template.FuncMap{"inc": func(i int) int { return i + 1 }}).
	Parse(
	`Eres un asistente de Recursos Humanos que genera preguntas para diligencias de descargo laborales.

Contexto del caso:
- Colaborador: {{.Name}}
- Fecha del hecho: {{.IncidentDate}}
- Tipo de falta: {{.Offense}}
- Detalle del caso: {{.Narrative}}
- Artículos implicados: {{.Articles}}

Preguntas que ya se harán (no las repitas):
{{range $i, $q := .Base}}{{inc $i}}. {{$q}}
{{end}}
Tu tarea:
Genera exactamente {{.Count}} preguntas adicionales claras, neutrales y enfocadas en los hechos,
que permitan al colaborador explicar su versión de los acontecimientos.

Requisitos:
- No escribas introducciones, saludos ni frases como "aquí tienes" o "estas son".
- No uses asteriscos, comillas ni Markdown.
- No incluyas explicaciones o contexto adicional.
- Entrega únicamente la lista numerada de preguntas, una por línea, con este formato:

1. ¿Pregunta 1?
2. ¿Pregunta 2?
3. ¿Pregunta 3?
`))

type promptData struct {
	Name         string
	IncidentDate string
	Offense      string
	Narrative    string
	Articles     string
	Base         []string
	Count        int
}

// BuildPrompt renders the model prompt asking for count questions beyond base
func BuildPrompt(record citation.Record, base []string, count int) (string, error) {
	data := promptData{
		Name:         record.Name,
		IncidentDate: record.IncidentDate,
		Offense:      record.OffenseType.Label(),
		Narrative:    record.Narrative,
		Articles:     strings.ReplaceAll(record.CitedArticles, "\n", "; "),
		Base:         base,
		Count:        count,
	}

	var buf bytes.Buffer
	if err := promptTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
