package server

import (
	"embed"
	"html/template"
	"net/url"
	"strings"

	"github.com/nekruzvatanshoev/carprice/pkg/carprice/predict"
	"github.com/nekruzvatanshoev/carprice/pkg/carprice/schema"
)

//go:embed templates/page.html
var templatesFS embed.FS

var pageTmpl = template.Must(template.ParseFS(templatesFS, "templates/page.html"))

type option struct {
	Value    string
	Selected bool
}

type fieldView struct {
	schema.Field
	Value   string
	Options []option
}

type pageData struct {
	Fields  []fieldView
	Explain bool

	InputError    string
	EncodingError string

	PriceText  string
	PriceError string

	ShowExplanation  bool
	Plot             template.HTML
	ExplanationError string
}

func newPageData(vars url.Values, wantExplanation bool) *pageData {
	data := &pageData{Explain: wantExplanation}
	for _, f := range schema.Fields {
		v := strings.TrimSpace(vars.Get(f.Name))
		if v == "" {
			v = f.Default
		}
		fv := fieldView{Field: f, Value: v}
		for _, c := range f.Choices {
			fv.Options = append(fv.Options, option{Value: c, Selected: c == v})
		}
		data.Fields = append(data.Fields, fv)
	}
	return data
}

func (d *pageData) setOutcome(out predict.Outcome) {
	if out.Encoding != predict.StateEncoded {
		d.EncodingError = out.EncodingErr.Error()
		return
	}

	switch out.Prediction {
	case predict.StatePredicted:
		d.PriceText = predict.PriceMessage(out.Price)
	case predict.StatePredictionFailed:
		d.PriceError = predict.Cause(out.PredictionErr)
	}

	d.ShowExplanation = out.Explanation != predict.StateSkipped
	switch out.Explanation {
	case predict.StateExplained:
		d.Plot = out.Plot
	case predict.StateExplanationFailed:
		d.ExplanationError = predict.Cause(out.ExplanationErr)
	}
}
