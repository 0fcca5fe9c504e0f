package engine

import (
	"github.com/crimson-sun/eventlogtrack/internal/engine/classifier"
	"github.com/crimson-sun/eventlogtrack/internal/engine/format"
	"github.com/crimson-sun/eventlogtrack/internal/engine/locale"
	"github.com/crimson-sun/eventlogtrack/internal/engine/token"
	"github.com/crimson-sun/eventlogtrack/internal/model"
)

// Policy controls the guardrails applied while turning a record into a message.
type Policy struct {
	// ValidateFormat swaps an unusable template for format.Default.
	ValidateFormat bool
	// ReplaceOnError discards a partially rendered message on token errors
	// and emits the localized locale.InvalidToken text instead. When false the
	// malformed tokens are left blank.
	ReplaceOnError bool
}

var (
	// StdoutPolicy renders the configured template as is.
	StdoutPolicy = Policy{}
	// SyslogPolicy enforces the required placeholders and hides render errors.
	SyslogPolicy = Policy{ValidateFormat: true, ReplaceOnError: true}
)

// Result is the outcome of processing one record.
type Result struct {
	Message        model.RenderedMessage
	Template       string // template actually rendered
	FormatFallback bool   // Template is format.Default because validation failed
	RenderErr      error  // joined *token.RenderError values, if any
}

// Engine orchestrates the classify → validate → render pipeline.
type Engine struct {
	classifier *classifier.Classifier
	translator *locale.Translator
}

// New creates an Engine with the provided components.
func New(cls *classifier.Classifier, tr *locale.Translator) *Engine {
	return &Engine{classifier: cls, translator: tr}
}

// Process classifies rec and renders it with template under policy p.
// It never fails; problems are reported on the Result.
func (e *Engine) Process(rec model.EventRecord, template string, p Policy) Result {
	sev := e.classifier.Classify(rec.Operation)

	res := Result{Template: template}
	if p.ValidateFormat {
		var ok bool
		res.Template, ok = format.Validate(template)
		res.FormatFallback = !ok
	}

	text, err := token.Render(res.Template, token.EventData(rec, sev))
	if err != nil {
		res.RenderErr = err
		if p.ReplaceOnError {
			text = e.translator.T(locale.InvalidToken)
		}
	}

	res.Message = model.RenderedMessage{Text: text, Severity: sev}
	return res
}
