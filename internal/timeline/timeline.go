// Package timeline synthesizes the expected procedural event sequence for
// a classified stage. Synthesis is a pure lookup over static templates:
// event order encodes procedural chronology and is never resorted, and
// editing a template is a content change, not a logic change.
package timeline

import (
	"time"

	"github.com/lexgo-ia/lexgo/internal/stages"
	"github.com/lexgo-ia/lexgo/pkg/formatting"
)

// Kind categorizes a timeline event.
type Kind string

// Event kinds. Hito, audiencia, and plazo_critico events carry day
// offsets; resumen, advertencia, and sugerencia events do not.
const (
	Hito         Kind = "hito"
	Audiencia    Kind = "audiencia"
	PlazoCritico Kind = "plazo_critico"
	Resumen      Kind = "resumen"
	Advertencia  Kind = "advertencia"
	Sugerencia   Kind = "sugerencia"
)

// Event is one entry of a synthesized timeline. DaysFromStart and
// EstimatedDate are present only on dated events.
type Event struct {
	Title         string `json:"titulo"`
	Description   string `json:"descripcion"`
	Kind          Kind   `json:"tipo"`
	DaysFromStart *int   `json:"dias_desde_inicio,omitempty"`
	EstimatedDate string `json:"fecha_estimada,omitempty"`
}

// Synthesize returns the ordered event sequence for a predicted stage.
// Events with a day offset get an estimated date of start plus offset;
// a zero start defaults to the current date. Unrecognized stages fall
// back to the desconocido template, keeping the function total.
func Synthesize(stage stages.Stage, start time.Time) []Event {
	template, ok := templates[stage]
	if !ok {
		template = templates[stages.Desconocido]
	}
	if start.IsZero() {
		start = time.Now()
	}

	events := make([]Event, len(template))
	for i, ev := range template {
		events[i] = ev
		if ev.DaysFromStart != nil {
			offset := *ev.DaysFromStart
			events[i].DaysFromStart = &offset
			events[i].EstimatedDate = formatting.FormatDate(start.AddDate(0, 0, offset))
		}
	}

	return events
}

func days(n int) *int {
	return &n
}
