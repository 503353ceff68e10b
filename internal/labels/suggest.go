package labels

import (
	"strings"

	"github.com/lexgo-ia/lexgo/internal/stages"
)

// stageKeywords are phrases that strongly indicate a procedural stage.
// Matching is advisory only; the operator always picks the label.
var stageKeywords = map[stages.Stage][]string{
	stages.Seclo: {
		"seclo",
		"conciliación previa",
		"certificado habilitante",
		"audiencia conciliatoria",
	},
	stages.DemandaInicial: {
		"traslado de la demanda",
		"córrese traslado",
		"contestación de demanda",
	},
	stages.Prueba: {
		"apertura a prueba",
		"testimonial",
		"pericial",
		"producción de prueba",
	},
	stages.Sentencia: {
		"resuelvo",
		"se hace lugar",
		"se rechaza",
		"parte dispositiva",
	},
}

// Suggest returns the stages whose keywords appear in the document text,
// in chronological stage order.
func Suggest(text string) []stages.Stage {
	lower := strings.ToLower(text)

	var matched []stages.Stage
	for _, stage := range stages.All() {
		for _, kw := range stageKeywords[stage] {
			if strings.Contains(lower, kw) {
				matched = append(matched, stage)
				break
			}
		}
	}

	return matched
}
