package timeline

import "github.com/lexgo-ia/lexgo/internal/stages"

// templates maps each procedural stage to its hand-authored event
// sequence. Every stage ends in a non-dated suggestions event with
// advisory guidance for the operator.
var templates = map[stages.Stage][]Event{
	stages.Seclo: {
		{
			Title:         "Presentación en SECLO",
			Description:   "Reclamo presentado ante el Servicio de Conciliación Laboral Obligatoria",
			Kind:          Hito,
			DaysFromStart: days(0),
		},
		{
			Title:         "Notificación al empleador",
			Description:   "El SECLO notifica al empleador mediante cédula",
			Kind:          Hito,
			DaysFromStart: days(7),
		},
		{
			Title:         "Audiencia de conciliación SECLO",
			Description:   "Audiencia obligatoria de conciliación prelegal",
			Kind:          Audiencia,
			DaysFromStart: days(20),
		},
		{
			Title:       "Cosas a tener en cuenta",
			Description: "Sugerencias: Preparar toda la documentación laboral (recibos, telegrama). Si hay acuerdo, puede homologarse ante Ministerio. Si fracasa, tendrá 90 días para demandar judicialmente.",
			Kind:        Sugerencia,
		},
	},
	stages.DemandaInicial: {
		{
			Title:         "Certificado habilitante SECLO",
			Description:   "Se obtuvo certificado de fracaso de conciliación",
			Kind:          Hito,
			DaysFromStart: days(0),
		},
		{
			Title:         "Presentación de demanda judicial",
			Description:   "Demanda presentada ante Juzgado Laboral",
			Kind:          Hito,
			DaysFromStart: days(30),
		},
		{
			Title:         "Sorteo y traslado",
			Description:   "Juzgado asignado y traslado notificado al demandado (10 días para contestar)",
			Kind:          Hito,
			DaysFromStart: days(35),
		},
		{
			Title:         "Vencimiento contestación",
			Description:   "Plazo para que el demandado conteste la demanda",
			Kind:          PlazoCritico,
			DaysFromStart: days(50),
		},
		{
			Title:       "Cosas a tener en cuenta",
			Description: "Sugerencias: Verificar que la demanda incluya certificado SECLO. El traslado es un plazo perentorio de 10 días hábiles. La incomparecencia del demandado puede generar confesión ficta. Preparar para audiencia Art. 58.",
			Kind:        Sugerencia,
		},
	},
	stages.Prueba: {
		{
			Title:         "Eventos previos",
			Description:   "Ya se realizó SECLO, demanda, contestación y audiencia Art. 58",
			Kind:          Resumen,
			DaysFromStart: days(0),
		},
		{
			Title:         "Apertura a prueba",
			Description:   "Causa abierta a prueba por 40 días hábiles",
			Kind:          Hito,
			DaysFromStart: days(60),
		},
		{
			Title:         "Producción de prueba",
			Description:   "Período para producir prueba documental, pericial, testimonial",
			Kind:          Hito,
			DaysFromStart: days(65),
		},
		{
			Title:         "Clausura de prueba",
			Description:   "Vencimiento del plazo de 40 días hábiles",
			Kind:          PlazoCritico,
			DaysFromStart: days(120),
		},
		{
			Title:       "Cosas a tener en cuenta",
			Description: "Sugerencias: Gestionar oficios a AFIP, ANSES, ART si corresponde. Coordinar peritos contadores. Citar testigos con anticipación. Monitorear reiteraciones de oficios. El plazo de 40 días es perentorio.",
			Kind:        Sugerencia,
		},
	},
	stages.Sentencia: {
		{
			Title:         "Proceso completo realizado",
			Description:   "Se completaron todas las etapas: SECLO, demanda, prueba, alegatos",
			Kind:          Resumen,
			DaysFromStart: days(0),
		},
		{
			Title:         "Alegatos presentados",
			Description:   "Las partes presentaron sus alegatos sobre el mérito de la prueba",
			Kind:          Hito,
			DaysFromStart: days(150),
		},
		{
			Title:         "Llamamiento de autos",
			Description:   "Expediente a despacho del juez para dictar sentencia",
			Kind:          Hito,
			DaysFromStart: days(160),
		},
		{
			Title:         "Sentencia de primera instancia",
			Description:   "El juez dicta sentencia resolviendo la causa",
			Kind:          Hito,
			DaysFromStart: days(250),
		},
		{
			Title:       "Cosas a tener en cuenta",
			Description: "Sugerencias: Analizar si la sentencia es favorable, parcial o desfavorable. Evaluar viabilidad de recurso de apelación (5 días hábiles). Si es favorable, preparar liquidación de condena. Si es desfavorable, preparar expresión de agravios. Considerar costas del proceso.",
			Kind:        Sugerencia,
		},
	},
	stages.Desconocido: {
		{
			Title:       "Etapa no identificada",
			Description: "No se pudo determinar la etapa procesal con certeza",
			Kind:        Advertencia,
		},
		{
			Title:       "Cosas a tener en cuenta",
			Description: "Sugerencias: Revisar manualmente el documento. Verificar que sea un documento procesal laboral de CABA/Buenos Aires. Consultar con un abogado laboralista para identificar correctamente la etapa.",
			Kind:        Sugerencia,
		},
	},
}
