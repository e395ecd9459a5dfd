package questions

import "github.com/a3tai/acta-generator/internal/citation"

// baseQuestions holds the canned question set for each offense category
var baseQuestions = map[citation.OffenseType][]string{
	citation.OffenseTardiness: {
		"¿A qué hora llegó a su lugar de trabajo el día de los hechos?",
		"¿Cuál es el horario de ingreso que tiene asignado?",
		"¿Qué situación le impidió llegar a la hora establecida?",
		"¿Informó a su jefe inmediato sobre el retraso? ¿Por qué medio?",
		"¿Tiene algún soporte que justifique la llegada tarde?",
		"¿Qué medidas tomará para cumplir con el horario en adelante?",
	},
	citation.OffenseAbsence: {
		"¿Por qué no se presentó a laborar el día de los hechos?",
		"¿Informó con anticipación a su jefe inmediato sobre su ausencia?",
		"¿Cuenta con incapacidad médica, permiso o algún soporte que justifique la inasistencia?",
		"¿Conoce el procedimiento establecido para reportar una ausencia?",
		"¿Qué medidas propone para evitar que vuelva a suceder?",
	},
	citation.OffenseSafetyEquipment: {
		"¿Qué elementos de protección personal le fueron entregados para su labor?",
		"¿Por qué no utilizaba los elementos de protección personal en el momento de los hechos?",
		"¿Recibió capacitación sobre el uso obligatorio de estos elementos?",
		"¿Los elementos se encontraban en buen estado y disponibles?",
		"¿Es consciente de los riesgos a los que se expone al no usarlos?",
		"¿Qué medidas propone para evitar que vuelva a suceder?",
	},
	citation.OffenseSubstanceUse: {
		"¿Consumió bebidas alcohólicas o sustancias psicoactivas antes o durante su jornada?",
		"¿Aceptó la realización de la prueba correspondiente? ¿Cuál fue el resultado?",
		"¿Conoce la política de la empresa sobre alcohol y sustancias psicoactivas?",
		"¿Se encuentra bajo algún tratamiento médico que pudiera afectar el resultado?",
		"¿Qué tiene que decir frente a los hechos que se le imputan?",
	},
	citation.OffenseMisconduct: {
		"¿Puede describir lo ocurrido desde su perspectiva?",
		"¿Qué motivó la reacción que se le atribuye?",
		"¿Hubo testigos de la situación? ¿Quiénes?",
		"¿Conoce las normas de convivencia y respeto del Reglamento Interno de Trabajo?",
		"¿Ha tenido inconvenientes previos con las personas involucradas?",
		"¿Qué medidas propone para evitar que vuelva a suceder?",
	},
	citation.OffensePropertyDamage: {
		"¿Puede explicar cómo se produjo el daño o la pérdida?",
		"¿Qué equipo, herramienta o bien estaba bajo su responsabilidad?",
		"¿Reportó de inmediato lo ocurrido a su jefe inmediato?",
		"¿Estaba autorizado y capacitado para operar el equipo involucrado?",
		"¿Existió alguna falla o condición externa que contribuyera a lo sucedido?",
	},
	citation.OffenseProcedure: {
		"¿Puede explicar los hechos que llevaron al incumplimiento?",
		"¿Por qué no se realizó la verificación correspondiente?",
		"¿Conocía el procedimiento correcto para esta operación?",
		"¿Recibió capacitación sobre este procedimiento? ¿Cuándo?",
		"¿Hubo alguna situación que le impidiera cumplirlo?",
		"¿Qué medidas propone para evitar que vuelva a suceder?",
	},
	citation.OffenseGeneral: {
		"¿Puede explicar los hechos que llevaron al incumplimiento?",
		"¿Por qué no se realizó la verificación correspondiente?",
		"¿Conocía el procedimiento correcto para esta operación?",
		"¿Hubo alguna situación que le impidiera cumplirlo?",
		"¿Qué medidas propone para evitar que vuelva a suceder?",
	},
}

// Base returns a copy of the canned questions for the category.
// Unknown categories get the general set.
func Base(offense citation.OffenseType) []string {
	qs, ok := baseQuestions[offense]
	if !ok {
		qs = baseQuestions[citation.OffenseGeneral]
	}
	out := make([]string, len(qs))
	copy(out, qs)
	return out
}
