package citation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		text string
		want OffenseType
	}{
		{"tardiness", "El trabajador registró llegada tarde de 40 minutos", OffenseTardiness},
		{"tardiness upper case", "LLEGÓ TARDE AL TURNO", OffenseTardiness},
		{"absence", "Inasistencia injustificada al turno del sábado", OffenseAbsence},
		{"abandonment", "abandono del puesto de trabajo sin autorización", OffenseAbsence},
		{"safety equipment", "No portaba los elementos de protección personal (EPP) en plataforma", OffenseSafetyEquipment},
		{"safety equipment acronym", "se retiró el EPP durante la operación", OffenseSafetyEquipment},
		{"substance use", "se presentó en estado de embriaguez", OffenseSubstanceUse},
		{"substance wins over absence", "no se presentó a tiempo por consumo de alcohol", OffenseSubstanceUse},
		{"misconduct", "Trato irrespetuoso y vocabulario soez hacia su supervisor", OffenseMisconduct},
		{"property damage", "Causó daños al vehículo de la compañía", OffensePropertyDamage},
		{"procedure", "Omitió la verificación de la lista de chequeo", OffenseProcedure},
		{"procedure keyword", "No siguió el procedimiento de cargue", OffenseProcedure},
		{"disciplinary process", "de conformidad con el procedimiento disciplinario", OffenseGeneral},
		{"due process", "garantizando el debido proceso y el proceso disciplinario", OffenseGeneral},
		{"unknown", "Hechos ocurridos en la bodega principal", OffenseGeneral},
		{"empty", "", OffenseGeneral},
		{"whitespace", "   \n\t", OffenseGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.text))
		})
	}
}

func TestClassify_TotalAndIdempotent(t *testing.T) {
	valid := make(map[OffenseType]bool)
	for _, o := range AllOffenseTypes() {
		valid[o] = true
	}

	inputs := []string{
		"", "x", "ñandú", "Artículo 58", "LLEGADA TARDE", "casco y guantes",
		"daño", "protocolo", "é́", "Señor (a): JUAN",
	}
	for _, in := range inputs {
		first := Classify(in)
		assert.True(t, valid[first], "unexpected category %q for %q", first, in)
		assert.Equal(t, first, Classify(in), "classification of %q not stable", in)
	}
}

func TestClassifyRecord_PrefersNarrative(t *testing.T) {
	record := Record{
		Narrative:     "No portaba el casco de seguridad",
		CitedArticles: "Artículo 60 Se prohíbe presentarse en estado de embriaguez",
	}
	assert.Equal(t, OffenseSafetyEquipment, classifyRecord(record, ""))

	record.Narrative = NarrativeNotFound
	assert.Equal(t, OffenseSubstanceUse, classifyRecord(record, ""))

	record.CitedArticles = ArticlesNotFound
	assert.Equal(t, OffenseTardiness, classifyRecord(record, "retardo en el ingreso"))
}

func TestOffenseType_Label(t *testing.T) {
	for _, o := range AllOffenseTypes() {
		assert.NotEmpty(t, o.Label())
	}
	assert.Equal(t, OffenseGeneral.Label(), OffenseType("unknown").Label())
}

func TestParseOffenseType(t *testing.T) {
	assert.Equal(t, OffenseAbsence, ParseOffenseType(" Absence "))
	assert.Equal(t, OffenseGeneral, ParseOffenseType("vacaciones"))
	assert.Equal(t, OffenseGeneral, ParseOffenseType(""))
}

func TestClassifyRecord_TranscriptIgnoresBoilerplate(t *testing.T) {
	record := Record{Narrative: NarrativeNotFound, CitedArticles: ArticlesNotFound}
	transcript := "Se le cita a diligencia de descargos conforme a los procedimientos establecidos " +
		"por la empresa, garantizando el debido proceso dentro del procedimiento disciplinario."

	assert.Equal(t, OffenseGeneral, classifyRecord(record, transcript))

	record.Narrative = "No siguió el procedimiento de cargue asignado."
	assert.Equal(t, OffenseProcedure, classifyRecord(record, transcript))
}
