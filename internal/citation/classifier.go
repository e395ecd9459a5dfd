package citation

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// OffenseType is the coarse category of the alleged infraction
type OffenseType string

const (
	OffenseTardiness       OffenseType = "tardiness"
	OffenseAbsence         OffenseType = "absence"
	OffenseSafetyEquipment OffenseType = "safety_equipment"
	OffenseSubstanceUse    OffenseType = "substance_use"
	OffenseMisconduct      OffenseType = "misconduct"
	OffensePropertyDamage  OffenseType = "property_damage"
	OffenseProcedure       OffenseType = "procedure"
	OffenseGeneral         OffenseType = "general"
)

var offenseLabels = map[OffenseType]string{
	OffenseTardiness:       "Llegada tarde / impuntualidad",
	OffenseAbsence:         "Inasistencia / abandono del puesto",
	OffenseSafetyEquipment: "Uso indebido de elementos de protección personal",
	OffenseSubstanceUse:    "Alcohol o sustancias psicoactivas",
	OffenseMisconduct:      "Conducta irrespetuosa o agresiva",
	OffensePropertyDamage:  "Daño o pérdida de bienes",
	OffenseProcedure:       "Incumplimiento de procedimiento",
	OffenseGeneral:         "General",
}

// AllOffenseTypes lists every category, default branch last
func AllOffenseTypes() []OffenseType {
	return []OffenseType{
		OffenseTardiness,
		OffenseAbsence,
		OffenseSafetyEquipment,
		OffenseSubstanceUse,
		OffenseMisconduct,
		OffensePropertyDamage,
		OffenseProcedure,
		OffenseGeneral,
	}
}

// Label returns the Spanish label used in the acta
func (o OffenseType) Label() string {
	if label, ok := offenseLabels[o]; ok {
		return label
	}
	return offenseLabels[OffenseGeneral]
}

// ParseOffenseType maps a category name to its OffenseType, falling back to general
func ParseOffenseType(s string) OffenseType {
	candidate := OffenseType(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := offenseLabels[candidate]; ok {
		return candidate
	}
	return OffenseGeneral
}

// offenseRule lists the patterns of one category. Focused patterns are too
// common in citation boilerplate to be trusted outside the narrative and the
// article block.
type offenseRule struct {
	offense  OffenseType
	patterns []*regexp.Regexp
	focused  []*regexp.Regexp
}

// disciplinaryBoilerplate names the hearing itself, never the offense
var disciplinaryBoilerplate = regexp.MustCompile(
	`procedimientos?\s+disciplinarios?|proceso\s+disciplinario|debido\s+proceso`)

// offenseRules is evaluated in order against accent-folded lower-case text.
// The first rule with a matching pattern decides the category.
var offenseRules = []offenseRule{
	{
		offense: OffenseSubstanceUse,
		patterns: compileAll(
			`alcohol`,
			`embriaguez`,
			`alicorad`,
			`sustancias?\s+psicoactivas?`,
			`\bdrogas?\b`,
			`estupefacientes?`,
		),
	},
	{
		offense: OffenseSafetyEquipment,
		patterns: compileAll(
			`elementos?\s+de\s+proteccion`,
			`\bepp\b`,
			`\bcasco\b`,
			`\barnes\b`,
			`chaleco`,
			`gafas\s+de\s+seguridad`,
			`proteccion\s+auditiva`,
			`\bguantes\b`,
			`botas\s+de\s+seguridad`,
		),
	},
	{
		offense: OffenseTardiness,
		patterns: compileAll(
			`llegada\s+tarde`,
			`lleg(o|ar|ando)\s+tarde`,
			`\bretardos?\b`,
			`impuntualidad`,
			`tardanza`,
			`hora\s+de\s+(ingreso|entrada)`,
			`minutos\s+(tarde|despues)`,
		),
	},
	{
		offense: OffenseAbsence,
		patterns: compileAll(
			`inasistencia`,
			`ausencia`,
			`ausentismo`,
			`no\s+se\s+presento`,
			`no\s+asistio`,
			`abandono\s+(del|de\s+su)\s+(puesto|turno|trabajo|cargo)`,
		),
	},
	{
		offense: OffenseMisconduct,
		patterns: compileAll(
			`irrespet`,
			`agresi(on|vo|va)`,
			`insult`,
			`\bacoso\b`,
			`groser`,
			`amenaz`,
			`\bpelea`,
			`vocabulario\s+soez`,
			`conducta\s+inapropiada`,
		),
	},
	{
		offense: OffensePropertyDamage,
		patterns: compileAll(
			`\bdanos?\b`,
			`\baverias?\b`,
			`perdida\s+de\s+(equipos?|herramientas?|materiales?|mercancia)`,
			`colision`,
			`\bchoque\b`,
			`deterioro`,
		),
	},
	{
		offense: OffenseProcedure,
		patterns: compileAll(
			`protocolo`,
			`verificacion`,
			`instructivo`,
			`lista\s+de\s+chequeo`,
			`incumplimiento\s+de\s+(las\s+)?(normas|instrucciones)`,
		),
		focused: compileAll(
			`procedimiento`,
		),
	},
}

func compileAll(patterns ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		compiled = append(compiled, regexp.MustCompile(p))
	}
	return compiled
}

// Classify maps free text, such as a narrative or an article block, to
// exactly one offense category
func Classify(text string) OffenseType {
	return classify(text, true)
}

func classify(text string, focused bool) OffenseType {
	folded := disciplinaryBoilerplate.ReplaceAllString(fold(text), " ")
	if strings.TrimSpace(folded) == "" {
		return OffenseGeneral
	}

	for _, rule := range offenseRules {
		patterns := rule.patterns
		if focused {
			patterns = append(patterns[:len(patterns):len(patterns)], rule.focused...)
		}
		for _, pattern := range patterns {
			if pattern.MatchString(folded) {
				return rule.offense
			}
		}
	}

	return OffenseGeneral
}

// classifyRecord prefers the narrative, then the cited articles, then the
// whole transcript. Focused patterns are skipped on the transcript.
func classifyRecord(r Record, transcript string) OffenseType {
	if r.Found(KeyNarrative) {
		if offense := Classify(r.Narrative); offense != OffenseGeneral {
			return offense
		}
	}
	if r.Found(KeyCitedArticles) {
		if offense := Classify(r.CitedArticles); offense != OffenseGeneral {
			return offense
		}
	}
	return classify(transcript, false)
}

// fold lower-cases text and strips diacritics so "Inasistencia" and
// "INASISTÉNCIA" match the same pattern
func fold(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, text)
	if err != nil {
		folded = text
	}
	return strings.ToLower(strings.Join(strings.Fields(folded), " "))
}
