package citation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_Fields(t *testing.T) {
	record := Record{
		Name:          "Juan Pérez",
		IDNumber:      "1020304050",
		CitationDate:  "3 de octubre de 2025 a las 9:00 a.m.",
		IncidentDate:  "2025-10-01",
		Narrative:     "Llegó tarde.",
		CitedArticles: "Artículo 58 Asistir puntualmente",
		OffenseType:   OffenseTardiness,
	}

	fields := record.Fields()
	require.Len(t, fields, 7)

	keys := make([]string, 0, len(fields))
	for _, f := range fields {
		keys = append(keys, f.Key)
		assert.NotEmpty(t, f.Label, f.Key)
	}
	assert.Equal(t, []string{
		KeyName, KeyIDNumber, KeyCitationDate, KeyIncidentDate,
		KeyOffenseType, KeyNarrative, KeyCitedArticles,
	}, keys)
	assert.Equal(t, OffenseTardiness.Label(), fields[4].Value)
}

func TestRecord_Found(t *testing.T) {
	tests := []struct {
		name   string
		record Record
		key    string
		want   bool
	}{
		{name: "name match", record: Record{Name: "Ana Ruiz"}, key: KeyName, want: true},
		{name: "name sentinel", record: Record{Name: NameNotFound}, key: KeyName, want: false},
		{name: "empty name", record: Record{}, key: KeyName, want: false},
		{name: "citation date sentinel", record: Record{CitationDate: DateNotFound}, key: KeyCitationDate, want: false},
		{name: "incident date match", record: Record{IncidentDate: "2025-10-01"}, key: KeyIncidentDate, want: true},
		{name: "narrative sentinel", record: Record{Narrative: NarrativeNotFound}, key: KeyNarrative, want: false},
		{name: "articles missing", record: Record{CitedArticles: ArticlesNotFound}, key: KeyCitedArticles, want: false},
		{name: "articles too short", record: Record{CitedArticles: ArticlesInvalid}, key: KeyCitedArticles, want: false},
		{name: "articles match", record: Record{CitedArticles: "Artículo 58 x"}, key: KeyCitedArticles, want: true},
		{name: "general offense", record: Record{OffenseType: OffenseGeneral}, key: KeyOffenseType, want: false},
		{name: "specific offense", record: Record{OffenseType: OffenseAbsence}, key: KeyOffenseType, want: true},
		{name: "id sentinel", record: Record{IDNumber: IDNotFound}, key: KeyIDNumber, want: false},
		{name: "unknown key", record: Record{Name: "Ana Ruiz"}, key: "otro", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.record.Found(tt.key))
		})
	}
}

func TestRecord_MissingIgnoresOffenseType(t *testing.T) {
	record := Record{
		Name:          "Ana Ruiz",
		IDNumber:      IDNotFound,
		CitationDate:  "3 de octubre de 2025 a las 9:00 a.m.",
		IncidentDate:  DateNotFound,
		Narrative:     "Narrativa.",
		CitedArticles: "Artículo 58 Asistir puntualmente",
		OffenseType:   OffenseGeneral,
	}

	assert.Equal(t, []string{KeyIDNumber, KeyIncidentDate}, record.Missing())
}
