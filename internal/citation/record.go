package citation

// Sentinel values returned when a pattern is absent from the transcript
const (
	NameNotFound      = "No encontrado"
	DateNotFound      = "No encontrada"
	NarrativeNotFound = "No se encontró detalle"
	ArticlesNotFound  = "No se encontraron los artículos en la citación."
	ArticlesInvalid   = "No se encontraron artículos válidos."
	IDNotFound        = "No encontrado"
)

// Template keys for the record fields
const (
	KeyName          = "nombre"
	KeyCitationDate  = "fecha_citacion"
	KeyIncidentDate  = "fecha_hecho"
	KeyNarrative     = "detalle"
	KeyCitedArticles = "articulos"
	KeyOffenseType   = "tipo_falta"
	KeyIDNumber      = "cedula"
)

// Record holds the fields extracted from one citation transcript.
// Every field is either the matched text or its sentinel.
type Record struct {
	Name          string      `json:"nombre"`
	CitationDate  string      `json:"fecha_citacion"`
	IncidentDate  string      `json:"fecha_hecho"`
	Narrative     string      `json:"detalle"`
	CitedArticles string      `json:"articulos"`
	OffenseType   OffenseType `json:"tipo_falta"`
	IDNumber      string      `json:"cedula"`
}

// Field is a single key/value pair of a record
type Field struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// Fields returns the record as an ordered list of template fields
func (r Record) Fields() []Field {
	return []Field{
		{Key: KeyName, Label: "Nombre del colaborador", Value: r.Name},
		{Key: KeyIDNumber, Label: "Cédula", Value: r.IDNumber},
		{Key: KeyCitationDate, Label: "Fecha de citación", Value: r.CitationDate},
		{Key: KeyIncidentDate, Label: "Fecha del hecho", Value: r.IncidentDate},
		{Key: KeyOffenseType, Label: "Tipo de falta", Value: r.OffenseType.Label()},
		{Key: KeyNarrative, Label: "Detalle del caso", Value: r.Narrative},
		{Key: KeyCitedArticles, Label: "Artículos citados", Value: r.CitedArticles},
	}
}

// Found reports whether the field stored under key holds a real match
func (r Record) Found(key string) bool {
	switch key {
	case KeyName:
		return r.Name != "" && r.Name != NameNotFound
	case KeyCitationDate:
		return r.CitationDate != "" && r.CitationDate != DateNotFound
	case KeyIncidentDate:
		return r.IncidentDate != "" && r.IncidentDate != DateNotFound
	case KeyNarrative:
		return r.Narrative != "" && r.Narrative != NarrativeNotFound
	case KeyCitedArticles:
		return r.CitedArticles != "" && r.CitedArticles != ArticlesNotFound &&
			r.CitedArticles != ArticlesInvalid
	case KeyOffenseType:
		return r.OffenseType != "" && r.OffenseType != OffenseGeneral
	case KeyIDNumber:
		return r.IDNumber != "" && r.IDNumber != IDNotFound
	default:
		return false
	}
}

// Missing returns the keys of the fields that fell back to their sentinel
func (r Record) Missing() []string {
	var missing []string
	for _, f := range r.Fields() {
		if f.Key == KeyOffenseType {
			continue
		}
		if !r.Found(f.Key) {
			missing = append(missing, f.Key)
		}
	}
	return missing
}
