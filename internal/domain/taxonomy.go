package domain

// TagEntry is one normalized vocabulary entry derived from free-text tags.
type TagEntry struct {
	ID          string   `json:"id"    validate:"required"`
	Label       string   `json:"label" validate:"required"`
	Aliases     []string `json:"aliases"`
	Description string   `json:"description"`
}

// TaxonomyUnit and TaxonomyTopic describe the course structure in the
// taxonomy artifact.
type TaxonomyUnit struct {
	ID          string `json:"id"    validate:"required"`
	Label       string `json:"label" validate:"required"`
	Description string `json:"description"`
}

type TaxonomyTopic struct {
	ID          string `json:"id"    validate:"required"`
	Label       string `json:"label" validate:"required"`
	Description string `json:"description"`
}

// Taxonomy is the derived metadata artifact: units, topics, and the
// deduplicated tag vocabularies collected across the final corpus.
type Taxonomy struct {
	Version     string          `json:"version" validate:"required"`
	Units       []TaxonomyUnit  `json:"units"   validate:"dive"`
	Topics      []TaxonomyTopic `json:"topics"  validate:"dive"`
	Tags        []TagEntry      `json:"tags"         validate:"dive"`
	ConceptTags []TagEntry      `json:"concept_tags" validate:"dive"`
	ContextTags []TagEntry      `json:"context_tags" validate:"dive"`
}

// Validate checks the taxonomy against its structural schema.
func (t *Taxonomy) Validate() error {
	return summaryValidate.Struct(t)
}
