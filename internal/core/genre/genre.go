package genre

// Genre represents a thematic label attached to titles.
type Genre struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

const (
	FieldName = "name"
	FieldSlug = "slug"
)
