package domain

// ScoreResult is the explainable sustainability + health assessment of a product
type ScoreResult struct {
	Total       int         `json:"total"`
	Grade       Grade       `json:"grade"`
	Breakdown   Breakdown   `json:"breakdown"`
	DataQuality int         `json:"dataQuality"`
	Health      HealthScore `json:"healthScore"`
}

// Breakdown holds the five weighted components in their fixed order
type Breakdown struct {
	EcoScore       ScoreComponent `json:"ecoscore"`
	Transport      ScoreComponent `json:"transport"`
	Norwegian      ScoreComponent `json:"norwegian"`
	Packaging      ScoreComponent `json:"packaging"`
	Certifications ScoreComponent `json:"certifications"`
}

// Components returns the breakdown entries in display order
func (b Breakdown) Components() []ScoreComponent {
	return []ScoreComponent{b.EcoScore, b.Transport, b.Norwegian, b.Packaging, b.Certifications}
}

// ScoreComponent is one explained part of the composite score
type ScoreComponent struct {
	Score         int     `json:"score"`
	Weight        float64 `json:"weight"`
	Label         string  `json:"label"`
	Rationale     string  `json:"rationale"`
	DataAvailable bool    `json:"dataAvailable"`
}

// HealthScore is the nested health assessment
type HealthScore struct {
	Total      int   `json:"total"`
	Grade      Grade `json:"grade"`
	NutriScore Grade `json:"nutriscore"`
	Nova       int   `json:"nova"`
}
