package model

// Difficulty is the level assigned to a roadmap step.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "Beginner"
	DifficultyIntermediate Difficulty = "Intermediate"
	DifficultyAdvanced     Difficulty = "Advanced"
)

// Step is a single ordered entry in a career roadmap.
type Step struct {
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Difficulty    Difficulty `json:"difficulty"`
	EstimatedTime string     `json:"estimated_time"`
}

// RoadmapResult is a generated career roadmap with its provenance.
type RoadmapResult struct {
	MissingSkills []string   `json:"missing_skills"`
	Steps         []Step     `json:"steps"`
	Provenance    Provenance `json:"provenance"`
}

// RoadmapRequest is the request to generate a roadmap.
type RoadmapRequest struct {
	TargetRole string `json:"target_role"`
	ResumeText string `json:"resume_text,omitempty"`
}
