package model

// Persona identifies the reviewer perspective for a resume critique.
type Persona string

const (
	PersonaRecruiter Persona = "Recruiter"
	PersonaTechLead  Persona = "Tech Lead"
)

// PersonaReview is one persona's assessment of a resume.
type PersonaReview struct {
	Persona   Persona  `json:"persona"`
	Feedback  string   `json:"feedback"`
	Score     int      `json:"score"`
	KeyPoints []string `json:"key_points"`
}

// CritiqueResult holds exactly two reviews, one per fixed persona.
type CritiqueResult struct {
	Recruiter PersonaReview `json:"recruiter"`
	TechLead  PersonaReview `json:"tech_lead"`
}

// CritiqueRequest is the request to analyze a resume.
type CritiqueRequest struct {
	ResumeText string `json:"resume_text"`
}
