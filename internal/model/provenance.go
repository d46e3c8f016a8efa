package model

// Source identifies which transport produced a result.
type Source string

const (
	// SourceLocal means the local RAG backend served the request.
	SourceLocal Source = "local-index"
	// SourceCloud means the cloud inference provider served it.
	SourceCloud Source = "cloud-fallback"
)

// Provenance tags a result with the transport that produced it.
type Provenance struct {
	Source     Source `json:"source"`
	IsFallback bool   `json:"is_fallback"`
}

// Local returns provenance for a result served by the local backend.
func Local() Provenance {
	return Provenance{Source: SourceLocal}
}

// Cloud returns provenance for a result served via cloud fallback.
func Cloud() Provenance {
	return Provenance{Source: SourceCloud, IsFallback: true}
}
