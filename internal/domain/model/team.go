// Package model contains domain models passed between layers.
package model

// Upload is one file received in a batch.
type Upload struct {
	Name string // original file name, used in error messages
	Data []byte
}

// TeamRecord is the scored outcome of one sheet. Place is empty until the
// leaderboard is ranked.
type TeamRecord struct {
	Team  string  `json:"team"`
	K1    float64 `json:"k1"`
	K2    float64 `json:"k2"`
	K3    float64 `json:"k3"`
	K4    float64 `json:"k4"`
	K5    float64 `json:"k5"`
	Total float64 `json:"total"`
	K1K2  float64 `json:"k1_k2"` // tie-break: K1 + K2
	Place string  `json:"place"`
}

// Criteria returns the five weighted scores in criterion order.
func (r TeamRecord) Criteria() [5]float64 {
	return [5]float64{r.K1, r.K2, r.K3, r.K4, r.K5}
}

// FileError describes why a single file was rejected.
type FileError struct {
	File    string `json:"file"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Leaderboard is the ranked outcome of one batch.
type Leaderboard struct {
	BatchID string       `json:"batch_id"`
	Results []TeamRecord `json:"results"`
	// Errors lists rejected files; only populated in partial mode.
	Errors []FileError `json:"errors,omitempty"`
}
