package dto

// ZScoreRowDTO is one row of the cutoff table
type ZScoreRowDTO struct {
	Course      string  `json:"course"`
	University  string  `json:"university"`
	Location    string  `json:"location"`
	Stream      string  `json:"stream"`
	ZScore      float64 `json:"z_score"`
	Year        string  `json:"academic_year"`
	Eligibility string  `json:"eligibility"`
}

// ZScoreLookupResponseDTO is returned by the cutoff lookup endpoint
type ZScoreLookupResponseDTO struct {
	Rows     []ZScoreRowDTO `json:"rows"`
	Eligible int            `json:"eligible"`
	Total    int            `json:"total"`
	Streams  []string       `json:"streams"`
	ZScore   *float64       `json:"z_score,omitempty"`
}
