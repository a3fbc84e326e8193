package model

// ZScoreCutoff is the minimum Z-Score published for one university course.
type ZScoreCutoff struct {
	Course     string  `db:"course" json:"course"`
	University string  `db:"university" json:"university"`
	Location   string  `db:"location" json:"location"`
	Stream     string  `db:"stream" json:"stream"`
	ZScore     float64 `db:"z_score" json:"z_score"`
	Year       string  `db:"academic_year" json:"academic_year"`
}
