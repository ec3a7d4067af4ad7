package model

// Course table courses. Code is the human-readable display id (e.g. COSC2758).
type Course struct {
	CourseID        int64  `gorm:"primaryKey;autoIncrement"              json:"id"`
	Code            string `gorm:"type:varchar(20);not null;uniqueIndex" json:"code"`
	Name            string `gorm:"type:varchar(150);not null"            json:"name"`
	SoftDeleteModel `json:"-"`
}

// TableName table name
func (Course) TableName() string { return "courses" }

// CourseSummary is the shape persisted in the courses snapshot.
type CourseSummary struct {
	ID   int64  `json:"id"   yaml:"id"`
	Code string `json:"code" yaml:"code"`
	Name string `json:"name" yaml:"name"`
}

// Summary drops audit fields.
func (c *Course) Summary() CourseSummary {
	return CourseSummary{ID: c.CourseID, Code: c.Code, Name: c.Name}
}
