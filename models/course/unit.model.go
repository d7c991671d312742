package course

// Unit represents a section within a course, ordered by OrderIndex
type Unit struct {
	ID          uint     `json:"id" gorm:"primaryKey"`
	CourseID    uint     `json:"course_id" gorm:"index;not null"`
	Title       string   `json:"title" gorm:"not null"`
	Description string   `json:"description" gorm:"not null"`
	OrderIndex  int      `json:"order" gorm:"not null;default:0"`
	Lessons     []Lesson `json:"lessons,omitempty" gorm:"constraint:OnDelete:CASCADE"`
}
