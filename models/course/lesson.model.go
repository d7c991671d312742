package course

// Lesson is an ordered group of challenges within a unit.
// Completed is derived from the user's ledger on every read and never persisted.
type Lesson struct {
	ID         uint        `json:"id" gorm:"primaryKey"`
	UnitID     uint        `json:"unit_id" gorm:"index;not null"`
	Title      string      `json:"title" gorm:"not null"`
	OrderIndex int         `json:"order" gorm:"not null;default:0"`
	Challenges []Challenge `json:"challenges,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	Completed  bool        `json:"completed" gorm:"-"`
}
