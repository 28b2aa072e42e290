package models

// Counter is a named, monotonically increasing sequence.
type Counter struct {
	Name      string `gorm:"primaryKey;size:64" json:"name"`
	LastValue int64  `gorm:"not null" json:"last_value"`
}

// TableName specifies the table name for the Counter model
func (Counter) TableName() string {
	return "counters"
}
