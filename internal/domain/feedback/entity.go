// internal/domain/feedback/entity.go
package feedback

import "time"

// Feedback represents a message submitted through the public contact
// form. Write-only from the API's perspective.
type Feedback struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null;size:255" json:"name"`
	Email     string    `gorm:"not null;size:255" json:"email"`
	Mobile    string    `gorm:"not null;size:20" json:"mobile"`
	Comment   string    `gorm:"type:text;not null" json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName overrides the table name
func (Feedback) TableName() string {
	return "feedback"
}
