package submission

import (
	"time"

	"gorm.io/datatypes"
)

// Review statuses assigned by the intake pipeline and administrators.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusFlagged  = "flagged"
)

// Institutions accepted on the submission form.
const (
	InstitutionSJCBA = "SJCBA"
	InstitutionSJPUC = "SJPUC"
	InstitutionSJIT  = "SJIT"
	InstitutionOther = "Other"
)

func ValidInstitution(v string) bool {
	switch v {
	case InstitutionSJCBA, InstitutionSJPUC, InstitutionSJIT, InstitutionOther:
		return true
	}
	return false
}

func ValidReviewStatus(v string) bool {
	switch v {
	case StatusPending, StatusApproved, StatusFlagged:
		return true
	}
	return false
}

// Submission represents alumni_submissions. The id is supplied by the
// submitting client and is immutable once the row exists. Only ReviewStatus
// and AdminNotes change after creation.
type Submission struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `gorm:"default:now()" json:"created_at"`
	FullName    string    `gorm:"not null" json:"full_name"`
	Institution string    `gorm:"not null" json:"institution"`
	BatchYear   int       `gorm:"not null" json:"batch_year"`
	RollNumber  string    `gorm:"not null" json:"roll_number"`
	DateOfBirth string    `gorm:"not null" json:"date_of_birth"`
	Email       string    `gorm:"not null" json:"email"`
	Phone       *string   `json:"phone,omitempty"`
	MessageText string    `json:"message_text"`
	AudioPath   *string   `json:"audio_path,omitempty"`
	VideoPath   *string   `json:"video_path,omitempty"`
	ConsentGiven bool     `gorm:"not null" json:"consent_given"`

	Tags      datatypes.JSONSlice[string]        `gorm:"type:jsonb" json:"tags"`
	TopTag    string                             `json:"top_tag"`
	TagScores datatypes.JSONType[map[string]int] `gorm:"type:jsonb" json:"tag_scores"`

	ReviewStatus    string  `gorm:"type:review_status;default:'pending'" json:"review_status"`
	Rejected        bool    `gorm:"default:false" json:"rejected"`
	RejectionReason *string `json:"rejection_reason,omitempty"`
	AdminNotes      *string `json:"admin_notes,omitempty"`
}

func (Submission) TableName() string {
	return "alumni_submissions"
}

func (s Submission) HasAudio() bool {
	return s.AudioPath != nil && *s.AudioPath != ""
}

func (s Submission) HasVideo() bool {
	return s.VideoPath != nil && *s.VideoPath != ""
}
