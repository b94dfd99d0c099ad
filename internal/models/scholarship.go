package models

import "time"

// Scholarship is a postable opportunity with derived counters.
type Scholarship struct {
	ID                  string    `db:"id" json:"id"`
	ScholarshipName     string    `db:"scholarship_name" json:"scholarshipName"`
	UniversityName      string    `db:"university_name" json:"universityName"`
	UniversityCountry   string    `db:"university_country" json:"universityCountry"`
	UniversityCity      string    `db:"university_city" json:"universityCity"`
	UniversityWorldRank int       `db:"university_world_rank" json:"universityWorldRank"`
	SubjectCategory     string    `db:"subject_category" json:"subjectCategory"`
	ScholarshipCategory string    `db:"scholarship_category" json:"scholarshipCategory"`
	Degree              string    `db:"degree" json:"degree"`
	TuitionFees         float64   `db:"tuition_fees" json:"tuitionFees"`
	ApplicationFees     float64   `db:"application_fees" json:"applicationFees"`
	ServiceCharge       float64   `db:"service_charge" json:"serviceCharge"`
	ApplicationDeadline string    `db:"application_deadline" json:"applicationDeadline"`
	Description         string    `db:"description" json:"description"`
	ImageURL            string    `db:"image_url" json:"imageUrl"`
	PostedUserEmail     string    `db:"posted_user_email" json:"postedUserEmail"`
	ApplicationCount    int       `db:"application_count" json:"applicationCount"`
	ReviewCount         int       `db:"review_count" json:"reviewCount"`
	AverageRating       float64   `db:"average_rating" json:"averageRating"`
	CreatedAt           time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt           time.Time `db:"updated_at" json:"updatedAt"`
}

// ScholarshipFilter narrows the public search.
type ScholarshipFilter struct {
	Search      string
	Category    string
	Subject     string
	Location    string
	PosterEmail string
	Page        int
	PageSize    int
}

// CreateScholarshipRequest is the payload for POST /add-scholarships. Rank
// and fee fields accept numbers or numeric strings.
type CreateScholarshipRequest struct {
	ScholarshipName     string    `json:"scholarshipName" validate:"required,max=300"`
	UniversityName      string    `json:"universityName" validate:"required,max=300"`
	UniversityCountry   string    `json:"universityCountry" validate:"omitempty,max=100"`
	UniversityCity      string    `json:"universityCity" validate:"omitempty,max=100"`
	UniversityWorldRank FlexInt   `json:"universityWorldRank" validate:"gte=0"`
	SubjectCategory     string    `json:"subjectCategory" validate:"omitempty,max=100"`
	ScholarshipCategory string    `json:"scholarshipCategory" validate:"omitempty,max=100"`
	Degree              string    `json:"degree" validate:"omitempty,max=100"`
	TuitionFees         FlexFloat `json:"tuitionFees" validate:"gte=0"`
	ApplicationFees     FlexFloat `json:"applicationFees" validate:"gte=0"`
	ServiceCharge       FlexFloat `json:"serviceCharge" validate:"gte=0"`
	ApplicationDeadline string    `json:"applicationDeadline" validate:"omitempty,max=50"`
	Description         string    `json:"description" validate:"omitempty,max=10000"`
	ImageURL            string    `json:"imageUrl" validate:"omitempty,max=2048"`
	PostedUserEmail     string    `json:"postedUserEmail" validate:"omitempty,email"`
}

// UpdateScholarshipRequest only exposes descriptive fields; identifiers,
// ownership, creation time and counters cannot be overwritten.
type UpdateScholarshipRequest struct {
	ScholarshipName     *string    `json:"scholarshipName" validate:"omitempty,min=1,max=300"`
	UniversityName      *string    `json:"universityName" validate:"omitempty,min=1,max=300"`
	UniversityCountry   *string    `json:"universityCountry" validate:"omitempty,max=100"`
	UniversityCity      *string    `json:"universityCity" validate:"omitempty,max=100"`
	UniversityWorldRank *FlexInt   `json:"universityWorldRank" validate:"omitempty,gte=0"`
	SubjectCategory     *string    `json:"subjectCategory" validate:"omitempty,max=100"`
	ScholarshipCategory *string    `json:"scholarshipCategory" validate:"omitempty,max=100"`
	Degree              *string    `json:"degree" validate:"omitempty,max=100"`
	TuitionFees         *FlexFloat `json:"tuitionFees" validate:"omitempty,gte=0"`
	ApplicationFees     *FlexFloat `json:"applicationFees" validate:"omitempty,gte=0"`
	ServiceCharge       *FlexFloat `json:"serviceCharge" validate:"omitempty,gte=0"`
	ApplicationDeadline *string    `json:"applicationDeadline" validate:"omitempty,max=50"`
	Description         *string    `json:"description" validate:"omitempty,max=10000"`
	ImageURL            *string    `json:"imageUrl" validate:"omitempty,max=2048"`
}

// ScholarshipUpdate is the column set a repository applies on update.
type ScholarshipUpdate struct {
	Columns map[string]interface{}
}
