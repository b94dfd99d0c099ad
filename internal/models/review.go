package models

import "time"

// Review is a rating and comment scoped to a scholarship.
type Review struct {
	ID            string    `db:"id" json:"id"`
	ScholarshipID string    `db:"scholarship_id" json:"scholarshipId"`
	ReviewerEmail string    `db:"reviewer_email" json:"reviewerEmail"`
	ReviewerName  string    `db:"reviewer_name" json:"reviewerName"`
	ReviewerImage string    `db:"reviewer_image" json:"reviewerImage"`
	Rating        int       `db:"rating" json:"rating"`
	Comment       string    `db:"comment" json:"comment"`
	CreatedAt     time.Time `db:"created_at" json:"reviewDate"`
	UpdatedAt     time.Time `db:"updated_at" json:"updatedAt"`
}

// CreateReviewRequest is the payload for POST /reviews. The reviewer email is
// always taken from the token.
type CreateReviewRequest struct {
	ScholarshipID string   `json:"scholarshipId" validate:"required,uuid"`
	ReviewerName  string   `json:"reviewerName" validate:"omitempty,max=200"`
	ReviewerImage string   `json:"reviewerImage" validate:"omitempty,max=2048"`
	Rating        WholeInt `json:"rating" validate:"gte=1,lte=5"`
	Comment       string   `json:"comment" validate:"omitempty,max=5000"`
}

// UpdateReviewRequest edits the mutable parts of a review.
type UpdateReviewRequest struct {
	Rating  *WholeInt `json:"rating" validate:"omitempty,gte=1,lte=5"`
	Comment *string   `json:"comment" validate:"omitempty,max=5000"`
}

// ReviewStats are the derived counters stored on a scholarship.
type ReviewStats struct {
	Count   int     `db:"review_count"`
	Average float64 `db:"average_rating"`
}
