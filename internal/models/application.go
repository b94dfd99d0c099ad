package models

import "time"

// ApplicationStatus is the moderation state of an application.
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "Pending"
	ApplicationApproved ApplicationStatus = "Approved"
	ApplicationRejected ApplicationStatus = "Rejected"
)

// Final reports whether no further transition is allowed.
func (s ApplicationStatus) Final() bool {
	return s == ApplicationApproved || s == ApplicationRejected
}

// Application is an applicant's request against a scholarship.
type Application struct {
	ID             string            `db:"id" json:"id"`
	ScholarshipID  string            `db:"scholarship_id" json:"scholarshipId"`
	ApplicantEmail string            `db:"applicant_email" json:"applicantEmail"`
	ApplicantName  string            `db:"applicant_name" json:"applicantName"`
	ApplicantPhone string            `db:"applicant_phone" json:"applicantPhone"`
	Status         ApplicationStatus `db:"status" json:"status"`
	ApplicationFee *string           `db:"application_fee" json:"applicationFee"`
	TransactionID  string            `db:"transaction_id" json:"transactionId"`
	AppliedAt      time.Time         `db:"applied_at" json:"appliedDate"`
	PaidAt         *time.Time        `db:"paid_at" json:"paymentDate,omitempty"`
	ModeratedAt    *time.Time        `db:"moderated_at" json:"moderatedAt,omitempty"`
	Feedback       string            `db:"feedback" json:"feedback"`
}

// ApplicationView is an application joined with its scholarship summary.
// Title and category are empty when the scholarship no longer exists.
type ApplicationView struct {
	Application
	ScholarshipTitle    string `db:"scholarship_title" json:"scholarshipTitle"`
	ScholarshipCategory string `db:"scholarship_category" json:"scholarshipCategory"`
}

// CreateApplicationRequest is the payload for POST /applications.
type CreateApplicationRequest struct {
	ScholarshipID  string     `json:"scholarshipId" validate:"required,max=100"`
	ApplicantEmail string     `json:"applicantEmail" validate:"required,email"`
	ApplicantName  string     `json:"applicantName" validate:"omitempty,max=200"`
	ApplicantPhone string     `json:"applicantPhone" validate:"omitempty,max=50"`
	ApplicationFee RawFee     `json:"applicationFee"`
	TransactionID  string     `json:"transactionId" validate:"omitempty,max=200"`
	PaidAt         *time.Time `json:"paymentDate"`
}

// CreateApplicationResult mirrors the insert acknowledgement clients expect.
type CreateApplicationResult struct {
	InsertedID string `json:"insertedId"`
}

// UpdateApplicationStatusRequest is the moderation payload.
type UpdateApplicationStatusRequest struct {
	Status   string `json:"status" validate:"required,oneof=Approved Rejected"`
	Feedback string `json:"feedback" validate:"omitempty,max=2000"`
}
