package model

import (
	"slices"
	"time"

	"hostel/shared/model"
)

const (
	TableName  = "room_change_requests"
	EntityName = "room change request"

	FieldID          = "request_id"
	FieldStatus      = "status"
	FieldPriority    = "priority"
	FieldUserType    = "user_type"
	FieldSubmittedAt = "submitted_at"
	FieldVersion     = "version"
)

const (
	CommentTableName  = "room_change_comments"
	CommentEntityName = "room change comment"

	FieldCommentID        = "id"
	FieldCommentRequestID = "request_id"
	FieldCommentedAt      = "commented_at"
)

const (
	StatusPending   = "Pending"
	StatusApproved  = "Approved"
	StatusRejected  = "Rejected"
	StatusCompleted = "Completed"
)

const (
	PriorityNormal = "normal"
	PriorityUrgent = "urgent"
)

const ReasonOther = "Other"

// transitions lists the statuses an administrator may move a ticket to.
// Rejected and Completed are terminal.
var transitions = map[string][]string{
	StatusPending:  {StatusApproved, StatusRejected},
	StatusApproved: {StatusCompleted},
}

// CanTransition reports whether a ticket in status from may move to status to.
func CanTransition(from, to string) bool {
	return slices.Contains(transitions[from], to)
}

// RoomChangeRequest is one ticket asking to move a student or staff member to another room.
type RoomChangeRequest struct {
	RequestID          string     `db:"request_id"`
	UserType           *string    `db:"user_type"`
	RegistrationNumber *string    `db:"registration_number"`
	FullName           *string    `db:"full_name"`
	NationalID         *string    `db:"national_id"`
	ContactNumber      *string    `db:"contact_number"`
	Email              *string    `db:"email"`
	Gender             *string    `db:"gender"`
	StaffID            *string    `db:"staff_id"`
	Department         *string    `db:"department"`
	Designation        *string    `db:"designation"`
	CurrentRoom        *string    `db:"current_room"`
	CurrentRoomType    *string    `db:"current_room_type"`
	PreferredRoom      *string    `db:"preferred_room"`
	PreferredRoomType  *string    `db:"preferred_room_type"`
	ReasonForRequest   *string    `db:"reason_for_request"`
	OtherReason        *string    `db:"other_reason"`
	Priority           string     `db:"priority"`
	StudentAgreement   bool       `db:"student_agreement"`
	Status             string     `db:"status"`
	ApprovedBy         *string    `db:"approved_by"`
	RejectionReason    *string    `db:"rejection_reason"`
	NewRoomAllocated   *string    `db:"new_room_allocated"`
	SubmittedAt        time.Time  `db:"submitted_at"`
	ReviewedAt         *time.Time `db:"reviewed_at"`
	Version            int        `db:"version"`
	Comments           []Comment  `db:"-"`
	model.Metadata
}

// Comment is one entry of a ticket's comment log. Rows are only ever inserted.
type Comment struct {
	ID          string    `db:"id"`
	RequestID   string    `db:"request_id"`
	Comment     string    `db:"comment"`
	CommentedBy string    `db:"commented_by"`
	CommentedAt time.Time `db:"commented_at"`
}
