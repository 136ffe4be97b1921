package dto

import (
	"net/url"
	"strings"
	"time"

	"hostel/internal/domains/roomchange/model"
	"hostel/shared"
	"hostel/shared/constant"
	gDto "hostel/shared/dto"
	"hostel/shared/failure"
	gModel "hostel/shared/model"
	"hostel/shared/timezone"
)

const (
	EventSubmitted = "room_change.submitted"
	EventResolved  = "room_change.resolved"
	EventCommented = "room_change.commented"
)

// SortFields maps the public sort keys of the ticket list onto columns.
var SortFields = map[string]string{
	"submittedAt": model.FieldSubmittedAt,
	"priority":    model.FieldPriority,
	"status":      model.FieldStatus,
	"createdAt":   constant.FieldCreatedAt,
}

// Details holds the requester supplied fields shared by submission and re-submission.
// They stay optional; only the agreement flag is mandatory.
type Details struct {
	UserType           *string `db:"user_type"           json:"userType"           validate:"omitempty,oneof=student-male student-female staff"`
	RegistrationNumber *string `db:"registration_number" json:"registrationNumber" validate:"omitempty,max=50"`
	FullName           *string `db:"full_name"           json:"fullName"           validate:"omitempty,max=150"`
	NationalID         *string `db:"national_id"         json:"nationalId"         validate:"omitempty,max=50"`
	ContactNumber      *string `db:"contact_number"      json:"contactNumber"      validate:"omitempty,max=30"`
	Email              *string `db:"email"               json:"email"              validate:"omitempty,email"`
	Gender             *string `db:"gender"              json:"gender"             validate:"omitempty,oneof=male female"`
	StaffID            *string `db:"staff_id"            json:"staffId"            validate:"omitempty,max=50"`
	Department         *string `db:"department"          json:"department"         validate:"omitempty,max=100"`
	Designation        *string `db:"designation"         json:"designation"        validate:"omitempty,max=100"`
	CurrentRoom        *string `db:"current_room"        json:"currentRoom"        validate:"omitempty,max=50"`
	CurrentRoomType    *string `db:"current_room_type"   json:"currentRoomType"    validate:"omitempty,oneof=single shared"`
	PreferredRoom      *string `db:"preferred_room"      json:"preferredRoom"      validate:"omitempty,max=50"`
	PreferredRoomType  *string `db:"preferred_room_type" json:"preferredRoomType"  validate:"omitempty,oneof=single shared"`
	ReasonForRequest   *string `db:"reason_for_request"  json:"reasonForRequest"   validate:"omitempty,oneof='Noise issues' 'Roommate conflict' 'Health reasons' 'Closer to facilities' 'Maintenance problems' Other"`
	OtherReason        *string `db:"other_reason"        json:"otherReason"        validate:"omitempty,max=500"`
	Priority           *string `db:"priority"            json:"priority"           validate:"omitempty,oneof=normal urgent"`
}

// CheckOtherReason requires an explanation when the reason is Other.
func (d *Details) CheckOtherReason() error {
	if d.ReasonForRequest != nil && *d.ReasonForRequest == model.ReasonOther &&
		(d.OtherReason == nil || strings.TrimSpace(*d.OtherReason) == constant.Empty) {
		return failure.BadRequestFromString("otherReason is required when reasonForRequest is Other")
	}

	return nil
}

// normalized trims the free text fields. Enumerated fields are left to validation.
func (d Details) normalized() Details {
	d.RegistrationNumber = trimmed(d.RegistrationNumber)
	d.FullName = trimmed(d.FullName)
	d.NationalID = trimmed(d.NationalID)
	d.ContactNumber = trimmed(d.ContactNumber)
	d.Email = trimmed(d.Email)
	d.StaffID = trimmed(d.StaffID)
	d.Department = trimmed(d.Department)
	d.Designation = trimmed(d.Designation)
	d.CurrentRoom = trimmed(d.CurrentRoom)
	d.PreferredRoom = trimmed(d.PreferredRoom)
	d.OtherReason = trimmed(d.OtherReason)

	return d
}

type SubmitRequest struct {
	Details
	StudentAgreement *bool `json:"studentAgreement"`
}

// CheckAgreement runs ahead of every other check. Without the agreement a ticket is
// never accepted.
func (s *SubmitRequest) CheckAgreement() error {
	if s.StudentAgreement == nil || !*s.StudentAgreement {
		return failure.BadRequestFromString("studentAgreement must be accepted")
	}

	return nil
}

func (s *SubmitRequest) ToModel(id, user string) model.RoomChangeRequest {
	details := s.normalized()

	priority := model.PriorityNormal
	if details.Priority != nil {
		priority = *details.Priority
	}

	now := timezone.Now()

	return model.RoomChangeRequest{
		RequestID:          id,
		UserType:           details.UserType,
		RegistrationNumber: details.RegistrationNumber,
		FullName:           details.FullName,
		NationalID:         details.NationalID,
		ContactNumber:      details.ContactNumber,
		Email:              details.Email,
		Gender:             details.Gender,
		StaffID:            details.StaffID,
		Department:         details.Department,
		Designation:        details.Designation,
		CurrentRoom:        details.CurrentRoom,
		CurrentRoomType:    details.CurrentRoomType,
		PreferredRoom:      details.PreferredRoom,
		PreferredRoomType:  details.PreferredRoomType,
		ReasonForRequest:   details.ReasonForRequest,
		OtherReason:        details.OtherReason,
		Priority:           priority,
		StudentAgreement:   true,
		Status:             model.StatusPending,
		SubmittedAt:        now,
		Version:            1,
		Metadata:           gModel.NewMetadata(user, now),
	}
}

// UpdateRequest re-submits the requester fields of a pending ticket.
type UpdateRequest struct {
	Details
	StudentAgreement *bool `json:"studentAgreement"`
}

func (u *UpdateRequest) CheckAgreement() error {
	if u.StudentAgreement != nil && !*u.StudentAgreement {
		return failure.BadRequestFromString("studentAgreement must be accepted")
	}

	return nil
}

// ToFields merges the supplied fields with the stored ticket for the other-reason rule.
func (u *UpdateRequest) ToFields(current model.RoomChangeRequest, user string) (map[string]any, error) {
	details := u.normalized()

	merged := details
	if merged.ReasonForRequest == nil {
		merged.ReasonForRequest = current.ReasonForRequest
	}

	if merged.OtherReason == nil {
		merged.OtherReason = current.OtherReason
	}

	if err := merged.CheckOtherReason(); err != nil {
		return nil, err
	}

	return shared.TransformFields(details, user), nil
}

type ResolveRequest struct {
	Status           string  `json:"status"           validate:"required,oneof=Pending Approved Rejected Completed"`
	ApprovedBy       *string `json:"approvedBy"       validate:"omitempty,max=150"`
	RejectionReason  *string `json:"rejectionReason"  validate:"omitempty,max=500"`
	NewRoomAllocated *string `json:"newRoomAllocated" validate:"omitempty,max=50"`
}

// ResolveFields are the columns written by a resolution.
type ResolveFields struct {
	Status           string    `db:"status"`
	ApprovedBy       *string   `db:"approved_by"`
	RejectionReason  *string   `db:"rejection_reason"`
	NewRoomAllocated *string   `db:"new_room_allocated"`
	ReviewedAt       time.Time `db:"reviewed_at"`
}

// ToFields checks the transition and the fields the target status needs. reviewedAt
// never precedes the submission time.
func (r *ResolveRequest) ToFields(current model.RoomChangeRequest, user string) (ResolveFields, error) {
	if !model.CanTransition(current.Status, r.Status) {
		return ResolveFields{}, failure.BadRequestf("cannot move a %s request to %s", current.Status, r.Status)
	}

	fields := ResolveFields{
		Status:           r.Status,
		RejectionReason:  trimmed(r.RejectionReason),
		NewRoomAllocated: trimmed(r.NewRoomAllocated),
		ApprovedBy:       trimmed(r.ApprovedBy),
		ReviewedAt:       timezone.Now(),
	}

	if fields.ReviewedAt.Before(current.SubmittedAt) {
		fields.ReviewedAt = current.SubmittedAt
	}

	switch r.Status {
	case model.StatusApproved:
		if isBlank(fields.NewRoomAllocated) {
			return ResolveFields{}, failure.BadRequestFromString("newRoomAllocated is required to approve a request")
		}

		if isBlank(fields.ApprovedBy) && user != constant.Empty {
			fields.ApprovedBy = &user
		}

		if isBlank(fields.ApprovedBy) {
			return ResolveFields{}, failure.BadRequestFromString("approvedBy is required to approve a request")
		}
	case model.StatusRejected:
		if isBlank(fields.RejectionReason) {
			return ResolveFields{}, failure.BadRequestFromString("rejectionReason is required to reject a request")
		}
	}

	return fields, nil
}

type AddCommentRequest struct {
	Comment     string `json:"comment"     validate:"required,notblank,max=1000"`
	CommentedBy string `json:"commentedBy" validate:"max=150"`
}

func (a *AddCommentRequest) ToModel(id, requestID, user string) model.Comment {
	commentedBy := strings.TrimSpace(a.CommentedBy)
	if commentedBy == constant.Empty {
		commentedBy = user
	}

	return model.Comment{
		ID:          id,
		RequestID:   requestID,
		Comment:     strings.TrimSpace(a.Comment),
		CommentedBy: commentedBy,
		CommentedAt: timezone.Now(),
	}
}

type CommentResponse struct {
	ID          string `json:"id"`
	Comment     string `json:"comment"`
	CommentedBy string `json:"commentedBy"`
	CommentedAt string `json:"commentedAt"`
}

func (c *CommentResponse) FromModel(model model.Comment) {
	c.ID = model.ID
	c.Comment = model.Comment
	c.CommentedBy = model.CommentedBy
	c.CommentedAt = timezone.Format(model.CommentedAt, constant.DateFormat)
}

type RoomChangeResponse struct {
	RequestID          string            `json:"requestId"`
	UserType           *string           `json:"userType,omitempty"`
	RegistrationNumber *string           `json:"registrationNumber,omitempty"`
	FullName           *string           `json:"fullName,omitempty"`
	NationalID         *string           `json:"nationalId,omitempty"`
	ContactNumber      *string           `json:"contactNumber,omitempty"`
	Email              *string           `json:"email,omitempty"`
	Gender             *string           `json:"gender,omitempty"`
	StaffID            *string           `json:"staffId,omitempty"`
	Department         *string           `json:"department,omitempty"`
	Designation        *string           `json:"designation,omitempty"`
	CurrentRoom        *string           `json:"currentRoom,omitempty"`
	CurrentRoomType    *string           `json:"currentRoomType,omitempty"`
	PreferredRoom      *string           `json:"preferredRoom,omitempty"`
	PreferredRoomType  *string           `json:"preferredRoomType,omitempty"`
	ReasonForRequest   *string           `json:"reasonForRequest,omitempty"`
	OtherReason        *string           `json:"otherReason,omitempty"`
	Priority           string            `json:"priority"`
	StudentAgreement   bool              `json:"studentAgreement"`
	Status             string            `json:"status"`
	ApprovedBy         *string           `json:"approvedBy,omitempty"`
	RejectionReason    *string           `json:"rejectionReason,omitempty"`
	NewRoomAllocated   *string           `json:"newRoomAllocated,omitempty"`
	Comments           []CommentResponse `json:"comments"`
	SubmittedAt        string            `json:"submittedAt"`
	ReviewedAt         *string           `json:"reviewedAt,omitempty"`
	Version            int               `json:"version"`
	gDto.Metadata
}

func (r *RoomChangeResponse) FromModel(model model.RoomChangeRequest) {
	r.RequestID = model.RequestID
	r.UserType = model.UserType
	r.RegistrationNumber = model.RegistrationNumber
	r.FullName = model.FullName
	r.NationalID = model.NationalID
	r.ContactNumber = model.ContactNumber
	r.Email = model.Email
	r.Gender = model.Gender
	r.StaffID = model.StaffID
	r.Department = model.Department
	r.Designation = model.Designation
	r.CurrentRoom = model.CurrentRoom
	r.CurrentRoomType = model.CurrentRoomType
	r.PreferredRoom = model.PreferredRoom
	r.PreferredRoomType = model.PreferredRoomType
	r.ReasonForRequest = model.ReasonForRequest
	r.OtherReason = model.OtherReason
	r.Priority = model.Priority
	r.StudentAgreement = model.StudentAgreement
	r.Status = model.Status
	r.ApprovedBy = model.ApprovedBy
	r.RejectionReason = model.RejectionReason
	r.NewRoomAllocated = model.NewRoomAllocated
	r.SubmittedAt = timezone.Format(model.SubmittedAt, constant.DateFormat)
	r.Version = model.Version
	r.Metadata.FromModel(model.Metadata)

	if model.ReviewedAt != nil {
		reviewedAt := timezone.Format(*model.ReviewedAt, constant.DateFormat)
		r.ReviewedAt = &reviewedAt
	}

	r.Comments = make([]CommentResponse, len(model.Comments))
	for i, comment := range model.Comments {
		r.Comments[i].FromModel(comment)
	}
}

type GetRoomChangesResponse struct {
	Requests  []RoomChangeResponse `json:"requests"`
	TotalPage int                  `json:"totalPage"`
	TotalData int                  `json:"totalData"`
}

func (r *GetRoomChangesResponse) FromModels(models []model.RoomChangeRequest, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Requests = make([]RoomChangeResponse, len(models))
	for i, mod := range models {
		r.Requests[i].FromModel(mod)
	}
}

// RoomChangeFilter holds the list filters accepted on GET /roomchange.
type RoomChangeFilter struct {
	Status   string `json:"status"   validate:"omitempty,oneof=Pending Approved Rejected Completed"`
	Priority string `json:"priority" validate:"omitempty,oneof=normal urgent"`
	UserType string `json:"userType" validate:"omitempty,oneof=student-male student-female staff"`
}

func (f *RoomChangeFilter) FromQuery(query url.Values) {
	f.Status = query.Get("status")
	f.Priority = query.Get("priority")
	f.UserType = query.Get("userType")
}

func (f *RoomChangeFilter) ToFilterGroup() gDto.FilterGroup {
	group := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	for _, filter := range []struct{ field, value string }{
		{model.FieldStatus, f.Status},
		{model.FieldPriority, f.Priority},
		{model.FieldUserType, f.UserType},
	} {
		if filter.value == constant.Empty {
			continue
		}

		group.Filters = append(group.Filters, gDto.Filter{
			Field:    filter.field,
			Operator: gDto.FilterOperatorEq,
			Value:    filter.value,
			Table:    model.TableName,
		})
	}

	return group
}

// Event is the payload published for every ticket lifecycle change.
type Event struct {
	Type       string    `json:"type"`
	RequestID  string    `json:"requestId"`
	Status     string    `json:"status"`
	Actor      string    `json:"actor,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

func NewEvent(eventType string, ticket model.RoomChangeRequest, actor string) Event {
	return Event{
		Type:       eventType,
		RequestID:  ticket.RequestID,
		Status:     ticket.Status,
		Actor:      actor,
		OccurredAt: timezone.Now(),
	}
}

func trimmed(value *string) *string {
	if value == nil {
		return nil
	}

	out := strings.TrimSpace(*value)

	return &out
}

func isBlank(value *string) bool {
	return value == nil || strings.TrimSpace(*value) == constant.Empty
}
