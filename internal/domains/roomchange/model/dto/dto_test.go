package dto_test

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"hostel/internal/domains/roomchange/model"
	"hostel/internal/domains/roomchange/model/dto"
	"hostel/shared/failure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T {
	return &v
}

func TestSubmitRequest_CheckAgreement(t *testing.T) {
	tests := []struct {
		name      string
		agreement *bool
		wantErr   bool
	}{
		{name: "accepted", agreement: ptr(true)},
		{name: "refused", agreement: ptr(false), wantErr: true},
		{name: "missing", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := dto.SubmitRequest{StudentAgreement: tt.agreement}

			err := req.CheckAgreement()
			if tt.wantErr {
				assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}

	update := dto.UpdateRequest{}
	assert.NoError(t, update.CheckAgreement())
}

func TestDetails_CheckOtherReason(t *testing.T) {
	assert.NoError(t, (&dto.Details{}).CheckOtherReason())
	assert.NoError(t, (&dto.Details{ReasonForRequest: ptr("Noise issues")}).CheckOtherReason())
	assert.NoError(t, (&dto.Details{ReasonForRequest: ptr("Other"), OtherReason: ptr("Closer to my lab")}).CheckOtherReason())
	assert.Error(t, (&dto.Details{ReasonForRequest: ptr("Other"), OtherReason: ptr(" ")}).CheckOtherReason())
}

func TestSubmitRequest_ToModel(t *testing.T) {
	req := dto.SubmitRequest{
		Details: dto.Details{
			FullName: ptr("  Sara Ahmed "),
			Priority: ptr(model.PriorityUrgent),
		},
		StudentAgreement: ptr(true),
	}

	ticket := req.ToModel("RCR-000001", "guest")

	assert.Equal(t, "RCR-000001", ticket.RequestID)
	assert.Equal(t, "Sara Ahmed", *ticket.FullName)
	assert.Equal(t, model.PriorityUrgent, ticket.Priority)
	assert.Equal(t, model.StatusPending, ticket.Status)
	assert.Equal(t, 1, ticket.Version)
	assert.True(t, ticket.StudentAgreement)
	assert.Equal(t, ticket.SubmittedAt, ticket.CreatedAt)
	assert.Nil(t, ticket.ReviewedAt)

	defaults := dto.SubmitRequest{StudentAgreement: ptr(true)}
	assert.Equal(t, model.PriorityNormal, defaults.ToModel("RCR-000002", "guest").Priority)
}

func TestUpdateRequest_ToFields(t *testing.T) {
	current := model.RoomChangeRequest{RequestID: "RCR-000001", Status: model.StatusPending}

	req := dto.UpdateRequest{Details: dto.Details{
		FullName:         ptr("  Sara Ahmed "),
		Email:            ptr(" sara@example.com"),
		ReasonForRequest: ptr(model.ReasonOther),
		OtherReason:      ptr(" Closer to my lab  "),
	}}

	fields, err := req.ToFields(current, "warden")
	require.NoError(t, err)
	assert.Equal(t, "Sara Ahmed", *fields["full_name"].(*string))
	assert.Equal(t, "sara@example.com", *fields["email"].(*string))
	assert.Equal(t, "Closer to my lab", *fields["other_reason"].(*string))
	assert.NotContains(t, fields, "national_id")
	assert.Equal(t, "  Sara Ahmed ", *req.FullName)

	_, err = (&dto.UpdateRequest{Details: dto.Details{ReasonForRequest: ptr(model.ReasonOther)}}).ToFields(current, "warden")
	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
}

func TestResolveRequest_ToFields(t *testing.T) {
	submitted := time.Now().Add(time.Hour)
	current := model.RoomChangeRequest{RequestID: "RCR-000001", Status: model.StatusPending, SubmittedAt: submitted}

	fields, err := (&dto.ResolveRequest{Status: model.StatusApproved, NewRoomAllocated: ptr("C-3")}).ToFields(current, "warden")
	require.NoError(t, err)
	assert.Equal(t, "warden", *fields.ApprovedBy)
	assert.False(t, fields.ReviewedAt.Before(submitted))

	fields, err = (&dto.ResolveRequest{Status: model.StatusApproved, ApprovedBy: ptr("Dean"), NewRoomAllocated: ptr("C-3")}).ToFields(current, "warden")
	require.NoError(t, err)
	assert.Equal(t, "Dean", *fields.ApprovedBy)

	_, err = (&dto.ResolveRequest{Status: model.StatusApproved, NewRoomAllocated: ptr("C-3")}).ToFields(current, "")
	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))

	_, err = (&dto.ResolveRequest{Status: model.StatusPending}).ToFields(current, "warden")
	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{model.StatusPending, model.StatusApproved, true},
		{model.StatusPending, model.StatusRejected, true},
		{model.StatusApproved, model.StatusCompleted, true},
		{model.StatusPending, model.StatusCompleted, false},
		{model.StatusApproved, model.StatusRejected, false},
		{model.StatusRejected, model.StatusPending, false},
		{model.StatusCompleted, model.StatusApproved, false},
	}

	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			assert.Equal(t, tt.want, model.CanTransition(tt.from, tt.to))
		})
	}
}

func TestAddCommentRequest_ToModel(t *testing.T) {
	req := dto.AddCommentRequest{Comment: "  noted  "}

	comment := req.ToModel("c1", "RCR-000001", "warden")
	assert.Equal(t, "noted", comment.Comment)
	assert.Equal(t, "warden", comment.CommentedBy)
	assert.Equal(t, "RCR-000001", comment.RequestID)

	req.CommentedBy = "Matron"
	assert.Equal(t, "Matron", req.ToModel("c2", "RCR-000001", "warden").CommentedBy)
}

func TestRoomChangeFilter_ToFilterGroup(t *testing.T) {
	var filter dto.RoomChangeFilter
	filter.FromQuery(url.Values{"userType": {"staff"}, "status": {"Pending"}})

	group := filter.ToFilterGroup()
	where, args := group.GetWhereClause()

	assert.Equal(t, "(room_change_requests.status = :status AND room_change_requests.user_type = :user_type)", where)
	assert.Equal(t, map[string]any{"status": "Pending", "user_type": "staff"}, args)
}

func TestRoomChangeResponse_FromModel(t *testing.T) {
	reviewed := time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC)

	var res dto.RoomChangeResponse
	res.FromModel(model.RoomChangeRequest{
		RequestID:   "RCR-000001",
		Status:      model.StatusRejected,
		SubmittedAt: reviewed.Add(-time.Hour),
		ReviewedAt:  &reviewed,
		Version:     2,
	})

	assert.NotNil(t, res.Comments)
	assert.Empty(t, res.Comments)
	require.NotNil(t, res.ReviewedAt)
	assert.NotEmpty(t, res.SubmittedAt)
	assert.Equal(t, 2, res.Version)
}
