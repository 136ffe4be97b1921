package dto

import (
	"hostel/internal/domains/user/model"
	"hostel/shared/constant"
	gDto "hostel/shared/dto"
	gModel "hostel/shared/model"
	"hostel/shared/timezone"

	"github.com/google/uuid"
)

// CreateUserRequest provisions a back office account. Level defaults to admin.
type CreateUserRequest struct {
	Email    string  `json:"email"              validate:"required,email,max=254"`
	Password string  `json:"password"           validate:"required,min=8"`
	Level    string  `json:"level"              validate:"omitempty,oneof=superadmin admin"`
	FullName *string `json:"fullName,omitempty" validate:"omitempty,max=100"`
}

func (r *CreateUserRequest) ToModel(actor, hashedPassword string) model.User {
	user := model.User{
		ID:       uuid.NewString(),
		Email:    r.Email,
		Password: hashedPassword,
		Level:    r.Level,
		FullName: r.FullName,
		Active:   true,
		Metadata: gModel.NewMetadata(actor, timezone.Now()),
	}

	if user.Level == "" {
		user.Level = constant.RoleAdmin
	}

	return user
}

// UserResponse never exposes the password hash.
type UserResponse struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	Level     string  `json:"level"`
	FullName  *string `json:"fullName,omitempty"`
	LastLogin *string `json:"lastLogin,omitempty"`
	Active    bool    `json:"active"`
	gDto.Metadata
}

func (r *UserResponse) FromModel(user model.User) {
	*r = UserResponse{
		ID:       user.ID,
		Email:    user.Email,
		Level:    user.Level,
		FullName: user.FullName,
		Active:   user.Active,
	}

	r.Metadata.FromModel(user.Metadata)

	if user.LastLogin != nil {
		at := timezone.Format(*user.LastLogin, constant.DateFormat)
		r.LastLogin = &at
	}
}
