package dto

import (
	"hostel/shared/constant"
	"hostel/shared/model"
	"hostel/shared/timezone"
)

// Metadata is the audit block embedded in every response, rendered in the app timezone.
type Metadata struct {
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
	CreatedBy string `json:"createdBy"`
	UpdatedBy string `json:"updatedBy"`
}

func (m *Metadata) FromModel(audit model.Metadata) {
	*m = Metadata{
		CreatedAt: timezone.Format(audit.CreatedAt, constant.DateFormat),
		UpdatedAt: timezone.Format(audit.ModifiedAt, constant.DateFormat),
		CreatedBy: audit.CreatedBy,
		UpdatedBy: audit.ModifiedBy,
	}
}
