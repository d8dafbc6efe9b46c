package dto

import (
	"itinera/shared/constant"
	"itinera/shared/model"
	"itinera/shared/timezone"
	"time"
)

// Metadata is the audit block attached to trip and booking responses.
type Metadata struct {
	CreatedAt  string `json:"created_at"`
	ModifiedAt string `json:"modified_at"`
	CreatedBy  string `json:"created_by"`
	ModifiedBy string `json:"modified_by"`
}

func (m *Metadata) FromModel(metadata model.Metadata) {
	*m = Metadata{
		CreatedAt:  stamp(metadata.CreatedAt),
		ModifiedAt: stamp(metadata.ModifiedAt),
		CreatedBy:  metadata.CreatedBy,
		ModifiedBy: metadata.ModifiedBy,
	}
}

// stamp renders t in the application timezone; rows that were never written stay empty.
func stamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return timezone.Format(t, constant.DateFormat)
}
