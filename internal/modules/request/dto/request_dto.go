package dto

// CreateRequestRequest opens a service request. CitizenID is only honoured for ADMIN callers.
type CreateRequestRequest struct {
	CitizenID   *uint  `json:"citizen_id"`
	ServiceType string `json:"service_type" binding:"required,notblank,max=100"`
	Details     string `json:"details" binding:"required,notblank"`
}

type UpdateRequestRequest struct {
	ServiceType *string `json:"service_type" binding:"omitempty,notblank,max=100"`
	Details     *string `json:"details" binding:"omitempty,notblank"`
	Status      *string `json:"status" binding:"omitempty,oneof=PENDING APPROVED RESOLVED REJECTED"`
	Comment     *string `json:"comment"`
}

func (r UpdateRequestRequest) Empty() bool {
	return r.ServiceType == nil && r.Details == nil && r.Status == nil && r.Comment == nil
}

// TouchesStaffFields reports whether the update changes fields only ADMIN may set.
func (r UpdateRequestRequest) TouchesStaffFields() bool {
	return r.Status != nil || r.Comment != nil
}
