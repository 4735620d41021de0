package models

// Service is an organizational destination ("servicio") for issued supplies.
type Service struct {
	ID   int    `json:"id"`
	Name string `json:"nombre"`
}

func (s *Service) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   s.ID,
		ResourceType: "servicio",
	}
}

type CreateServiceRequest struct {
	Name string `json:"nombre" binding:"required"`
}
