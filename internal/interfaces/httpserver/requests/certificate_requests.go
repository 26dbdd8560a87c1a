package requests

import (
	"time"

	"github.com/microlearn/certificate-api/internal/domain/certificate"
)

// GenerateRequest represents a single certificate generation request.
type GenerateRequest struct {
	CertificateID   string            `json:"certificate_id"`
	UserName        string            `json:"user_name" binding:"required"`
	UserEmail       string            `json:"user_email" binding:"required,email"`
	CertificateType string            `json:"certificate_type" binding:"required"`
	Title           string            `json:"title" binding:"required"`
	Description     string            `json:"description"`
	ItemsCompleted  []string          `json:"items_completed"`
	IssuedDate      *time.Time        `json:"issued_date"`
	Metadata        map[string]string `json:"metadata"`
}

// ToDomain converts the request to the domain model.
func (r *GenerateRequest) ToDomain() *certificate.Request {
	return &certificate.Request{
		CertificateID:  r.CertificateID,
		UserName:       r.UserName,
		UserEmail:      r.UserEmail,
		Kind:           certificate.Kind(r.CertificateType),
		Title:          r.Title,
		Description:    r.Description,
		ItemsCompleted: r.ItemsCompleted,
		IssuedDate:     r.IssuedDate,
		Metadata:       r.Metadata,
	}
}

// BatchRequest represents a batch generation request.
type BatchRequest struct {
	Certificates []GenerateRequest `json:"certificates" binding:"required,min=1,dive"`
	Async        bool              `json:"async"`
}

// ToDomain converts the batch items to domain models.
func (r *BatchRequest) ToDomain() []*certificate.Request {
	reqs := make([]*certificate.Request, 0, len(r.Certificates))
	for i := range r.Certificates {
		reqs = append(reqs, r.Certificates[i].ToDomain())
	}
	return reqs
}
