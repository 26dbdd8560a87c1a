package responses

import (
	"time"

	"github.com/microlearn/certificate-api/internal/domain/certificate"
)

// GenerateResponse represents a completed generation.
type GenerateResponse struct {
	CertificateID string    `json:"certificate_id"`
	S3Key         string    `json:"s3_key"`
	PublicURL     string    `json:"public_url"`
	GeneratedAt   time.Time `json:"generated_at"`
	Status        string    `json:"status"`
}

// BuildGenerateResponse creates a response from the domain certificate.
func BuildGenerateResponse(cert *certificate.Certificate) *GenerateResponse {
	return &GenerateResponse{
		CertificateID: cert.CertificateID,
		S3Key:         cert.StorageKey,
		PublicURL:     cert.DownloadURL,
		GeneratedAt:   cert.GeneratedAt,
		Status:        cert.Status,
	}
}

// BatchResponse represents a batch job submission or lookup.
type BatchResponse struct {
	JobID             string              `json:"job_id"`
	TotalCertificates int                 `json:"total_certificates"`
	Status            string              `json:"status"`
	CreatedAt         time.Time           `json:"created_at"`
	Certificates      []*GenerateResponse `json:"certificates,omitempty"`
}

// BuildBatchResponse creates a response from the domain batch job.
func BuildBatchResponse(job *certificate.BatchJob) *BatchResponse {
	resp := &BatchResponse{
		JobID:             job.JobID,
		TotalCertificates: job.TotalCertificates,
		Status:            string(job.Status),
		CreatedAt:         job.CreatedAt,
	}
	for _, cert := range job.Certificates {
		resp.Certificates = append(resp.Certificates, BuildGenerateResponse(cert))
	}
	return resp
}

// DownloadURLResponse contains a freshly signed download URL.
type DownloadURLResponse struct {
	CertificateID string `json:"certificate_id"`
	URL           string `json:"url"`
	ExpiresIn     int    `json:"expires_in"`
}

// BuildDownloadURLResponse creates a download URL response.
func BuildDownloadURLResponse(certificateID, url string, ttl time.Duration) *DownloadURLResponse {
	return &DownloadURLResponse{
		CertificateID: certificateID,
		URL:           url,
		ExpiresIn:     int(ttl.Seconds()),
	}
}
