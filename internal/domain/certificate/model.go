package certificate

import "time"

// Kind enumerates the certificate types the service issues.
type Kind string

const (
	KindTrack       Kind = "track"
	KindCourse      Kind = "course"
	KindAchievement Kind = "achievement"
)

// Valid reports whether the kind is one of the supported values.
func (k Kind) Valid() bool {
	switch k {
	case KindTrack, KindCourse, KindAchievement:
		return true
	}
	return false
}

// Request carries everything needed to issue one certificate.
type Request struct {
	CertificateID  string            `json:"certificate_id"`
	UserName       string            `json:"user_name"`
	UserEmail      string            `json:"user_email"`
	Kind           Kind              `json:"certificate_type"`
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	ItemsCompleted []string          `json:"items_completed"`
	IssuedDate     *time.Time        `json:"issued_date"`
	Metadata       map[string]string `json:"metadata"`
}

// Certificate is the outcome of a generation request. The certificate ID is
// the sole external handle to the stored artifact and never changes once
// assigned.
type Certificate struct {
	CertificateID string    `json:"certificate_id"`
	StorageKey    string    `json:"s3_key"`
	DownloadURL   string    `json:"public_url"`
	GeneratedAt   time.Time `json:"generated_at"`
	Status        string    `json:"status"` // "completed" or "cached"
}

// BatchStatus enumerates batch job states.
type BatchStatus string

const (
	BatchQueued     BatchStatus = "queued"
	BatchProcessing BatchStatus = "processing"
	BatchCompleted  BatchStatus = "completed"
)

// BatchJob tracks a batch generation request. Certificates is populated for
// synchronous batches only; asynchronous jobs persist metadata alone.
type BatchJob struct {
	JobID             string         `json:"job_id"`
	TotalCertificates int            `json:"total_certificates"`
	Status            BatchStatus    `json:"status"`
	CreatedAt         time.Time      `json:"created_at"`
	Certificates      []*Certificate `json:"certificates,omitempty"`
}

// Verification attests that a certificate exists and where to fetch it.
// Identity fields are fixed placeholders: the authoritative recipient record
// lives in an upstream system of record, not in this service.
type Verification struct {
	CertificateID   string    `json:"certificate_id"`
	UserName        string    `json:"user_name"`
	UserEmail       string    `json:"user_email"`
	Kind            Kind      `json:"certificate_type"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	ItemsCompleted  []string  `json:"items_completed"`
	IssuedDate      time.Time `json:"issued_date"`
	VerificationURL string    `json:"verification_url"`
	DownloadURL     string    `json:"download_url"`
}

// Status reports whether a certificate is retrievable.
type Status struct {
	CertificateID string     `json:"certificate_id"`
	Status        string     `json:"status"` // "completed" or "not_found"
	CreatedAt     *time.Time `json:"created_at,omitempty"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
	ErrorMessage  string     `json:"error_message,omitempty"`
	DownloadURL   string     `json:"download_url,omitempty"`
}
