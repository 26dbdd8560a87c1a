package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/microlearn/certificate-api/internal/config"
	"github.com/microlearn/certificate-api/internal/domain/certificate"
	"github.com/microlearn/certificate-api/internal/interfaces/httpserver/requests"
	"github.com/microlearn/certificate-api/internal/interfaces/httpserver/responses"
)

// Generator is the generation-side service surface the handler depends on.
type Generator interface {
	Generate(ctx context.Context, req *certificate.Request) (*certificate.Certificate, error)
	GenerateBatch(ctx context.Context, reqs []*certificate.Request, async bool) (*certificate.BatchJob, error)
	BatchStatus(ctx context.Context, jobID string) (*certificate.BatchJob, error)
}

// Verifier is the lookup-side service surface the handler depends on.
type Verifier interface {
	Verify(ctx context.Context, certificateID string) (*certificate.Verification, error)
	GetStatus(ctx context.Context, certificateID string) *certificate.Status
	DownloadURL(ctx context.Context, certificateID string, ttl time.Duration) (string, error)
}

// CertificateHandler exposes certificate endpoints.
type CertificateHandler struct {
	cfg      *config.Config
	gen      Generator
	verifier Verifier
	log      zerolog.Logger
}

func NewCertificateHandler(cfg *config.Config, gen Generator, verifier Verifier, log zerolog.Logger) *CertificateHandler {
	return &CertificateHandler{
		cfg:      cfg,
		gen:      gen,
		verifier: verifier,
		log:      log.With().Str("component", "certificate-handler").Logger(),
	}
}

// Generate handles POST /v1/certificates/generate.
func (h *CertificateHandler) Generate(c *gin.Context) {
	var req requests.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleBindingError(c, err)
		return
	}

	cert, err := h.gen.Generate(c.Request.Context(), req.ToDomain())
	if err != nil {
		h.log.Error().Err(err).Str("certificate_id", req.CertificateID).Msg("generation failed")
		responses.HandleError(c, err, "certificate generation failed")
		return
	}

	c.JSON(http.StatusOK, responses.BuildGenerateResponse(cert))
}

// GenerateBatch handles POST /v1/certificates/batch.
func (h *CertificateHandler) GenerateBatch(c *gin.Context) {
	var req requests.BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleBindingError(c, err)
		return
	}

	job, err := h.gen.GenerateBatch(c.Request.Context(), req.ToDomain(), req.Async)
	if err != nil {
		h.log.Error().Err(err).Int("total", len(req.Certificates)).Msg("batch generation failed")
		responses.HandleError(c, err, "batch generation failed")
		return
	}

	status := http.StatusOK
	if req.Async {
		status = http.StatusAccepted
	}
	c.JSON(status, responses.BuildBatchResponse(job))
}

// BatchStatus handles GET /v1/batch/:job_id.
func (h *CertificateHandler) BatchStatus(c *gin.Context) {
	jobID := c.Param("job_id")

	job, err := h.gen.BatchStatus(c.Request.Context(), jobID)
	if err != nil {
		responses.HandleError(c, err, "batch job not found")
		return
	}

	c.JSON(http.StatusOK, responses.BuildBatchResponse(job))
}

// Verify handles GET /v1/certificates/:id/verify.
func (h *CertificateHandler) Verify(c *gin.Context) {
	id := c.Param("id")

	verification, err := h.verifier.Verify(c.Request.Context(), id)
	if err != nil {
		responses.HandleError(c, err, "certificate not found")
		return
	}

	c.JSON(http.StatusOK, verification)
}

// Status handles GET /v1/certificates/:id. Unknown certificates still return
// 200 with a not_found body; the endpoint reports state, it does not gate it.
func (h *CertificateHandler) Status(c *gin.Context) {
	id := c.Param("id")
	c.JSON(http.StatusOK, h.verifier.GetStatus(c.Request.Context(), id))
}

// DownloadURL handles GET /v1/certificates/:id/download-url.
func (h *CertificateHandler) DownloadURL(c *gin.Context) {
	id := c.Param("id")

	ttl := h.cfg.PresignTTL
	if raw := c.Query("expires_in"); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil || seconds <= 0 {
			responses.HandleError(c, certificate.ErrValidation, "expires_in must be a positive integer of seconds")
			return
		}
		ttl = time.Duration(seconds) * time.Second
	}

	url, err := h.verifier.DownloadURL(c.Request.Context(), id, ttl)
	if err != nil {
		responses.HandleError(c, err, "certificate not found")
		return
	}

	c.JSON(http.StatusOK, responses.BuildDownloadURLResponse(id, url, ttl))
}
