package handlers

import (
	"errors"
	"net/http"

	"buspass/internal/http/middleware"
	"buspass/internal/passid"
	"buspass/internal/utils"

	"github.com/gin-gonic/gin"
)

// Scan handles POST /scan: the "qr" part is a photo of a pass. The decoded pass id is
// resolved like GET /getApplicant/:passId.
func (h *Handler) Scan(c *gin.Context) {
	maxBytes := int64(h.MaxUploadMB) << 20
	if maxBytes <= 0 {
		maxBytes = 10 << 20
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)

	if err := c.Request.ParseMultipartForm(maxBytes); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			respondError(c, http.StatusRequestEntityTooLarge, "msg", "upload_too_large", "upload exceeds size limit")
			return
		}
		respondError(c, http.StatusBadRequest, "msg", "missing_qr", "qr image is required")
		return
	}
	defer func() { _ = c.Request.MultipartForm.RemoveAll() }()

	fh, err := c.FormFile("qr")
	if err != nil {
		respondError(c, http.StatusBadRequest, "msg", "missing_qr", "qr image is required")
		return
	}
	f, err := fh.Open()
	if err != nil {
		respondError(c, http.StatusBadRequest, "msg", "invalid_upload", "could not read uploaded file")
		return
	}
	defer f.Close()

	text, err := passid.DecodeReader(f)
	if err != nil {
		utils.LogEvent(middleware.GetRequestID(c), "scan", "decode_failed", "err", err)
		respondError(c, http.StatusBadRequest, "msg", "qr_unreadable", "No QR code found in image")
		return
	}
	if !passid.Valid(text) {
		respondError(c, http.StatusBadRequest, "msg", "invalid_pass_id", "QR code does not contain a pass id")
		return
	}
	h.respondByPassID(c, text)
}
