package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"buspass/internal/domain/models"
	"buspass/internal/services"
	"buspass/internal/utils"

	"github.com/gin-gonic/gin"
)

// Apply handles POST /apply: a multipart form with optional photo and aadharFile parts.
func (h *Handler) Apply(c *gin.Context) {
	maxBytes := int64(h.MaxUploadMB) << 20
	if maxBytes <= 0 {
		maxBytes = 10 << 20
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)

	if err := c.Request.ParseMultipartForm(maxBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			respondError(c, http.StatusRequestEntityTooLarge, "error", "upload_too_large", "upload exceeds size limit")
			return
		}
		respondError(c, http.StatusBadRequest, "error", "invalid_form", "invalid multipart form")
		return
	}
	if c.Request.MultipartForm != nil {
		defer func() { _ = c.Request.MultipartForm.RemoveAll() }()
	}

	files, closeAll, err := attachments(c)
	defer closeAll()
	if err != nil {
		respondError(c, http.StatusBadRequest, "error", "invalid_upload", "could not read uploaded file")
		return
	}

	svc, err := h.applications(c)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	a, err := svc.Submit(c.Request.Context(), applicationInput(c), files)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Application submitted successfully",
		"id":      a.ID,
		"passId":  a.PassID,
		"qrCode":  a.QRCode,
	})
}

// form reads the first non-empty value among the given field names.
func form(c *gin.Context, names ...string) string {
	vals := make([]string, len(names))
	for i, n := range names {
		vals[i] = c.PostForm(n)
	}
	return utils.FirstNonEmpty(vals...)
}

func formInt(c *gin.Context, names ...string) int {
	n, err := strconv.Atoi(form(c, names...))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func applicationInput(c *gin.Context) models.ApplicationInput {
	return models.ApplicationInput{
		Name:       form(c, "name"),
		FatherName: form(c, "fatherName", "father_name"),
		DOB:        form(c, "dob"),
		Gender:     form(c, "gender"),
		Age: models.Age{
			Years:  formInt(c, "ageYears", "age_years", "age"),
			Months: formInt(c, "ageMonths", "age_months"),
			Days:   formInt(c, "ageDays", "age_days"),
		},
		Contacts: models.ContactSet{
			Phone:    form(c, "phone"),
			Whatsapp: form(c, "whatsapp"),
			Number:   form(c, "number"),
		},
		Aadhar:   form(c, "aadhar"),
		Address:  form(c, "address"),
		District: form(c, "district"),
		Mandal:   form(c, "mandal"),
		Village:  form(c, "village"),
		Pincode:  form(c, "pincode"),
		City:     form(c, "city"),
		PassType: form(c, "passType", "pass_type"),
		Counter:  form(c, "counter"),
	}
}

// attachments opens the optional photo and aadharFile parts. The returned func closes
// whatever was opened.
func attachments(c *gin.Context) (services.Attachments, func(), error) {
	var (
		out    services.Attachments
		opened []multipart.File
	)
	closeAll := func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}
	open := func(field string) (*services.Attachment, error) {
		fh, err := c.FormFile(field)
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		opened = append(opened, f)
		return &services.Attachment{Filename: fh.Filename, Reader: f}, nil
	}

	var err error
	if out.Photo, err = open("photo"); err != nil {
		return out, closeAll, err
	}
	if out.AadharFile, err = open("aadharFile"); err != nil {
		return out, closeAll, err
	}
	return out, closeAll, nil
}
