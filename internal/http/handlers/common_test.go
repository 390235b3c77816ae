package handlers

import (
	"mime"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendPDFQuotesFilename(t *testing.T) {
	gin.SetMode(gin.TestMode)

	for _, name := range []string{
		"pass-BP-12345678.pdf",
		`pass-Ravi "Raju" Kumar.pdf`,
		"pass-a;b=c.pdf",
		"pass-రవి.pdf",
	} {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		sendPDF(c, []byte("%PDF-1.3"), name)

		disposition, params, err := mime.ParseMediaType(w.Header().Get("Content-Disposition"))
		require.NoError(t, err, name)
		assert.Equal(t, "inline", disposition)
		assert.Equal(t, name, params["filename"])
		assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	}
}
