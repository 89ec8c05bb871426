package constant

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yockii/surat_hub/pkg/docgen"
	"github.com/yockii/surat_hub/pkg/pdfconv"
)

func TestGetErrorCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"nil", nil, http.StatusOK},
		{"params", ErrInvalidParams, http.StatusBadRequest},
		{"content", ErrContentRequired, http.StatusBadRequest},
		{"template missing", fmt.Errorf("load: %w", ErrTemplateNotFound), http.StatusNotFound},
		{"placeholder", fmt.Errorf("compose: %w", docgen.ErrPlaceholderNotFound), http.StatusUnprocessableEntity},
		{"invalid template", docgen.ErrInvalidTemplate, http.StatusUnprocessableEntity},
		{"conversion", &docgen.ConversionError{Format: docgen.FormatHTML, Err: errors.New("x")}, http.StatusBadRequest},
		{"malformed", docgen.ErrMalformedDocument, http.StatusInternalServerError},
		{"malformed inside conversion", &docgen.ConversionError{Format: docgen.FormatHTML, Err: docgen.ErrMalformedDocument}, http.StatusInternalServerError},
		{"soffice", pdfconv.ErrConverterUnavailable, http.StatusServiceUnavailable},
		{"unknown", errors.New("lain"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, GetErrorCode(tt.err))
		})
	}
}
