package handlers

import (
	"errors"
	"mime"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-chi/chi/v5"

	"github.com/aTrapDeer/portfolio-backend/internal/apperr"
	"github.com/aTrapDeer/portfolio-backend/internal/httpserver/deps"
)

// bind decodes the request body into dst from JSON, a urlencoded form or a
// multipart form, chosen by Content-Type. Unknown fields are ignored.
func bind(w http.ResponseWriter, r *http.Request, d deps.Deps, dst any) error {
	if d.MaxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, d.MaxBodyBytes)
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	var err error
	switch mediaType {
	case binding.MIMEMultipartPOSTForm:
		if err = r.ParseMultipartForm(d.MaxMultipartMemory); err == nil {
			err = binding.FormMultipart.Bind(r, dst)
		}
	case binding.MIMEPOSTForm:
		err = binding.Form.Bind(r, dst)
	default:
		err = binding.JSON.Bind(r, dst)
	}
	if err == nil {
		return nil
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return apperr.New(apperr.CodeBadRequest, "The request body is too large.", http.StatusRequestEntityTooLarge)
	}
	return apperr.BadRequest("The request body could not be read.")
}

// idParam reads the numeric {key} route parameter.
func idParam(r *http.Request, resource string) (uint, error) {
	id, err := strconv.ParseUint(chi.URLParam(r, "key"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.NotFound(resource)
	}
	return uint(id), nil
}

func keyParam(r *http.Request) string {
	return chi.URLParam(r, "key")
}
