package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/raseelhq/reporting-apis/apierrors"
)

// RespondJSONObjectWithCode writes the object and status header to the response. Important to note that if this is being
// used for an error case then an empty return will need to immediately follow the call to this function
func RespondJSONObjectWithCode(w http.ResponseWriter, code int, obj interface{}) {
	setCommonHeaders(w)
	var err error
	var jsonBytes []byte
	if obj != nil {
		jsonBytes, err = json.Marshal(obj)
	}
	writeJSONBytes(w, jsonBytes, err, code)
}

func writeJSONBytes(w http.ResponseWriter, jsonBytes []byte, err error, code int) {
	if err != nil {
		RespondWithError(w, errors.New("unable to marshal response"))
		return
	}

	w.WriteHeader(code)
	if jsonBytes != nil {
		w.Write(jsonBytes)
	}
}

// RespondWithError maps the error taxonomy onto HTTP status codes and writes
// the structured error body.
func RespondWithError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError

	var validationErr *apierrors.ValidationError
	var notFoundErr *apierrors.NotFoundError
	var conflictErr *apierrors.ConflictError
	switch {
	case errors.As(err, &validationErr):
		code = http.StatusBadRequest
	case errors.As(err, &notFoundErr):
		code = http.StatusNotFound
	case errors.As(err, &conflictErr):
		code = http.StatusConflict
	}

	RespondJSONObjectWithCode(w, code, ModelError{Description: err.Error()})
}

func setCommonHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
}
