package api

import (
	"encoding/json"
	"net/http"

	ferrors "github.com/matzehuels/feedtree/pkg/errors"
)

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

// statusOf maps an error code to its HTTP status. Discovery failures and
// misuse of an existing resource are the caller's fault; lookups that
// miss are reported as absent.
func statusOf(code ferrors.Code) int {
	switch code {
	case ferrors.ErrCodeUnreachableURL,
		ferrors.ErrCodeUnreachableFeedURL,
		ferrors.ErrCodeOpmlNotFound,
		ferrors.ErrCodeFeedNotFoundInPath,
		ferrors.ErrCodeInvalidInput:
		return http.StatusBadRequest
	case ferrors.ErrCodeCategoryPathInvalid,
		ferrors.ErrCodeFeedNotFound,
		ferrors.ErrCodeEntryNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := ferrors.GetCode(err)
	if code == "" {
		code = ferrors.ErrCodeInternal
	}
	status := statusOf(code)

	body := errorBody{Error: code.Kind(), Message: ferrors.UserMessage(err)}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "id", w.Header().Get(RequestIDHeader), "path", r.URL.Path, "err", err)
		body.Message = "internal error"
	} else {
		s.logger.Debug("request rejected", "id", w.Header().Get(RequestIDHeader), "kind", body.Error, "err", err)
	}
	writeJSON(w, status, body)
}
