package prometheus

import (
	"encoding/json"
	"net/http"

	"github.com/golang/gddo/httputil"
	"github.com/pkg/errors"
)

const (
	contentTypePlainText = "text/plain"
	contentTypeJSON      = "application/json"
)

// negotiateContentType picks JSON only when the Accept header prefers it.
func negotiateContentType(r *http.Request) string {
	return httputil.NegotiateContentType(r, []string{contentTypePlainText, contentTypeJSON}, contentTypePlainText)
}

// writeResponse encodes body as JSON for JSON clients and writes text
// verbatim otherwise. The header must already have been sent.
func writeResponse(w http.ResponseWriter, contentType string, body interface{}, text []byte) error {
	if contentType == contentTypeJSON {
		return json.NewEncoder(w).Encode(body)
	}
	if _, err := w.Write(text); err != nil {
		return errors.Wrap(err, "could not write response body")
	}
	return nil
}
