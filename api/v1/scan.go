package v1

import (
	"net/http"

	"github.com/openshelf/openshelf/http/request"
	"github.com/openshelf/openshelf/http/response"
	"github.com/openshelf/openshelf/scan"
	"github.com/pkg/errors"
)

// resolveScan turns a scanned QR payload or hand-typed identifier into
// a catalog book. The payload is passed in the "payload" query
// parameter so front-desk clients can resolve with a plain GET.
func (h *Handler) resolveScan(w http.ResponseWriter, r *http.Request) {
	payload := request.QueryStringParam(r, "payload", "")

	book, err := scan.Resolve(h.store, payload)
	if err != nil {
		switch errors.Cause(err) {
		case scan.ErrNotFound:
			response.NotFound(w, r)
		case scan.ErrAmbiguous:
			response.Conflict(w, r, err)
		default:
			response.BadRequest(w, r, err)
		}
		return
	}
	response.OK(w, r, book)
}
