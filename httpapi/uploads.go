package httpapi

import (
	"net/http"
)

// uploadLimit bounds one pinned document.
const uploadLimit = 32 << 20 // 32 MiB

// UploadsCreate pins a multipart file and returns its CID. The CID is
// then referenced from campaign fields or milestone proofs.
func (a *App) UploadsCreate(w http.ResponseWriter, r *http.Request) {
	if a.Pins == nil {
		a.error(w, http.StatusServiceUnavailable, "unavailable", "pinning service is not configured")
		return
	}
	if _, ok := a.caller(w, r); !ok {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, uploadLimit)
	file, header, err := r.FormFile("file")
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "multipart field 'file' is required")
		return
	}
	defer file.Close()

	cid, err := a.Pins.Upload(r.Context(), header.Filename, file)
	if err != nil {
		a.error(w, http.StatusBadGateway, "upstream", err.Error())
		return
	}
	a.json(w, http.StatusCreated, map[string]string{"cid": cid})
}
