package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/SARVESHVARADKAR123/townsquare/internal/transport"
)

// maxBodyBytes comfortably fits the largest post body.
const maxBodyBytes = 64 << 10

// decode reads a JSON body into dst, writing a 400 and returning false when
// it cannot.
func decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		transport.WriteError(w, http.StatusBadRequest, "invalid_body", "invalid json")
		return false
	}
	return true
}
