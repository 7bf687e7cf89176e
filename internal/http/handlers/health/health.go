// Package health serves the liveness check.
package health

import (
	"net/http"

	"github.com/aanand-mishra/zookeepr/internal/utils/response"
)

// Handler handles GET /healthz with {"status":"ok"}.
func Handler(w http.ResponseWriter, r *http.Request) {
	_ = response.WriteJSON(w, http.StatusOK, response.OK())
}
