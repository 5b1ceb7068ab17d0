package rest

import (
	"net/http"
)

func (h *handler) register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.logger.Info(r.Context(), "Registration request")

	s, err := h.vaults.Register(r.Context(), string(req.VaultNumber), req.Passcode)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{Success: true, Message: "Vault created and logged in.", Token: s.Token})
}

func (h *handler) login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	s, err := h.vaults.Login(r.Context(), string(req.VaultNumber), req.Passcode)
	if err != nil {
		if statusFor(err) == http.StatusUnauthorized {
			h.metrics.AuthFailures.WithLabelValues("login").Inc()
		}
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{Success: true, Message: "Logged in successfully.", Token: s.Token})
}

func (h *handler) checkAuth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, checkAuthResponse{Authenticated: true, VaultPrefix: vaultPrefix(r)})
}

func (h *handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	rep := h.health.Check(r.Context())
	resp := healthResponse{
		Status:           "OK",
		Timestamp:        rep.Timestamp,
		Storage:          "Storj.io",
		Bucket:           rep.Bucket,
		CompressedBucket: rep.CompressedBucket,
		StorjConnection:  "OK",
	}
	if !rep.OK {
		resp.Status = "ERROR"
		resp.StorjConnection = "FAILED"
		resp.Error = rep.Err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}
