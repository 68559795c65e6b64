package handlers

import "net/http"

// Logo renders the app logo on demand. Failure here is cosmetic; clients are
// expected to fall back to their bundled asset.
func (a *App) Logo(w http.ResponseWriter, r *http.Request) {
	data, err := a.Gen.FetchLogo(r.Context())
	if err != nil {
		a.error(w, http.StatusServiceUnavailable, "unavailable", "logo generation unavailable")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
