package daemon

import "net/http"

func (a *API) ListSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := a.Settings.ListPublic(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SettingsResponse{Settings: settings})
}

func (a *API) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	if RoleFromContext(r.Context()) != RoleAdmin {
		writeServiceError(w, forbiddenError("admin token required", nil))
		return
	}
	var req UpdateSettingsRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		writeServiceError(w, err)
		return
	}
	settings, err := a.Settings.Update(r.Context(), RoleFromContext(r.Context()), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SettingsResponse{Settings: settings})
}
