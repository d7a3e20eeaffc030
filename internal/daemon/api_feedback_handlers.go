package daemon

import "net/http"

func (a *API) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	var req SubmitFeedbackRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		writeServiceError(w, err)
		return
	}
	feedback, err := a.Feedback.Submit(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, feedback)
}

func (a *API) ListFeedback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit, err := parseBoundedInt(query.Get("limit"), "limit", defaultFeedbackListLimit, maxFeedbackListLimit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	feedback, err := a.Feedback.List(r.Context(), query.Get("thread_id"), query.Get("message_id"), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, FeedbackResponse{Feedback: feedback})
}
