package daemon

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (a *API) ListThreads(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page, err := parseBoundedInt(query.Get("page"), "page", 1, 0)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	limit, err := parseBoundedInt(query.Get("limit"), "limit", defaultThreadPageLimit, maxThreadPageLimit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	threads, err := a.Threads.List(r.Context(), page, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ThreadsResponse{Threads: threads})
}

func (a *API) CreateThread(w http.ResponseWriter, r *http.Request) {
	var req CreateThreadRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		writeServiceError(w, err)
		return
	}
	thread, err := a.Threads.Create(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, thread)
}

func (a *API) GetThread(w http.ResponseWriter, r *http.Request) {
	thread, err := a.Threads.Get(r.Context(), chi.URLParam(r, threadIDParam))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, thread)
}

func (a *API) DeleteThread(w http.ResponseWriter, r *http.Request) {
	threadID := chi.URLParam(r, threadIDParam)
	if err := a.Threads.Delete(r.Context(), threadID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DeleteThreadResponse{ThreadID: threadID, Message: "deleted"})
}

func (a *API) ListMessages(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	order, err := parseMessageOrder(query.Get("order"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	limit, err := parseBoundedInt(query.Get("limit"), "limit", defaultMessageListLimit, maxMessageListLimit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	messages, err := a.Threads.ListMessages(r.Context(), chi.URLParam(r, threadIDParam), order, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessagesResponse{Messages: messages})
}

func (a *API) CreateMessage(w http.ResponseWriter, r *http.Request) {
	var req CreateMessageRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		writeServiceError(w, err)
		return
	}
	message, err := a.Threads.CreateMessage(r.Context(), chi.URLParam(r, threadIDParam), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, message)
}
