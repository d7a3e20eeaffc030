package app

import "strings"

const defaultRouteHistoryLimit = 256

type RouteHistory interface {
	Visit(route string)
	Back(valid func(string) bool) (string, bool)
	Forward(valid func(string) bool) (string, bool)
}

type boundedRouteHistory struct {
	entries []string
	index   int
	limit   int
}

func NewRouteHistory(limit int) RouteHistory {
	if limit <= 0 {
		limit = defaultRouteHistoryLimit
	}
	return &boundedRouteHistory{
		entries: nil,
		index:   -1,
		limit:   limit,
	}
}

func (h *boundedRouteHistory) Visit(route string) {
	route = strings.TrimSpace(route)
	if route == "" || h == nil {
		return
	}
	if h.index >= 0 && h.index < len(h.entries) && h.entries[h.index] == route {
		return
	}
	if h.index >= 0 && h.index+1 < len(h.entries) {
		h.entries = append([]string(nil), h.entries[:h.index+1]...)
	}
	h.entries = append(h.entries, route)
	if len(h.entries) > h.limit {
		trim := len(h.entries) - h.limit
		h.entries = append([]string(nil), h.entries[trim:]...)
	}
	h.index = len(h.entries) - 1
}

func (h *boundedRouteHistory) Back(valid func(string) bool) (string, bool) {
	if h == nil || h.index <= 0 {
		return "", false
	}
	if valid == nil {
		valid = alwaysValidRoute
	}
	for i := h.index - 1; i >= 0; i-- {
		if !valid(h.entries[i]) {
			continue
		}
		h.index = i
		return h.entries[i], true
	}
	return "", false
}

func (h *boundedRouteHistory) Forward(valid func(string) bool) (string, bool) {
	if h == nil || h.index < 0 || h.index+1 >= len(h.entries) {
		return "", false
	}
	if valid == nil {
		valid = alwaysValidRoute
	}
	for i := h.index + 1; i < len(h.entries); i++ {
		if !valid(h.entries[i]) {
			continue
		}
		h.index = i
		return h.entries[i], true
	}
	return "", false
}

func alwaysValidRoute(string) bool { return true }
