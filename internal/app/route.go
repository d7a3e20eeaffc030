package app

import (
	"net/url"
	"strings"
)

const (
	homePath         = "/"
	threadPathPrefix = "/agents/"
	orderQueryKey    = "order"
	orderAsc         = "asc"
	orderDesc        = "desc"
)

// Route is the UI's notion of location: a path plus query parameters.
type Route struct {
	Path  string
	Query url.Values
}

func HomeRoute() Route {
	return Route{Path: homePath}
}

func ThreadRoute(threadID string) Route {
	return Route{Path: ThreadLink(threadID)}
}

// ThreadLink is the path a thread row links to.
func ThreadLink(threadID string) string {
	return threadPathPrefix + strings.TrimSpace(threadID)
}

func ParseRoute(raw string) (Route, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return HomeRoute(), nil
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return Route{}, err
	}
	path := parsed.Path
	if path == "" {
		path = homePath
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	route := Route{Path: path}
	if query := parsed.Query(); len(query) > 0 {
		route.Query = query
	}
	return route, nil
}

func (r Route) String() string {
	path := r.Path
	if path == "" {
		path = homePath
	}
	if len(r.Query) == 0 {
		return path
	}
	return path + "?" + r.Query.Encode()
}

func (r Route) Equal(other Route) bool {
	return r.String() == other.String()
}

func (r Route) Segments() []string {
	parts := strings.Split(strings.Trim(r.Path, "/"), "/")
	out := parts[:0]
	for _, part := range parts {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ThreadID returns the thread id for /agents/{id} routes.
func (r Route) ThreadID() (string, bool) {
	if !strings.HasPrefix(r.Path, threadPathPrefix) {
		return "", false
	}
	id := strings.Trim(strings.TrimPrefix(r.Path, threadPathPrefix), "/")
	if id == "" || strings.Contains(id, "/") {
		return "", false
	}
	return id, true
}

func (r Route) MessageOrder() string {
	if strings.EqualFold(strings.TrimSpace(r.Query.Get(orderQueryKey)), orderDesc) {
		return orderDesc
	}
	return orderAsc
}

func (r Route) WithMessageOrder(order string) Route {
	query := url.Values{}
	for key, values := range r.Query {
		query[key] = append([]string(nil), values...)
	}
	query.Set(orderQueryKey, order)
	return Route{Path: r.Path, Query: query}
}
