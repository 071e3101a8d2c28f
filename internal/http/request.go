package http

import (
	"net/http"
	"net/url"
	"strings"

	"resultsdash/internal/core"
)

// Query parameter names shared by the page, the partial and the API.
const (
	paramArea        = "area"
	paramIndicator   = "indicator"
	paramProject     = "project"
	paramProjectsSet = "projects_set"
)

// ParseSelection reads the filter selection from query parameters.
// Without any project parameter and without the projects_set marker the
// project list stays nil so the default selection applies; with the marker
// an absent project list means "all projects".
func ParseSelection(query url.Values) core.FilterSelection {
	sel := core.FilterSelection{
		ThematicArea: validText(query.Get(paramArea)),
		Indicator:    validText(query.Get(paramIndicator)),
	}

	raw, hasProjects := query[paramProject]
	if !hasProjects && query.Get(paramProjectsSet) == "" {
		return sel
	}
	sel.Projects = make([]string, 0, len(raw))
	for _, p := range raw {
		sel.Projects = append(sel.Projects, validText(p))
	}
	return sel
}

// SelectionQuery encodes a resolved selection as page query parameters.
func SelectionQuery(sel core.FilterSelection) url.Values {
	q := url.Values{}
	q.Set(paramArea, sel.ThematicArea)
	q.Set(paramIndicator, sel.Indicator)
	q.Set(paramProjectsSet, "1")
	for _, p := range sel.Projects {
		q.Add(paramProject, p)
	}
	return q
}

// validText drops invalid UTF-8 and nothing else. Option values are
// matched exactly against the dataset, so spaces and line breaks are kept.
func validText(s string) string {
	return strings.ToValidUTF8(s, "")
}

// RequireMethod checks if the request method matches the expected method(s).
// Returns an error response builder if the method doesn't match.
func RequireMethod(r *http.Request, methods ...string) *HTMXResponseBuilder {
	for _, m := range methods {
		if r.Method == m {
			return nil
		}
	}
	return MethodNotAllowedError(strings.Join(methods, ", "))
}

// RequireGET accepts GET and HEAD.
func RequireGET(r *http.Request) *HTMXResponseBuilder {
	return RequireMethod(r, http.MethodGet, http.MethodHead)
}
