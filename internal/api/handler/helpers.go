package handler

import (
	"net/http"

	"github.com/mcoot/podtracker/internal/api/apierr"
	"github.com/mcoot/podtracker/internal/api/request"
)

// decode reads the request body, writing a 400 and returning false on failure
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := request.Decode(r, dst); err != nil {
		WriteError(w, apierr.NewInvalidRequestError(err.Error()))
		return false
	}
	return true
}

// derefStrings returns nil for an absent list so the service leaves the field alone
func derefStrings(p *[]string) []string {
	if p == nil {
		return nil
	}
	if *p == nil {
		return []string{}
	}
	return *p
}

func toIDs[T ~string](values []string) []T {
	if values == nil {
		return nil
	}
	out := make([]T, len(values))
	for i, v := range values {
		out[i] = T(v)
	}
	return out
}
