package permissions

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
)

//go:embed permissions.json
var embedded []byte

var methods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete}

// Permission is the access rule of one route. Path is a chi route pattern such
// as /v1/bookings/{id}/check-in.
type Permission struct {
	Permissions []string `json:"permissions"`
	Path        string   `json:"path"`
	Method      string   `json:"method"`
	Skip        bool     `json:"skip"`
}

// Allows reports whether role may call the endpoint. An endpoint without a
// role list is open to every authenticated caller.
func (p Permission) Allows(role string) bool {
	return len(p.Permissions) == 0 || slices.Contains(p.Permissions, role)
}

type PermissionData struct {
	Endpoints []Permission `json:"endpoints"`
	Skip      bool         `json:"skip"`
}

// FindPermissions returns the rule for the route, or the zero Permission when
// the route is unlisted.
func (r *PermissionData) FindPermissions(path, method string) Permission {
	for _, endpoint := range r.Endpoints {
		if endpoint.Path == path && strings.EqualFold(endpoint.Method, method) {
			return endpoint
		}
	}

	return Permission{}
}

// Parse decodes a permission document and rejects rules that could never
// match a request.
func Parse(data []byte) (*PermissionData, error) {
	var permissions PermissionData

	if err := json.Unmarshal(data, &permissions); err != nil {
		return nil, fmt.Errorf("failed to decode permissions: %w", err)
	}

	for i, endpoint := range permissions.Endpoints {
		if !strings.HasPrefix(endpoint.Path, "/") {
			return nil, fmt.Errorf("endpoint %d: path %q must start with /", i, endpoint.Path)
		}

		if !slices.Contains(methods, strings.ToUpper(endpoint.Method)) {
			return nil, fmt.Errorf("endpoint %d: unsupported method %q", i, endpoint.Method)
		}
	}

	return &permissions, nil
}

// Get loads the embedded permissions.json. A nil result makes RBAC deny every
// non-public route.
func Get() *PermissionData {
	permissions, err := Parse(embedded)
	if err != nil {
		log.Err(err).Msg("Failed to load embedded permissions")

		return nil
	}

	log.Info().Int("endpoints", len(permissions.Endpoints)).Msg("Successfully loaded embedded permissions")

	return permissions
}
