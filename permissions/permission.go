package permissions

import (
	_ "embed"
	"encoding/json"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
)

//go:embed permissions.json
var permissionsData []byte

// Permission lists the roles allowed on one route pattern. An empty list admits any authenticated caller.
type Permission struct {
	Permissions []string `json:"permissions"`
	Path        string   `json:"path"`
	Method      string   `json:"method"`
	Skip        bool     `json:"skip"`
}

// Allows reports whether role may call the route. Role names compare case-insensitively.
func (p Permission) Allows(role string) bool {
	if len(p.Permissions) == 0 {
		return true
	}

	caller, ok := ParseRole(role)
	if !ok {
		return false
	}

	return slices.ContainsFunc(p.Permissions, func(allowed string) bool {
		parsed, ok := ParseRole(allowed)

		return ok && parsed == caller
	})
}

type PermissionData struct {
	Endpoints []Permission `json:"endpoints"`
	Skip      bool         `json:"skip"`

	index map[string]Permission
}

func routeKey(method, path string) string {
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}

	return strings.ToUpper(method) + " " + path
}

// FindPermissions looks up the route pattern for method. A trailing slash is ignored.
func (r *PermissionData) FindPermissions(path, method string) Permission {
	if r.index == nil {
		r.index = make(map[string]Permission, len(r.Endpoints))

		for _, endpoint := range r.Endpoints {
			r.index[routeKey(endpoint.Method, endpoint.Path)] = endpoint
		}
	}

	return r.index[routeKey(method, path)]
}

// Get decodes the embedded route table. Unknown role names are reported but kept.
func Get() *PermissionData {
	var permissions PermissionData

	if err := json.Unmarshal(permissionsData, &permissions); err != nil {
		log.Err(err).Msg("Failed to decode embedded permissions")

		return nil
	}

	for _, endpoint := range permissions.Endpoints {
		for _, role := range endpoint.Permissions {
			if _, ok := ParseRole(role); !ok {
				log.Warn().Str("path", endpoint.Path).Str("role", role).Msg("Unknown role in permissions")
			}
		}
	}

	permissions.FindPermissions("", "")

	log.Info().Int("endpoints", len(permissions.Endpoints)).Msg("Successfully loaded embedded permissions")

	return &permissions
}
