package permissions

import (
	_ "embed"
	"encoding/json"
	"net/http"
	"slices"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

//go:embed permissions.json
var permissionsData []byte

// Permission lists the roles allowed on one route pattern.
type Permission struct {
	Permissions []string `json:"permissions"`
	Path        string   `json:"path"`
	Method      string   `json:"method"`
	Skip        bool     `json:"skip"`
}

// Allows reports whether role may call the endpoint. An endpoint without roles is open to any authenticated caller.
func (p Permission) Allows(role string) bool {
	return len(p.Permissions) == 0 || slices.Contains(p.Permissions, role)
}

type PermissionData struct {
	Endpoints []Permission `json:"endpoints"`
	Skip      bool         `json:"skip"`

	index map[string]Permission
}

func key(path, method string) string {
	return strings.ToUpper(method) + " " + path
}

// FindPermissions returns the entry registered for the chi route pattern and method, or the zero Permission.
func (r *PermissionData) FindPermissions(path, method string) Permission {
	if r.index == nil {
		r.buildIndex()
	}

	return r.index[key(path, method)]
}

func (r *PermissionData) buildIndex() {
	r.index = make(map[string]Permission, len(r.Endpoints))

	for _, endpoint := range r.Endpoints {
		r.index[key(endpoint.Path, endpoint.Method)] = endpoint
	}
}

// Load decodes a permissions document and rejects entries that could never match a route.
func Load(data []byte) (*PermissionData, error) {
	var permissions PermissionData

	if err := json.Unmarshal(data, &permissions); err != nil {
		return nil, errors.Wrap(err, "failed to decode permissions")
	}

	for _, endpoint := range permissions.Endpoints {
		if !strings.HasPrefix(endpoint.Path, "/") {
			return nil, errors.Errorf("permission path %q must start with /", endpoint.Path)
		}

		switch strings.ToUpper(endpoint.Method) {
		case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		default:
			return nil, errors.Errorf("permission %s has unsupported method %q", endpoint.Path, endpoint.Method)
		}
	}

	permissions.buildIndex()

	return &permissions, nil
}

// Get loads the embedded permissions. A nil result makes RBAC deny every request.
func Get() *PermissionData {
	permissions, err := Load(permissionsData)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load embedded permissions")

		return nil
	}

	log.Info().Int("endpoints", len(permissions.Endpoints)).Msg("Loaded embedded permissions")

	return permissions
}
