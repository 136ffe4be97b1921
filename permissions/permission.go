package permissions

import (
	_ "embed"
	"encoding/json"
	"net/http"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
)

//go:embed permissions.json
var permissionsData []byte

// Permission describes one route. Skip marks it public; an empty Permissions list admits
// any authenticated role.
type Permission struct {
	Permissions []string `json:"permissions"`
	Path        string   `json:"path"`
	Method      string   `json:"method"`
	Skip        bool     `json:"skip"`
}

func (p Permission) Allows(role string) bool {
	return len(p.Permissions) == 0 || slices.Contains(p.Permissions, role)
}

type PermissionData struct {
	Endpoints []Permission `json:"endpoints"`
	// Skip disables role checks for every route.
	Skip bool `json:"skip"`

	index map[string]Permission
}

func key(path, method string) string {
	return strings.ToUpper(method) + " " + path
}

// FindPermissions looks up the route pattern, as registered on the router. Unknown routes
// yield the zero Permission.
func (r *PermissionData) FindPermissions(path, method string) Permission {
	if r.index != nil {
		return r.index[key(path, method)]
	}

	idx := slices.IndexFunc(r.Endpoints, func(rp Permission) bool {
		return rp.Path == path && strings.EqualFold(rp.Method, method)
	})
	if idx == -1 {
		return Permission{}
	}

	return r.Endpoints[idx]
}

func (r *PermissionData) IsPublic(path, method string) bool {
	return r.Skip || r.FindPermissions(path, method).Skip
}

func Get() *PermissionData {
	var data PermissionData

	if err := json.Unmarshal(permissionsData, &data); err != nil {
		log.Err(err).Msg("Failed to decode embedded permissions")

		return nil
	}

	data.index = make(map[string]Permission, len(data.Endpoints))

	for _, endpoint := range data.Endpoints {
		if endpoint.Method == "" {
			endpoint.Method = http.MethodGet
		}

		k := key(endpoint.Path, endpoint.Method)
		if _, dup := data.index[k]; dup {
			log.Warn().Str("route", k).Msg("Duplicate permission entry, keeping the first")

			continue
		}

		data.index[k] = endpoint
	}

	log.Info().Int("endpoints", len(data.index)).Msg("Successfully loaded embedded permissions")

	return &data
}
