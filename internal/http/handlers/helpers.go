package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"talentbridge/internal/common"
)

func decodeJSON(r *http.Request, target interface{}) error {
	if r.Body == nil {
		return common.NewError(common.CodeValidation, "request body is required", nil)
	}
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		return common.NewError(common.CodeValidation, "invalid json body", err)
	}
	return nil
}

// idFromPath extracts a UUID path segment counting from the end of the path:
// offset 1 is the last segment, offset 2 the one before it.
func idFromPath(r *http.Request, offset int) (common.UUID, error) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if offset < 1 || offset > len(parts) {
		return "", common.NewError(common.CodeValidation, "missing id in path", nil)
	}
	parsed, err := common.ParseUUID(parts[len(parts)-offset])
	if err != nil {
		return "", common.NewValidationError("invalid id", map[string]string{"id": "invalid uuid"})
	}
	return parsed, nil
}

func errUnauthorized() error {
	return common.NewError(common.CodeUnauthorized, "authentication required", nil)
}
