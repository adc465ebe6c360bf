package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"hirepath/internal/common"
)

func decodeJSON(r *http.Request, target any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return common.NewError(common.CodeValidation, "invalid request body", err)
	}
	return nil
}

func idFromPath(r *http.Request, index int) (common.UUID, error) {
	segments := strings.Split(r.URL.Path, "/")
	if index >= len(segments) || segments[index] == "" {
		return "", common.NewValidationError("invalid path", map[string]string{"id": "id is required"})
	}
	parsed, err := common.ParseUUID(segments[index])
	if err != nil {
		return "", common.NewValidationError("invalid path", map[string]string{"id": "invalid uuid"})
	}
	return parsed, nil
}

func parseUUIDField(value, field string) (common.UUID, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", common.NewValidationError("invalid request", map[string]string{field: field + " is required"})
	}
	parsed, err := common.ParseUUID(trimmed)
	if err != nil {
		return "", common.NewValidationError("invalid request", map[string]string{field: "invalid uuid"})
	}
	return parsed, nil
}

func optionalUUIDField(value, field string) (common.UUID, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", nil
	}
	parsed, err := common.ParseUUID(trimmed)
	if err != nil {
		return "", common.NewValidationError("invalid request", map[string]string{field: "invalid uuid"})
	}
	return parsed, nil
}
