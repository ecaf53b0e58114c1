package validators

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/ecoswap/ecoswap-backend/pkg/enums"
	pkgerrors "github.com/ecoswap/ecoswap-backend/pkg/errors"
)

// ParseQueryCategory reads an optional category filter. Nil means no filter.
func ParseQueryCategory(r *http.Request) (*enums.ProductCategory, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("category"))
	if raw == "" {
		return nil, nil
	}
	category, err := enums.ParseProductCategory(strings.ToLower(raw))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid category").WithDetails(map[string]any{"field": "category"})
	}
	return &category, nil
}

// ParseQueryUUID reads an optional UUID query parameter. Nil means absent.
func ParseQueryUUID(r *http.Request, key string) (*uuid.UUID, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be a uuid").WithDetails(map[string]any{"field": key})
	}
	return &id, nil
}
