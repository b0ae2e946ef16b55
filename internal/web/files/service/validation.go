package service

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Laisky/laisky-files-api/internal/web/files/dto"
	"github.com/Laisky/laisky-files-api/internal/web/files/model"
)

// ParseNodeID resolves a public node identifier.
// It returns (nil, nil) for the root sentinel or an empty input,
// a concrete id for valid hex, and ErrInvalidNodeID otherwise.
func ParseNodeID(raw string) (*primitive.ObjectID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == dto.RootSentinel {
		return nil, nil
	}

	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return nil, ErrInvalidNodeID
	}

	return &id, nil
}

// validateUpload checks the request fields in a fixed order, the first
// failing check wins and produces exactly one error.
func validateUpload(req *dto.UploadRequest) (kind model.Kind, err error) {
	if strings.TrimSpace(req.Name) == "" {
		return "", ErrMissingName
	}

	kind = model.Kind(req.Type)
	if req.Type == "" || !kind.Valid() {
		return "", ErrMissingType
	}

	if kind != model.KindFolder && req.Data == "" {
		return "", ErrMissingData
	}

	return kind, nil
}
