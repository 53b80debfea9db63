package ports

import (
	"context"

	"kilometers.ai/plistmerge/internal/core/domain"
)

// OverlaySource defines the interface for loading the overlay mapping
type OverlaySource interface {
	// LoadOverlay reads and decodes the overlay at path
	LoadOverlay(ctx context.Context, path string) (domain.Overlay, error)
}

// DocumentStore defines the interface for reading and rewriting property lists
type DocumentStore interface {
	// Load reads and decodes the property list at path, detecting its format
	Load(ctx context.Context, path string) (*domain.Document, error)

	// Encode serializes the document in the given format without touching disk
	Encode(doc *domain.Document, format domain.Format) ([]byte, error)

	// Write overwrites the file at path with data
	Write(ctx context.Context, path string, data []byte) error
}
