package commands

import (
	"fmt"

	"kilometers.ai/plistmerge/internal/core/domain"
	"kilometers.ai/plistmerge/internal/core/merge"
)

// MergePlistCommand represents a request to overlay a JSON file onto a plist file
type MergePlistCommand struct {
	OverlayPath string
	PlistPath   string

	// Format forces the output encoding; empty keeps the encoding that was read
	Format domain.Format

	// DryRun computes the result without writing the plist file
	DryRun bool
}

// NewMergePlistCommand creates a new merge command that preserves the plist's encoding
func NewMergePlistCommand(overlayPath, plistPath string) *MergePlistCommand {
	return &MergePlistCommand{
		OverlayPath: overlayPath,
		PlistPath:   plistPath,
	}
}

// Validate validates the merge command
func (c *MergePlistCommand) Validate() error {
	if c.OverlayPath == "" {
		return fmt.Errorf("JSON file path is required")
	}
	if c.PlistPath == "" {
		return fmt.Errorf("plist file path is required")
	}
	if c.Format != "" {
		if _, err := domain.ParseFormat(c.Format.String()); err != nil {
			return err
		}
	}
	return nil
}

// MergePlistResult represents the outcome of a merge
type MergePlistResult struct {
	Document *domain.Document
	Changes  []merge.Change
	Format   domain.Format
	Written  bool
}
