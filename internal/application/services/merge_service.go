package services

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"kilometers.ai/plistmerge/internal/application/commands"
	"kilometers.ai/plistmerge/internal/core/domain"
	"kilometers.ai/plistmerge/internal/core/merge"
	"kilometers.ai/plistmerge/internal/core/ports"
)

// MergeService orchestrates reading the overlay and plist, merging them and
// rewriting the plist
type MergeService struct {
	overlays  ports.OverlaySource
	documents ports.DocumentStore
	logger    logrus.FieldLogger
}

// NewMergeService creates a new merge service
func NewMergeService(overlays ports.OverlaySource, documents ports.DocumentStore, logger logrus.FieldLogger) *MergeService {
	return &MergeService{
		overlays:  overlays,
		documents: documents,
		logger:    logger,
	}
}

// Apply runs one merge. The JSON file is decoded before the plist, and the
// merged plist is fully encoded before its file is opened for writing, so a
// decode or encode failure never touches the plist on disk.
func (s *MergeService) Apply(ctx context.Context, cmd *commands.MergePlistCommand) (*commands.MergePlistResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, errors.Wrap(err, "command validation failed")
	}
	log := s.logger.WithField("plist", cmd.PlistPath)

	overlay, err := s.overlays.LoadOverlay(ctx, cmd.OverlayPath)
	if err != nil {
		return nil, err
	}
	log.WithField("json", cmd.OverlayPath).Debugf("loaded overlay with %d keys", overlay.Len())

	base, err := s.documents.Load(ctx, cmd.PlistPath)
	if err != nil {
		return nil, err
	}
	log.WithField("format", base.Format).Debugf("loaded plist with %d keys", len(base.Values))

	changes := merge.Diff(overlay, base.Values)
	for _, c := range changes {
		log.WithFields(logrus.Fields{"key": c.Key, "change": c.Kind}).Debug("overlay key")
	}
	merged := base.WithValues(merge.Merge(overlay, base.Values))

	format := cmd.Format
	if format == "" {
		format = base.Format
		if format == domain.FormatOpenStep && domain.HasTypedScalars(merged.Values) {
			format = domain.FormatGNUStep
			log.Infof("plist holds booleans, numbers or dates that OpenStep cannot store; writing %s (use --format %s to force)",
				format, domain.FormatOpenStep)
		}
	}
	merged.Format = format
	data, err := s.documents.Encode(merged, format)
	if err != nil {
		return nil, err
	}

	result := &commands.MergePlistResult{
		Document: merged,
		Changes:  changes,
		Format:   format,
	}
	if cmd.DryRun {
		log.Debug("dry run, plist not written")
		return result, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "merge interrupted before write")
	}
	if err := s.documents.Write(ctx, cmd.PlistPath, data); err != nil {
		return nil, err
	}
	result.Written = true
	log.WithField("format", format).Debugf("wrote %d bytes", len(data))

	return result, nil
}
