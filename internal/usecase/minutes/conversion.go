package minutes

import (
	"context"

	"go.uber.org/zap"

	"github.com/johnquangdev/mom-generator/internal/domain/entities"
	"github.com/johnquangdev/mom-generator/internal/usecase/conversion"
	usecaseErrors "github.com/johnquangdev/mom-generator/internal/usecase/errors"
)

// ConversionState is the view of a conversion in progress
type ConversionState struct {
	Items     []entities.StructuredActionItem `json:"items"`
	Overrides []entities.ActionItemOverride   `json:"overrides"`
}

func conversionState(c *conversion.Session) ConversionState {
	return ConversionState{Items: c.Items(), Overrides: c.Overrides()}
}

// BeginConversion starts converting the action items of saved minutes
func (s *Service) BeginConversion(ctx context.Context, id string) (ConversionState, error) {
	sess, err := s.acquire(id)
	if err != nil {
		return ConversionState{}, err
	}
	defer s.release(sess)

	if sess.record.Identifier == nil {
		return ConversionState{}, usecaseErrors.ErrNotSaved
	}

	sess.conversion = conversion.Begin(sess.record.StructuredActionItems, s.people(ctx, sess.record.Meta.ProjectID), sess.record.Meta.Date)
	return conversionState(sess.conversion), nil
}

// people returns the project members, or every user when the project has none
func (s *Service) people(ctx context.Context, projectID string) []entities.Identity {
	if s.deps.Directory == nil {
		return nil
	}
	members, err := s.deps.Directory.ProjectMembers(ctx, projectID)
	if err == nil && len(members) > 0 {
		return members
	}
	users, err := s.deps.Directory.Users(ctx)
	if err != nil {
		s.logger.Warn("⚠️ Failed to load directory for conversion", zap.Error(err))
		return nil
	}
	return users
}

// SetOverride patches the override of one item
func (s *Service) SetOverride(id string, i int, p conversion.OverridePatch) (ConversionState, error) {
	sess, err := s.acquire(id)
	if err != nil {
		return ConversionState{}, err
	}
	defer s.release(sess)

	if sess.conversion == nil {
		return ConversionState{}, usecaseErrors.ErrNoConversion
	}
	if err := sess.conversion.SetOverride(i, p); err != nil {
		return ConversionState{}, err
	}
	return conversionState(sess.conversion), nil
}

// ApplyBatch patches the overrides of several items
func (s *Service) ApplyBatch(id string, indices []int, p conversion.OverridePatch) (ConversionState, error) {
	sess, err := s.acquire(id)
	if err != nil {
		return ConversionState{}, err
	}
	defer s.release(sess)

	if sess.conversion == nil {
		return ConversionState{}, usecaseErrors.ErrNoConversion
	}
	if err := sess.conversion.ApplyBatch(indices, p); err != nil {
		return ConversionState{}, err
	}
	return conversionState(sess.conversion), nil
}

// CommitConversion creates tasks for the selected items and writes the
// assignees of created tasks back into the minutes. The conversion ends with
// the commit; converting again starts from the written back items.
func (s *Service) CommitConversion(ctx context.Context, id string, selected []int) (conversion.CommitResult, State, error) {
	sess, err := s.acquire(id)
	if err != nil {
		return conversion.CommitResult{}, State{}, err
	}
	defer s.release(sess)

	if sess.conversion == nil {
		return conversion.CommitResult{}, State{}, usecaseErrors.ErrNoConversion
	}

	p := performer(ctx)
	origin := conversion.Origin{
		ProjectID: sess.record.Meta.ProjectID,
		MomID:     sess.record.IdentifierOrEmpty(),
		CreatedBy: p.ID,
	}
	result, err := sess.conversion.Commit(ctx, selected, s.deps.Tasks, origin)
	if err != nil {
		return result, State{}, err
	}

	conv := sess.conversion
	sess.conversion = nil
	if result.Created > 0 {
		sess.record.StructuredActionItems = conv.Items()
		sess.markEdited(s.now())
	}
	for _, f := range result.Failures {
		s.logger.Warn("⚠️ Failed to create task from action item",
			zap.String("mom_no", origin.MomID),
			zap.Int("index", f.Index),
			zap.String("error", f.Error),
		)
	}
	s.logger.Info("✅ Action items converted",
		zap.String("mom_no", origin.MomID),
		zap.Int("created", result.Created),
		zap.Int("failed", result.Failed),
	)
	return result, sess.state(), nil
}

// CancelConversion drops the conversion in progress
func (s *Service) CancelConversion(id string) error {
	sess, err := s.acquire(id)
	if err != nil {
		return err
	}
	defer s.release(sess)

	sess.conversion = nil
	return nil
}
