package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"conferencehall/internal/domain/proposal"
	"conferencehall/internal/domain/search"
	"conferencehall/internal/errs"
	"conferencehall/internal/infrastructure/persistence/sqlite/model"
	"conferencehall/internal/ports"
)

type ProposalRepository struct {
	db *gorm.DB
}

var _ ports.ProposalRepository = (*ProposalRepository)(nil)

func NewProposalRepository(db *gorm.DB) *ProposalRepository {
	return &ProposalRepository{db: db}
}

// CreateProposal stores the proposal with its format, category, and speaker
// links. Speakers without an ID are created as event speakers first.
func (r *ProposalRepository) CreateProposal(ctx context.Context, p proposal.Proposal) (proposal.Proposal, error) {
	db, err := conn(ctx, r.db)
	if err != nil {
		return proposal.Proposal{}, err
	}
	if strings.TrimSpace(p.EventID) == "" {
		return proposal.Proposal{}, errs.Wrap(errs.ErrInvalidArgument, "event id is required")
	}

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = p.CreatedAt
	}
	if p.Deliberation == "" {
		p.Deliberation = proposal.DeliberationPending
	}
	if p.Publication == "" {
		p.Publication = proposal.PublicationNotPublished
	}
	if p.Confirmation == "" {
		p.Confirmation = proposal.ConfirmationPending
	}

	row := toProposalModel(p)
	if err := db.Create(&row).Error; err != nil {
		return proposal.Proposal{}, errs.Wrap(err, "create proposal")
	}

	if err := linkFormats(db, p.ID, p.FormatIDs); err != nil {
		return proposal.Proposal{}, err
	}
	if err := linkCategories(db, p.ID, p.CategoryIDs); err != nil {
		return proposal.Proposal{}, err
	}

	for i := range p.Speakers {
		speaker := &p.Speakers[i]
		if speaker.ID == "" {
			speaker.ID = uuid.NewString()
			sp := model.EventSpeaker{
				ID:         speaker.ID,
				EventID:    p.EventID,
				Name:       speaker.Name,
				SearchName: searchKey(speaker.Name),
				Company:    speaker.Company,
			}
			if speaker.UserID != "" {
				userID := speaker.UserID
				sp.UserID = &userID
			}
			if err := db.Create(&sp).Error; err != nil {
				return proposal.Proposal{}, errs.Wrap(err, "create event speaker")
			}
		}
		link := model.ProposalSpeaker{ProposalID: p.ID, SpeakerID: speaker.ID, Position: i}
		if err := db.Create(&link).Error; err != nil {
			return proposal.Proposal{}, errs.Wrap(err, "link proposal speaker")
		}
	}

	return r.GetProposalByID(ctx, p.ID)
}

func (r *ProposalRepository) GetProposal(ctx context.Context, eventID string, proposalID string) (proposal.Proposal, error) {
	db, err := conn(ctx, r.db)
	if err != nil {
		return proposal.Proposal{}, err
	}
	return findProposal(db, "id = ? AND event_id = ?", proposalID, eventID)
}

func (r *ProposalRepository) GetProposalByID(ctx context.Context, proposalID string) (proposal.Proposal, error) {
	db, err := conn(ctx, r.db)
	if err != nil {
		return proposal.Proposal{}, err
	}
	return findProposal(db, "id = ?", proposalID)
}

func (r *ProposalRepository) UpdateProposal(ctx context.Context, proposalID string, patch ports.ProposalPatch) error {
	db, err := conn(ctx, r.db)
	if err != nil {
		return err
	}

	updates := map[string]any{}
	if patch.Number != nil {
		updates["number"] = *patch.Number
	}
	if patch.IsDraft != nil {
		updates["is_draft"] = *patch.IsDraft
	}
	if patch.SubmittedAt != nil {
		updates["submitted_at"] = patch.SubmittedAt.UTC()
	}
	if patch.Deliberation != nil {
		updates["deliberation_status"] = string(*patch.Deliberation)
	}
	if patch.Publication != nil {
		updates["publication_status"] = string(*patch.Publication)
	}
	if patch.Confirmation != nil {
		updates["confirmation_status"] = string(*patch.Confirmation)
	}
	if patch.Title != nil {
		updates["title"] = *patch.Title
		updates["search_title"] = searchKey(*patch.Title)
	}
	if patch.Abstract != nil {
		updates["abstract"] = *patch.Abstract
	}
	if patch.References != nil {
		updates["talk_references"] = *patch.References
	}
	if patch.Level != nil {
		updates["level"] = string(*patch.Level)
	}
	if patch.Languages != nil {
		updates["languages"] = datatypes.NewJSONSlice(patch.Languages)
	}
	replaceLinks := patch.FormatIDs != nil || patch.CategoryIDs != nil
	if len(updates) == 0 && !replaceLinks {
		return nil
	}

	updatedAt := patch.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}
	updates["updated_at"] = updatedAt.UTC()

	// Joins the caller's transaction through a savepoint when there is one.
	return db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Proposal{}).Where("id = ?", proposalID).Updates(updates)
		if result.Error != nil {
			return errs.Wrap(result.Error, "update proposal")
		}
		if result.RowsAffected == 0 {
			return errs.ErrProposalNotFound
		}

		if patch.FormatIDs != nil {
			if err := tx.Where("proposal_id = ?", proposalID).Delete(&model.ProposalFormat{}).Error; err != nil {
				return errs.Wrap(err, "clear proposal formats")
			}
			if err := linkFormats(tx, proposalID, patch.FormatIDs); err != nil {
				return err
			}
		}
		if patch.CategoryIDs != nil {
			if err := tx.Where("proposal_id = ?", proposalID).Delete(&model.ProposalCategory{}).Error; err != nil {
				return errs.Wrap(err, "clear proposal categories")
			}
			if err := linkCategories(tx, proposalID, patch.CategoryIDs); err != nil {
				return err
			}
		}
		return nil
	})
}

func linkFormats(db *gorm.DB, proposalID string, formatIDs []string) error {
	for _, formatID := range formatIDs {
		if err := db.Create(&model.ProposalFormat{ProposalID: proposalID, FormatID: formatID}).Error; err != nil {
			return errs.Wrap(err, "link proposal format")
		}
	}
	return nil
}

func linkCategories(db *gorm.DB, proposalID string, categoryIDs []string) error {
	for _, categoryID := range categoryIDs {
		if err := db.Create(&model.ProposalCategory{ProposalID: proposalID, CategoryID: categoryID}).Error; err != nil {
			return errs.Wrap(err, "link proposal category")
		}
	}
	return nil
}

// DeleteProposal removes the proposal and everything hanging off it. The
// event counter is left alone so numbers are never reused.
func (r *ProposalRepository) DeleteProposal(ctx context.Context, proposalID string) error {
	db, err := conn(ctx, r.db)
	if err != nil {
		return err
	}

	for _, dependent := range []any{
		&model.ProposalFormat{},
		&model.ProposalCategory{},
		&model.ProposalSpeaker{},
		&model.Review{},
	} {
		if err := db.Where("proposal_id = ?", proposalID).Delete(dependent).Error; err != nil {
			return errs.Wrap(err, "delete proposal dependents")
		}
	}

	result := db.Where("id = ?", proposalID).Delete(&model.Proposal{})
	if result.Error != nil {
		return errs.Wrap(result.Error, "delete proposal")
	}
	if result.RowsAffected == 0 {
		return errs.ErrProposalNotFound
	}
	return nil
}

func (r *ProposalRepository) CountSubmittedProposals(ctx context.Context, eventID string) (int64, error) {
	db, err := conn(ctx, r.db)
	if err != nil {
		return 0, err
	}

	var count int64
	if err := db.Model(&model.Proposal{}).
		Where("event_id = ? AND is_draft = ?", eventID, false).
		Count(&count).Error; err != nil {
		return 0, errs.Wrap(err, "count submitted proposals")
	}
	return count, nil
}

type statusCountRow struct {
	DeliberationStatus string
	PublicationStatus  string
	ConfirmationStatus string
	Total              int64
}

// SearchStatistics counts the filtered set by organizer status, plus how
// many of those the caller has reviewed.
func (r *ProposalRepository) SearchStatistics(ctx context.Context, q ports.ProposalSearchQuery) (search.Statistics, error) {
	db, err := conn(ctx, r.db)
	if err != nil {
		return search.Statistics{}, err
	}

	plan := buildProposalSearchPlan(q)
	var rows []statusCountRow
	if err := plan.apply(db.Model(&model.Proposal{})).
		Select("proposals.deliberation_status, proposals.publication_status, proposals.confirmation_status, COUNT(*) AS total").
		Group("proposals.deliberation_status, proposals.publication_status, proposals.confirmation_status").
		Scan(&rows).Error; err != nil {
		return search.Statistics{}, errs.Wrap(err, "count proposals by status")
	}

	stats := search.NewStatistics()
	for _, row := range rows {
		status := proposal.DeriveOrganizerStatus(proposal.Proposal{
			Deliberation: proposal.DeliberationStatus(row.DeliberationStatus),
			Publication:  proposal.PublicationStatus(row.PublicationStatus),
			Confirmation: proposal.ConfirmationStatus(row.ConfirmationStatus),
		})
		stats.ByStatus[status] += row.Total
		stats.Total += row.Total
	}

	if q.CallerID != "" && stats.Total > 0 {
		if err := plan.apply(db.Model(&model.Proposal{})).
			Where(ratedByUserSQL, q.CallerID).
			Count(&stats.Reviewed).Error; err != nil {
			return search.Statistics{}, errs.Wrap(err, "count reviewed proposals")
		}
	}
	return stats, nil
}

func (r *ProposalRepository) SearchProposals(ctx context.Context, q ports.ProposalSearchQuery, offset int, limit int) ([]proposal.Proposal, error) {
	db, err := conn(ctx, r.db)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, nil
	}
	if offset < 0 {
		offset = 0
	}

	plan := buildProposalSearchPlan(q)
	var rows []model.Proposal
	if err := plan.apply(db.Model(&model.Proposal{})).
		Order(plan.order).
		Offset(offset).
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "search proposals")
	}
	return loadProposals(db, rows)
}

func findProposal(db *gorm.DB, where string, args ...any) (proposal.Proposal, error) {
	var row model.Proposal
	if err := db.Where(where, args...).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return proposal.Proposal{}, errs.ErrProposalNotFound
		}
		return proposal.Proposal{}, errs.Wrap(err, "query proposal")
	}

	out, err := loadProposals(db, []model.Proposal{row})
	if err != nil {
		return proposal.Proposal{}, err
	}
	return out[0], nil
}

type proposalSpeakerRow struct {
	ProposalID string
	SpeakerID  string
	UserID     *string
	Name       string
	Company    string
}

// loadProposals maps rows and attaches their links with one query per link table.
func loadProposals(db *gorm.DB, rows []model.Proposal) ([]proposal.Proposal, error) {
	out := make([]proposal.Proposal, 0, len(rows))
	if len(rows) == 0 {
		return out, nil
	}

	ids := make([]string, 0, len(rows))
	index := make(map[string]int, len(rows))
	for i, row := range rows {
		ids = append(ids, row.ID)
		index[row.ID] = i
		out = append(out, mapProposal(row))
	}

	var formats []model.ProposalFormat
	if err := db.Where("proposal_id IN ?", ids).Order("format_id ASC").Find(&formats).Error; err != nil {
		return nil, errs.Wrap(err, "query proposal formats")
	}
	for _, f := range formats {
		p := &out[index[f.ProposalID]]
		p.FormatIDs = append(p.FormatIDs, f.FormatID)
	}

	var categories []model.ProposalCategory
	if err := db.Where("proposal_id IN ?", ids).Order("category_id ASC").Find(&categories).Error; err != nil {
		return nil, errs.Wrap(err, "query proposal categories")
	}
	for _, c := range categories {
		p := &out[index[c.ProposalID]]
		p.CategoryIDs = append(p.CategoryIDs, c.CategoryID)
	}

	var speakers []proposalSpeakerRow
	if err := db.Table("proposal_speakers AS ps").
		Select("ps.proposal_id, ps.speaker_id, es.user_id, es.name, es.company").
		Joins("JOIN event_speakers es ON es.id = ps.speaker_id").
		Where("ps.proposal_id IN ?", ids).
		Order("ps.proposal_id ASC, ps.position ASC").
		Scan(&speakers).Error; err != nil {
		return nil, errs.Wrap(err, "query proposal speakers")
	}
	for _, s := range speakers {
		speaker := proposal.Speaker{ID: s.SpeakerID, Name: s.Name, Company: s.Company}
		if s.UserID != nil {
			speaker.UserID = *s.UserID
		}
		p := &out[index[s.ProposalID]]
		p.Speakers = append(p.Speakers, speaker)
	}

	return out, nil
}

func toProposalModel(p proposal.Proposal) model.Proposal {
	return model.Proposal{
		ID:                 p.ID,
		EventID:            p.EventID,
		Number:             p.Number,
		Title:              p.Title,
		SearchTitle:        searchKey(p.Title),
		Abstract:           p.Abstract,
		References:         p.References,
		Level:              string(p.Level),
		Languages:          datatypes.NewJSONSlice(p.Languages),
		IsDraft:            p.IsDraft,
		SubmittedAt:        p.SubmittedAt,
		DeliberationStatus: string(p.Deliberation),
		PublicationStatus:  string(p.Publication),
		ConfirmationStatus: string(p.Confirmation),
		AvgRateForSort:     p.AvgRateForSort,
		CreatedAt:          p.CreatedAt.UTC(),
		UpdatedAt:          p.UpdatedAt.UTC(),
	}
}

func mapProposal(row model.Proposal) proposal.Proposal {
	return proposal.Proposal{
		ID:             row.ID,
		EventID:        row.EventID,
		Number:         row.Number,
		Title:          row.Title,
		Abstract:       row.Abstract,
		References:     row.References,
		Level:          proposal.Level(row.Level),
		Languages:      []string(row.Languages),
		IsDraft:        row.IsDraft,
		SubmittedAt:    row.SubmittedAt,
		Deliberation:   proposal.DeliberationStatus(row.DeliberationStatus),
		Publication:    proposal.PublicationStatus(row.PublicationStatus),
		Confirmation:   proposal.ConfirmationStatus(row.ConfirmationStatus),
		AvgRateForSort: row.AvgRateForSort,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
}
