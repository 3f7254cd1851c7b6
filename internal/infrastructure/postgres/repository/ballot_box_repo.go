package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/LavaJover/shvark-cashback-service/internal/domain"
	"github.com/LavaJover/shvark-cashback-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

// voteTable describes where one kind of vote lives.
type voteTable struct {
	name          string
	subjectColumn string
	newRow        func(subjectID, voterID string, vote domain.VoteType) any
}

var (
	entryVoteTable = voteTable{
		name:          "entry_votes",
		subjectColumn: "entry_id",
		newRow: func(subjectID, voterID string, vote domain.VoteType) any {
			return &models.EntryVoteModel{
				EntryID:   subjectID,
				UserID:    voterID,
				VoteType:  string(vote),
				CreatedAt: time.Now().UTC(),
			}
		},
	}
	suggestionVoteTable = voteTable{
		name:          "rate_suggestion_votes",
		subjectColumn: "suggestion_id",
		newRow: func(subjectID, voterID string, vote domain.VoteType) any {
			return &models.RateSuggestionVoteModel{
				SuggestionID: subjectID,
				UserID:       voterID,
				VoteType:     string(vote),
				CreatedAt:    time.Now().UTC(),
			}
		},
	}
)

// BallotBoxRepository stores one vote per (subject, voter) in a vote table.
type BallotBoxRepository struct {
	db    *gorm.DB
	table voteTable
}

func NewEntryBallotBox(db *gorm.DB) *BallotBoxRepository {
	return &BallotBoxRepository{db: db, table: entryVoteTable}
}

func NewSuggestionBallotBox(db *gorm.DB) *BallotBoxRepository {
	return &BallotBoxRepository{db: db, table: suggestionVoteTable}
}

func (r *BallotBoxRepository) where() string {
	return fmt.Sprintf("%s = ? AND user_id = ?", r.table.subjectColumn)
}

func (r *BallotBoxRepository) GetVote(ctx context.Context, subjectID, voterID string) (*domain.VoteType, error) {
	var votes []string
	if err := r.db.WithContext(ctx).Table(r.table.name).
		Where(r.where(), subjectID, voterID).
		Limit(1).
		Pluck("vote_type", &votes).Error; err != nil {
		return nil, fmt.Errorf("vote lookup failed: %w", err)
	}
	if len(votes) == 0 {
		return nil, nil
	}
	vote := domain.VoteType(votes[0])
	return &vote, nil
}

func (r *BallotBoxRepository) InsertVote(ctx context.Context, subjectID, voterID string, vote domain.VoteType) error {
	if err := r.db.WithContext(ctx).Create(r.table.newRow(subjectID, voterID, vote)).Error; err != nil {
		return raced(fmt.Errorf("failed to insert vote: %w", err))
	}
	return nil
}

func (r *BallotBoxRepository) UpdateVote(ctx context.Context, subjectID, voterID string, vote domain.VoteType) error {
	res := r.db.WithContext(ctx).Table(r.table.name).
		Where(r.where(), subjectID, voterID).
		Update("vote_type", string(vote))
	if res.Error != nil {
		return fmt.Errorf("failed to update vote: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NotFound("vote by %s on %s not found", voterID, subjectID)
	}
	return nil
}

func (r *BallotBoxRepository) DeleteVote(ctx context.Context, subjectID, voterID string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s", r.table.name, r.where())
	if err := r.db.WithContext(ctx).Exec(query, subjectID, voterID).Error; err != nil {
		return fmt.Errorf("failed to delete vote: %w", err)
	}
	return nil
}

func (r *BallotBoxRepository) CountVotes(ctx context.Context, subjectID string) (domain.Tally, error) {
	var rows []struct {
		VoteType string
		N        int64
	}
	if err := r.db.WithContext(ctx).Table(r.table.name).
		Select("vote_type, count(*) as n").
		Where(r.table.subjectColumn+" = ?", subjectID).
		Group("vote_type").
		Scan(&rows).Error; err != nil {
		return domain.Tally{}, fmt.Errorf("count votes failed: %w", err)
	}

	var tally domain.Tally
	for _, row := range rows {
		switch domain.VoteType(row.VoteType) {
		case domain.VoteUp:
			tally.Up = row.N
		case domain.VoteDown:
			tally.Down = row.N
		}
	}
	return tally, nil
}

func (r *BallotBoxRepository) GetVotesByVoter(ctx context.Context, voterID string, subjectIDs []string) (map[string]domain.VoteType, error) {
	votes := make(map[string]domain.VoteType, len(subjectIDs))
	if len(subjectIDs) == 0 {
		return votes, nil
	}

	var rows []struct {
		SubjectID string
		VoteType  string
	}
	if err := r.db.WithContext(ctx).Table(r.table.name).
		Select(r.table.subjectColumn+" as subject_id, vote_type").
		Where("user_id = ? AND "+r.table.subjectColumn+" IN ?", voterID, subjectIDs).
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("voter lookup failed: %w", err)
	}
	for _, row := range rows {
		votes[row.SubjectID] = domain.VoteType(row.VoteType)
	}
	return votes, nil
}
