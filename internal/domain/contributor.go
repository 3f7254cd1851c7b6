package domain

import (
	"context"
	"strings"
	"time"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
)

type Contributor struct {
	ID              string
	Email           string
	DisplayName     string
	Role            Role
	ReputationScore int64
	CreatedAt       time.Time
}

// Identity is what the authentication layer hands over for a caller.
type Identity struct {
	ID          string
	Email       string
	DisplayName string
}

// DefaultDisplayName falls back to the local part of the email.
func (i Identity) DefaultDisplayName() string {
	if name := strings.TrimSpace(i.DisplayName); name != "" {
		return name
	}
	local, _, _ := strings.Cut(i.Email, "@")
	return local
}

// ContributionHistory holds the durable counts reputation is derived from.
type ContributionHistory struct {
	Entries             int64
	Comments            int64
	AcceptedSuggestions int64
}

type ContributorRepository interface {
	CreateContributorIfAbsent(ctx context.Context, contributor *Contributor) error
	GetContributorByID(ctx context.Context, contributorID string) (*Contributor, error)
	// GetContributorForUpdate locks the row until the transaction ends.
	GetContributorForUpdate(ctx context.Context, contributorID string) (*Contributor, error)
	ListContributorIDs(ctx context.Context) ([]string, error)
	AddReputation(ctx context.Context, contributorID string, points int64) error
	SetReputation(ctx context.Context, contributorID string, score int64) error
	GetContributionHistory(ctx context.Context, contributorID string) (*ContributionHistory, error)
}
