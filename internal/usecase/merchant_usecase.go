package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/LavaJover/shvark-cashback-service/internal/domain"
	merchantdto "github.com/LavaJover/shvark-cashback-service/internal/usecase/dto/merchant"
	"github.com/google/uuid"
)

type MerchantUsecase interface {
	ResolveMerchant(ctx context.Context, input *merchantdto.ResolveMerchantInput) (*merchantdto.ResolveMerchantOutput, error)
	GetMerchant(ctx context.Context, merchantID string) (*merchantdto.MerchantView, error)
}

type DefaultMerchantUsecase struct {
	consensus
}

func NewDefaultMerchantUsecase(deps Dependencies) *DefaultMerchantUsecase {
	return &DefaultMerchantUsecase{consensus: newConsensus(deps)}
}

func (uc *DefaultMerchantUsecase) ResolveMerchant(ctx context.Context, input *merchantdto.ResolveMerchantInput) (*merchantdto.ResolveMerchantOutput, error) {
	var out *merchantdto.ResolveMerchantOutput
	err := uc.store.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		var err error
		out, err = resolveMerchant(ctx, repos.Merchants(), input, uc.now)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.RecordMerchantResolved(string(out.Resolution))
	if out.Created {
		uc.logger.Info("merchant created", "merchant_id", out.Merchant.ID, "name", out.Merchant.CanonicalName)
	}
	return out, nil
}

func (uc *DefaultMerchantUsecase) GetMerchant(ctx context.Context, merchantID string) (*merchantdto.MerchantView, error) {
	repo := uc.store.Repositories().Merchants()
	merchant, err := repo.GetMerchantByID(ctx, merchantID)
	if err != nil {
		return nil, err
	}
	aliases, err := repo.GetAliasesByMerchantID(ctx, merchantID)
	if err != nil {
		return nil, err
	}
	return &merchantdto.MerchantView{Merchant: merchant, Aliases: aliases}, nil
}

// resolveMerchant maps a statement text to its canonical merchant inside the
// caller's transaction. Nothing is written unless the candidate name passes
// validation. Two transactions racing on the same unseen name collide on the
// unique indexes and the loser finds the winner's rows on retry.
func resolveMerchant(ctx context.Context, repo domain.MerchantRepository, input *merchantdto.ResolveMerchantInput, now func() time.Time) (*merchantdto.ResolveMerchantOutput, error) {
	if strings.TrimSpace(input.StatementText) == "" {
		return nil, domain.InvalidInput("statement name is required")
	}

	merchant, err := repo.GetMerchantByAlias(ctx, input.StatementText)
	if err != nil {
		return nil, err
	}
	if merchant != nil {
		return &merchantdto.ResolveMerchantOutput{Merchant: merchant, Resolution: merchantdto.ResolvedByAlias}, nil
	}

	name := strings.TrimSpace(input.CanonicalName)
	if name == "" {
		name = input.StatementText
	}
	if err := domain.ValidateMerchantName(name); err != nil {
		return nil, err
	}

	resolution := merchantdto.ResolvedByCanonical
	merchant, err = repo.GetMerchantByCanonicalName(ctx, name)
	if err != nil {
		return nil, err
	}
	if merchant == nil {
		merchant = &domain.Merchant{
			ID:            uuid.New().String(),
			CanonicalName: name,
			Category:      input.Category,
			DefaultMCC:    input.MCC,
			CreatedAt:     now(),
		}
		if err := repo.CreateMerchant(ctx, merchant); err != nil {
			return nil, err
		}
		resolution = merchantdto.ResolvedByCreation
	}

	alias := &domain.MerchantAlias{
		ID:         uuid.New().String(),
		MerchantID: merchant.ID,
		AliasText:  input.StatementText,
		CreatedAt:  now(),
	}
	if err := repo.CreateAlias(ctx, alias); err != nil {
		return nil, err
	}

	return &merchantdto.ResolveMerchantOutput{
		Merchant:   merchant,
		Created:    resolution == merchantdto.ResolvedByCreation,
		Resolution: resolution,
	}, nil
}
