package usecase

import (
	"context"
	"errors"
	"fmt"

	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/apperror"
)

type justificationUsecase struct {
	store domain.GraphStore
}

func NewJustificationUsecase(store domain.GraphStore) domain.JustificationUsecase {
	return &justificationUsecase{store: store}
}

// SetJustifications replaces the links of a skill to the items backing it.
// Every referenced item must belong to the skill's owner.
func (uc *justificationUsecase) SetJustifications(ctx context.Context, ownerID, skillID string, req *domain.SkillJustifications) error {
	if err := requireOwner(ctx, ownerID); err != nil {
		return err
	}
	if req == nil {
		return apperror.BadRequest("Request body is required")
	}
	skillID = canonicalID(skillID)
	if skillID == "" {
		return apperror.NotFound("Skill not found")
	}

	err := uc.store.WithinOwnerTx(ctx, ownerID, func(tx domain.GraphTx) error {
		owned, err := tx.ResolveOwned(ctx, domain.KindSkill, []string{skillID})
		if err != nil {
			return err
		}
		if len(owned) == 0 {
			return apperror.NotFound("Skill not found")
		}

		for _, target := range domain.JustificationTargets {
			ids := req.For(target)
			if ids == nil {
				continue
			}
			wanted := translateIDs(ids, nil)
			if len(wanted) != len(dedupe(ids)) {
				return apperror.Validation(fmt.Sprintf("Invalid %s id", target), nil)
			}
			resolved, err := tx.ResolveOwned(ctx, target, wanted)
			if err != nil {
				return err
			}
			if len(resolved) != len(wanted) {
				return apperror.Validation(fmt.Sprintf("Every linked %s must belong to you", target), nil)
			}
			if err := tx.SetSkillRelations(ctx, skillID, target, resolved); err != nil {
				return err
			}
		}
		return nil
	})
	if err == nil {
		return nil
	}

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return notFoundOr(err, "Profile not found")
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
