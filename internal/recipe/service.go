// AngelaMos | 2026
// service.go

package recipe

import (
	"bytes"
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/angelamos/recipebox/internal/core"
	"github.com/angelamos/recipebox/internal/storage"
	"github.com/angelamos/recipebox/internal/taxonomy"
)

type Service struct {
	db      *sqlx.DB
	repo    Repository
	storage storage.ObjectStorage
}

func NewService(db *sqlx.DB, store storage.ObjectStorage) *Service {
	return &Service{
		db:      db,
		repo:    NewRepository(db),
		storage: store,
	}
}

func (s *Service) List(
	ctx context.Context,
	ownerID string,
	params ListParams,
) ([]Recipe, error) {
	return s.repo.List(ctx, ownerID, params)
}

func (s *Service) Get(
	ctx context.Context,
	ownerID string,
	id int64,
) (*Recipe, error) {
	return s.repo.GetByID(ctx, ownerID, id)
}

// Create inserts the recipe and resolves its association lists in one
// transaction: names are matched against the owner's existing tags and
// ingredients, missing ones are created, and the resolved rows attached.
func (s *Service) Create(
	ctx context.Context,
	ownerID string,
	input CreateInput,
) (*Recipe, error) {
	var created *Recipe

	err := core.InTx(ctx, s.db, func(tx *sqlx.Tx) error {
		repo := NewRepository(tx)
		taxRepo := taxonomy.NewRepository(tx)

		recipe := &Recipe{
			UserID:      ownerID,
			Title:       input.Title,
			Description: input.Description,
			TimeMinutes: input.TimeMinutes,
			PriceCents:  input.PriceCents,
			Link:        input.Link,
		}
		if err := repo.Create(ctx, recipe); err != nil {
			return err
		}

		if err := s.reconcile(
			ctx, repo, taxRepo,
			recipe.ID, taxonomy.KindTag, ownerID, input.Tags,
		); err != nil {
			return err
		}
		if err := s.reconcile(
			ctx, repo, taxRepo,
			recipe.ID, taxonomy.KindIngredient, ownerID, input.Ingredients,
		); err != nil {
			return err
		}

		var err error
		created, err = repo.GetByID(ctx, ownerID, recipe.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// Update applies the normalized input inside a transaction. A nil
// association list leaves the recipe's set alone; a present one, empty
// included, clears and reattaches. Ownership never changes.
func (s *Service) Update(
	ctx context.Context,
	ownerID string,
	id int64,
	input UpdateInput,
) (*Recipe, error) {
	var updated *Recipe

	err := core.InTx(ctx, s.db, func(tx *sqlx.Tx) error {
		repo := NewRepository(tx)
		taxRepo := taxonomy.NewRepository(tx)

		recipe, err := repo.GetByID(ctx, ownerID, id)
		if err != nil {
			return err
		}

		if input.Title != nil {
			recipe.Title = *input.Title
		}
		if input.TimeMinutes != nil {
			recipe.TimeMinutes = *input.TimeMinutes
		}
		if input.PriceCents != nil {
			recipe.PriceCents = *input.PriceCents
		}
		if input.Description != nil {
			recipe.Description = *input.Description
		}
		if input.Link != nil {
			recipe.Link = *input.Link
		}

		if err := repo.Update(ctx, recipe); err != nil {
			return err
		}

		if input.Tags != nil {
			if err := s.reconcile(
				ctx, repo, taxRepo,
				recipe.ID, taxonomy.KindTag, ownerID, *input.Tags,
			); err != nil {
				return err
			}
		}
		if input.Ingredients != nil {
			if err := s.reconcile(
				ctx, repo, taxRepo,
				recipe.ID, taxonomy.KindIngredient, ownerID, *input.Ingredients,
			); err != nil {
				return err
			}
		}

		updated, err = repo.GetByID(ctx, ownerID, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (s *Service) Delete(ctx context.Context, ownerID string, id int64) error {
	imagePath, err := s.repo.Delete(ctx, ownerID, id)
	if err != nil {
		return err
	}

	if imagePath.Valid {
		// Orphaned objects are harmless, so storage cleanup is best effort.
		_ = s.storage.Delete(ctx, imagePath.String)
	}

	return nil
}

// UploadImage validates that the payload decodes as an image, stores it
// under a fresh key, and swaps the recipe's image path. The previous
// object, if any, is removed afterwards.
func (s *Service) UploadImage(
	ctx context.Context,
	ownerID string,
	id int64,
	data []byte,
) (*Recipe, error) {
	ext, err := DetectImageFormat(data)
	if err != nil {
		return nil, err
	}

	recipe, err := s.repo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("uploads/recipe/%s.%s", uuid.New().String(), ext)
	contentType := "image/" + ext
	if ext == "jpg" {
		contentType = "image/jpeg"
	}

	err = s.storage.Put(
		ctx, key,
		bytes.NewReader(data), int64(len(data)),
		contentType,
	)
	if err != nil {
		return nil, fmt.Errorf("store image: %w", err)
	}

	if err := s.repo.SetImagePath(ctx, ownerID, id, key); err != nil {
		_ = s.storage.Delete(ctx, key)
		return nil, err
	}

	if recipe.ImagePath.Valid {
		_ = s.storage.Delete(ctx, recipe.ImagePath.String)
	}

	recipe.ImagePath.String = key
	recipe.ImagePath.Valid = true
	return recipe, nil
}

func (s *Service) reconcile(
	ctx context.Context,
	repo Repository,
	taxRepo taxonomy.Repository,
	recipeID int64,
	kind taxonomy.Kind,
	ownerID string,
	names []string,
) error {
	seen := make(map[int64]struct{}, len(names))
	itemIDs := make([]int64, 0, len(names))

	for _, name := range names {
		item, err := taxRepo.GetOrCreate(ctx, kind, ownerID, name)
		if err != nil {
			return err
		}
		if _, dup := seen[item.ID]; dup {
			continue
		}
		seen[item.ID] = struct{}{}
		itemIDs = append(itemIDs, item.ID)
	}

	return repo.ReplaceAssociations(ctx, recipeID, kind, itemIDs)
}
