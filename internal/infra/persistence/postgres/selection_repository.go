package postgres

import (
	"context"

	"catalog/internal/domain/entity"
	domainerrors "catalog/internal/domain/errors"
	"catalog/internal/domain/repository"
	"catalog/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// selectionRepository implements the domain.SelectionRepository interface using GORM.
type selectionRepository struct {
	db *gorm.DB
}

// NewSelectionRepository is the constructor for selectionRepository.
func NewSelectionRepository(db *gorm.DB) repository.SelectionRepository {
	return &selectionRepository{db: db}
}

// FindOpenByOwner retrieves the single open selection of a user, with its
// line items and their products.
func (repo *selectionRepository) FindOpenByOwner(ctx context.Context, ownerID uuid.UUID) (*entity.Selection, error) {
	var selectionM model.SelectionModel
	if err := repo.db.WithContext(ctx).
		Preload("Items.Product").
		Where("owner_id = ? AND in_order = ?", ownerID, false).
		First(&selectionM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrSelectionNotFound
		}

		return nil, errors.Wrap(err, "failed to find open selection by owner")
	}

	return toSelectionDomain(&selectionM), nil
}

// FindOpenByToken retrieves the open anonymous selection bound to a visitor token.
func (repo *selectionRepository) FindOpenByToken(ctx context.Context, token string) (*entity.Selection, error) {
	var selectionM model.SelectionModel
	if err := repo.db.WithContext(ctx).
		Preload("Items.Product").
		Where("anonymous_token = ? AND in_order = ?", token, false).
		First(&selectionM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrSelectionNotFound
		}

		return nil, errors.Wrap(err, "failed to find open selection by token")
	}

	return toSelectionDomain(&selectionM), nil
}

// FindByIDForUpdate retrieves a selection while holding a FOR UPDATE row
// lock until the surrounding transaction ends.
func (repo *selectionRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Selection, error) {
	var selectionM model.SelectionModel
	if err := repo.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&selectionM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrSelectionNotFound
		}

		return nil, errors.Wrap(err, "failed to lock selection")
	}

	// Items are loaded separately; FOR UPDATE cannot be combined with the
	// outer joins Preload would generate on some drivers.
	var itemMs []*model.LineItemModel
	if err := repo.db.WithContext(ctx).
		Preload("Product").
		Where("selection_id = ?", id).
		Find(&itemMs).Error; err != nil {
		return nil, errors.Wrap(err, "failed to load locked selection items")
	}
	selectionM.Items = itemMs

	return toSelectionDomain(&selectionM), nil
}

// Create persists a new selection.
func (repo *selectionRepository) Create(ctx context.Context, selection *entity.Selection) error {
	selectionM := fromSelectionDomain(selection)

	if err := repo.db.WithContext(ctx).Omit("Items").Create(selectionM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrConflict.WrapMessage("open selection already exists for this owner")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create selection")
	}

	selection.ID = selectionM.ID
	selection.CreatedAt = selectionM.CreatedAt
	selection.UpdatedAt = selectionM.UpdatedAt

	return nil
}

// Update persists the selection's own columns, never touching line items.
func (repo *selectionRepository) Update(ctx context.Context, selection *entity.Selection) error {
	update := map[string]any{
		"in_order":    selection.InOrder,
		"total_items": selection.TotalItems,
		"total_price": selection.TotalPrice,
	}

	result := repo.db.WithContext(ctx).
		Model(&model.SelectionModel{}).
		Where("id = ?", selection.ID).
		Updates(update)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update selection")
	}
	if result.RowsAffected == 0 {
		return repository.ErrSelectionNotFound
	}

	return nil
}

// CreateLineItem persists a new line item attached to a selection.
func (repo *selectionRepository) CreateLineItem(ctx context.Context, item *entity.LineItem) error {
	itemM := fromLineItemDomain(item)

	if err := repo.db.WithContext(ctx).Omit("Product").Create(itemM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrConflict.WrapMessage("product already selected")
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("unknown selection or product reference")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create line item")
	}

	item.ID = itemM.ID
	item.CreatedAt = itemM.CreatedAt
	item.UpdatedAt = itemM.UpdatedAt

	return nil
}

// UpdateLineItem persists quantity and price snapshot changes of a line item.
func (repo *selectionRepository) UpdateLineItem(ctx context.Context, item *entity.LineItem) error {
	update := map[string]any{
		"quantity":   item.Quantity,
		"line_price": item.LinePrice,
	}

	result := repo.db.WithContext(ctx).
		Model(&model.LineItemModel{}).
		Where("id = ?", item.ID).
		Updates(update)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update line item")
	}
	if result.RowsAffected == 0 {
		return repository.ErrLineItemNotFound
	}

	return nil
}

// DeleteLineItem removes a line item from its selection.
func (repo *selectionRepository) DeleteLineItem(ctx context.Context, item *entity.LineItem) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", item.ID).
		Delete(&model.LineItemModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete line item")
	}
	if result.RowsAffected == 0 {
		return repository.ErrLineItemNotFound
	}

	return nil
}

// --- Mapper Functions ---

func toSelectionDomain(data *model.SelectionModel) *entity.Selection {
	if data == nil {
		return nil
	}

	items := make([]*entity.LineItem, 0, len(data.Items))
	for _, itemM := range data.Items {
		items = append(items, toLineItemDomain(itemM))
	}

	return &entity.Selection{
		ID:             data.ID,
		OwnerID:        data.OwnerID,
		AnonymousToken: data.AnonymousToken,
		InOrder:        data.InOrder,
		TotalItems:     data.TotalItems,
		TotalPrice:     data.TotalPrice,
		Items:          items,
		CreatedAt:      data.CreatedAt,
		UpdatedAt:      data.UpdatedAt,
	}
}

func fromSelectionDomain(data *entity.Selection) *model.SelectionModel {
	if data == nil {
		return nil
	}

	return &model.SelectionModel{
		ID:             data.ID,
		OwnerID:        data.OwnerID,
		AnonymousToken: data.AnonymousToken,
		InOrder:        data.InOrder,
		TotalItems:     data.TotalItems,
		TotalPrice:     data.TotalPrice,
	}
}

func toLineItemDomain(data *model.LineItemModel) *entity.LineItem {
	if data == nil {
		return nil
	}

	return &entity.LineItem{
		ID:          data.ID,
		SelectionID: data.SelectionID,
		ProductID:   data.ProductID,
		OwnerID:     data.OwnerID,
		Product:     toProductDomain(data.Product),
		Quantity:    data.Quantity,
		LinePrice:   data.LinePrice,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}

func fromLineItemDomain(data *entity.LineItem) *model.LineItemModel {
	if data == nil {
		return nil
	}

	return &model.LineItemModel{
		ID:          data.ID,
		SelectionID: data.SelectionID,
		ProductID:   data.ProductID,
		OwnerID:     data.OwnerID,
		Quantity:    data.Quantity,
		LinePrice:   data.LinePrice,
	}
}
