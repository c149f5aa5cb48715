package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ada-zs1125/sky-take-out/internal/model"
	"github.com/ada-zs1125/sky-take-out/internal/repository"
)

// DishCache 按分类缓存用户端菜品列表。缓存不可用不能影响主流程。
type DishCache interface {
	// GetList 命中返回 (list, true, nil)，未命中返回 (nil, false, nil)。
	GetList(ctx context.Context, categoryID uint) ([]DishVO, bool, error)
	SetList(ctx context.Context, categoryID uint, list []DishVO) error
	Invalidate(ctx context.Context, categoryIDs ...uint) error
	InvalidateAll(ctx context.Context) error
}

// DishService 菜品管理：增删改查 + 起售停售。
// 删除受两条跨实体不变量保护：起售中不可删、被套餐引用不可删。
type DishService struct {
	dishes        repository.DishRepository
	flavors       repository.DishFlavorRepository
	setmeals      repository.SetmealRepository
	setmealDishes repository.SetmealDishRepository
	tx            repository.TxManager
	cache         DishCache
	log           *logrus.Logger
}

func NewDishService(
	dishes repository.DishRepository,
	flavors repository.DishFlavorRepository,
	setmeals repository.SetmealRepository,
	setmealDishes repository.SetmealDishRepository,
	tx repository.TxManager,
	cache DishCache,
	log *logrus.Logger,
) *DishService {
	return &DishService{
		dishes:        dishes,
		flavors:       flavors,
		setmeals:      setmeals,
		setmealDishes: setmealDishes,
		tx:            tx,
		cache:         cache,
		log:           log,
	}
}

// SaveWithFlavor 新增菜品及其口味，同一事务内落库。
func (s *DishService) SaveWithFlavor(ctx context.Context, dto DishDTO) error {
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		dish := &model.Dish{
			Name:        dto.Name,
			CategoryID:  dto.CategoryID,
			Price:       dto.Price,
			Image:       dto.Image,
			Description: dto.Description,
			Status:      dto.Status,
		}
		if err := s.dishes.Create(ctx, dish); err != nil {
			return fmt.Errorf("insert dish: %w", err)
		}
		if len(dto.Flavors) > 0 {
			flavors := make([]model.DishFlavor, len(dto.Flavors))
			copy(flavors, dto.Flavors)
			for i := range flavors {
				flavors[i].ID = 0
				flavors[i].DishID = dish.ID
			}
			if err := s.flavors.CreateBatch(ctx, flavors); err != nil {
				return fmt.Errorf("insert dish flavors: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.invalidate(ctx, dto.CategoryID)
	return nil
}

// UpdateWithFlavor 修改菜品：先删旧口味，再按 DTO 重新插入。
func (s *DishService) UpdateWithFlavor(ctx context.Context, dto DishDTO) error {
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		dish, err := s.dishes.GetByID(ctx, dto.ID)
		if err != nil {
			return fmt.Errorf("load dish %d: %w", dto.ID, err)
		}
		dish.Name = dto.Name
		dish.CategoryID = dto.CategoryID
		dish.Price = dto.Price
		dish.Image = dto.Image
		dish.Description = dto.Description
		dish.Status = dto.Status
		if err := s.dishes.Update(ctx, dish); err != nil {
			return fmt.Errorf("update dish %d: %w", dto.ID, err)
		}

		if err := s.flavors.DeleteByDishIDs(ctx, []uint{dto.ID}); err != nil {
			return fmt.Errorf("delete old flavors of dish %d: %w", dto.ID, err)
		}
		if len(dto.Flavors) > 0 {
			flavors := make([]model.DishFlavor, len(dto.Flavors))
			copy(flavors, dto.Flavors)
			for i := range flavors {
				flavors[i].ID = 0
				flavors[i].DishID = dto.ID
			}
			if err := s.flavors.CreateBatch(ctx, flavors); err != nil {
				return fmt.Errorf("insert dish flavors: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	// 分类可能变更，直接全量失效
	s.invalidateAll(ctx)
	return nil
}

// PageQuery 管理端菜品分页查询。
func (s *DishService) PageQuery(ctx context.Context, f repository.DishPageFilter) (*PageResult, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = 10
	}
	total, list, err := s.dishes.Page(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("page dishes: %w", err)
	}
	return &PageResult{Total: total, Records: list}, nil
}

// DeleteBatch 批量删除菜品。
// 两项校验全部通过后才开始删除：任一菜品起售中 → ErrDishOnSale；
// 任一菜品被套餐引用 → ErrDishInUse。菜品行与口味行同事务删除。
func (s *DishService) DeleteBatch(ctx context.Context, ids []uint) error {
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		for _, id := range ids {
			dish, err := s.dishes.GetByID(ctx, id)
			if err != nil {
				return fmt.Errorf("load dish %d: %w", id, err)
			}
			if dish.Status == model.StatusEnable {
				return ErrDishOnSale
			}
		}

		setmealIDs, err := s.setmealDishes.SetmealIDsByDishIDs(ctx, ids)
		if err != nil {
			return fmt.Errorf("query setmeal references: %w", err)
		}
		if len(setmealIDs) > 0 {
			return ErrDishInUse
		}

		if err := s.dishes.DeleteByIDs(ctx, ids); err != nil {
			return fmt.Errorf("delete dishes: %w", err)
		}
		if err := s.flavors.DeleteByDishIDs(ctx, ids); err != nil {
			return fmt.Errorf("delete dish flavors: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.invalidateAll(ctx)
	return nil
}

// GetByIDWithFlavor 查询菜品及口味。
func (s *DishService) GetByIDWithFlavor(ctx context.Context, id uint) (*DishVO, error) {
	dish, err := s.dishes.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load dish %d: %w", id, err)
	}
	flavors, err := s.flavors.ListByDishID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load flavors of dish %d: %w", id, err)
	}
	return &DishVO{Dish: *dish, Flavors: flavors}, nil
}

// StartOrStop 起售/停售。停售时把包含该菜品的套餐一并停售。
func (s *DishService) StartOrStop(ctx context.Context, status int, id uint) error {
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		dish, err := s.dishes.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("load dish %d: %w", id, err)
		}
		dish.Status = status
		if err := s.dishes.Update(ctx, dish); err != nil {
			return fmt.Errorf("update dish %d: %w", id, err)
		}

		if status == model.StatusDisable {
			setmealIDs, err := s.setmealDishes.SetmealIDsByDishIDs(ctx, []uint{id})
			if err != nil {
				return fmt.Errorf("query setmeal references: %w", err)
			}
			for _, setmealID := range setmealIDs {
				if err := s.setmeals.UpdateStatus(ctx, setmealID, model.StatusDisable); err != nil {
					return fmt.Errorf("disable setmeal %d: %w", setmealID, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.invalidateAll(ctx)
	return nil
}

// List 管理端条件查询。
func (s *DishService) List(ctx context.Context, f repository.DishFilter) ([]model.Dish, error) {
	return s.dishes.List(ctx, f)
}

// ListByCategory 用户端按分类查询起售菜品（含口味），走缓存。
func (s *DishService) ListByCategory(ctx context.Context, categoryID uint) ([]DishVO, error) {
	if s.cache != nil {
		cached, hit, err := s.cache.GetList(ctx, categoryID)
		if err != nil {
			s.log.WithError(err).Warn("dish cache read failed, fallback to store")
		} else if hit {
			return cached, nil
		}
	}

	status := model.StatusEnable
	dishes, err := s.dishes.List(ctx, repository.DishFilter{CategoryID: &categoryID, Status: &status})
	if err != nil {
		return nil, fmt.Errorf("list dishes of category %d: %w", categoryID, err)
	}

	list := make([]DishVO, 0, len(dishes))
	for _, d := range dishes {
		flavors, err := s.flavors.ListByDishID(ctx, d.ID)
		if err != nil {
			return nil, fmt.Errorf("load flavors of dish %d: %w", d.ID, err)
		}
		list = append(list, DishVO{Dish: d, Flavors: flavors})
	}

	if s.cache != nil {
		if err := s.cache.SetList(ctx, categoryID, list); err != nil {
			s.log.WithError(err).Warn("dish cache write failed")
		}
	}
	return list, nil
}

func (s *DishService) invalidate(ctx context.Context, categoryIDs ...uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, categoryIDs...); err != nil {
		s.log.WithError(err).Warn("dish cache invalidate failed")
	}
}

func (s *DishService) invalidateAll(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateAll(ctx); err != nil {
		s.log.WithError(err).Warn("dish cache invalidate failed")
	}
}
