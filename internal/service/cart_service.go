package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ada-zs1125/sky-take-out/internal/model"
	"github.com/ada-zs1125/sky-take-out/internal/repository"
)

// ErrCartItemInvalid 添加购物车必须且只能指定菜品或套餐其中之一。
var ErrCartItemInvalid = errors.New("cart item must reference exactly one of dish or setmeal")

// CartService 购物车：添加（同条目合并数量）、列表、整批清空。
type CartService struct {
	carts    repository.ShoppingCartRepository
	dishes   repository.DishRepository
	setmeals repository.SetmealRepository
	log      *logrus.Logger
}

func NewCartService(
	carts repository.ShoppingCartRepository,
	dishes repository.DishRepository,
	setmeals repository.SetmealRepository,
	log *logrus.Logger,
) *CartService {
	return &CartService{carts: carts, dishes: dishes, setmeals: setmeals, log: log}
}

// Add 添加一件商品。同用户同菜品/套餐同口味已在购物车时数量 +1，否则新建条目。
func (s *CartService) Add(ctx context.Context, userID int64, dto CartItemDTO) error {
	if (dto.DishID == nil) == (dto.SetmealID == nil) {
		return ErrCartItemInvalid
	}

	existing, err := s.carts.List(ctx, repository.CartFilter{
		UserID:     userID,
		DishID:     dto.DishID,
		SetmealID:  dto.SetmealID,
		DishFlavor: &dto.DishFlavor,
	})
	if err != nil {
		return fmt.Errorf("query shopping cart: %w", err)
	}
	if len(existing) > 0 {
		item := existing[0]
		item.Number++
		if err := s.carts.Update(ctx, &item); err != nil {
			return fmt.Errorf("update cart item %d: %w", item.ID, err)
		}
		return nil
	}

	item := model.ShoppingCart{
		UserID:     userID,
		DishID:     dto.DishID,
		SetmealID:  dto.SetmealID,
		DishFlavor: dto.DishFlavor,
		Number:     1,
	}
	if dto.DishID != nil {
		dish, err := s.dishes.GetByID(ctx, *dto.DishID)
		if err != nil {
			return fmt.Errorf("load dish %d: %w", *dto.DishID, err)
		}
		item.Name = dish.Name
		item.Image = dish.Image
		item.Amount = dish.Price
	} else {
		setmeal, err := s.setmeals.GetByID(ctx, *dto.SetmealID)
		if err != nil {
			return fmt.Errorf("load setmeal %d: %w", *dto.SetmealID, err)
		}
		item.Name = setmeal.Name
		item.Image = setmeal.Image
		item.Amount = setmeal.Price
	}

	if err := s.carts.Create(ctx, &item); err != nil {
		return fmt.Errorf("insert cart item: %w", err)
	}
	return nil
}

// List 查询当前用户购物车。
func (s *CartService) List(ctx context.Context, userID int64) ([]model.ShoppingCart, error) {
	return s.carts.List(ctx, repository.CartFilter{UserID: userID})
}

// Clean 整批清空当前用户购物车。
func (s *CartService) Clean(ctx context.Context, userID int64) error {
	return s.carts.DeleteByUserID(ctx, userID)
}
