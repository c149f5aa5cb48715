package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ada-zs1125/sky-take-out/internal/model"
	"github.com/ada-zs1125/sky-take-out/internal/repository"
	"github.com/ada-zs1125/sky-take-out/internal/service"
)

// addCartItem 添加购物车：菜品或套餐二选一。
func addCartItem(carts *service.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, okk := currentUser(c)
		if !okk {
			return
		}
		var dto service.CartItemDTO
		if err := c.ShouldBindJSON(&dto); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": 400, "msg": err.Error()})
			return
		}
		if err := carts.Add(c.Request.Context(), userID, dto); err != nil {
			fail(c, err)
			return
		}
		ok(c, nil)
	}
}

// listCart 查询购物车。
func listCart(carts *service.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, okk := currentUser(c)
		if !okk {
			return
		}
		items, err := carts.List(c.Request.Context(), userID)
		if err != nil {
			fail(c, err)
			return
		}
		ok(c, items)
	}
}

// cleanCart 清空购物车。
func cleanCart(carts *service.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, okk := currentUser(c)
		if !okk {
			return
		}
		if err := carts.Clean(c.Request.Context(), userID); err != nil {
			fail(c, err)
			return
		}
		ok(c, nil)
	}
}

// createAddress 新增收货地址。
func createAddress(addresses repository.AddressBookRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, okk := currentUser(c)
		if !okk {
			return
		}
		var req struct {
			Consignee string `json:"consignee" binding:"required"`
			Phone     string `json:"phone" binding:"required"`
			Detail    string `json:"detail" binding:"required"`
			Label     string `json:"label"`
			IsDefault bool   `json:"is_default"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": 400, "msg": err.Error()})
			return
		}
		addr := &model.AddressBook{
			UserID:    userID,
			Consignee: req.Consignee,
			Phone:     req.Phone,
			Detail:    req.Detail,
			Label:     req.Label,
			IsDefault: req.IsDefault,
		}
		if err := addresses.Create(c.Request.Context(), addr); err != nil {
			fail(c, err)
			return
		}
		ok(c, addr)
	}
}

// listAddresses 查询当前用户的地址簿。
func listAddresses(addresses repository.AddressBookRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, okk := currentUser(c)
		if !okk {
			return
		}
		list, err := addresses.ListByUserID(c.Request.Context(), userID)
		if err != nil {
			fail(c, err)
			return
		}
		ok(c, list)
	}
}
