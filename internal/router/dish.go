package router

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ada-zs1125/sky-take-out/internal/model"
	"github.com/ada-zs1125/sky-take-out/internal/repository"
	"github.com/ada-zs1125/sky-take-out/internal/service"
)

// createDish 新增菜品及口味。
func createDish(dishes *service.DishService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var dto service.DishDTO
		if err := c.ShouldBindJSON(&dto); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": 400, "msg": err.Error()})
			return
		}
		if err := dishes.SaveWithFlavor(c.Request.Context(), dto); err != nil {
			fail(c, err)
			return
		}
		ok(c, nil)
	}
}

// updateDish 修改菜品及口味。
func updateDish(dishes *service.DishService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var dto service.DishDTO
		if err := c.ShouldBindJSON(&dto); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": 400, "msg": err.Error()})
			return
		}
		if dto.ID == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"code": 400, "msg": "id 必填"})
			return
		}
		if err := dishes.UpdateWithFlavor(c.Request.Context(), dto); err != nil {
			fail(c, err)
			return
		}
		ok(c, nil)
	}
}

// deleteDishes 批量删除菜品，ids 逗号分隔。
func deleteDishes(dishes *service.DishService) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.Query("ids")
		if raw == "" {
			c.JSON(http.StatusBadRequest, gin.H{"code": 400, "msg": "ids 必填"})
			return
		}
		parts := strings.Split(raw, ",")
		ids := make([]uint, 0, len(parts))
		for _, p := range parts {
			v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 32)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"code": 400, "msg": "ids 无效"})
				return
			}
			ids = append(ids, uint(v))
		}
		if err := dishes.DeleteBatch(c.Request.Context(), ids); err != nil {
			fail(c, err)
			return
		}
		ok(c, nil)
	}
}

// dishPage 管理端菜品分页查询。
func dishPage(dishes *service.DishService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": 400, "msg": "page 无效"})
			return
		}
		pageSize, err := strconv.Atoi(c.DefaultQuery("pageSize", "10"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": 400, "msg": "pageSize 无效"})
			return
		}

		f := repository.DishPageFilter{Page: page, PageSize: pageSize}
		f.Name = c.Query("name")
		if raw := c.Query("categoryId"); raw != "" {
			v, err := strconv.ParseUint(raw, 10, 32)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"code": 400, "msg": "categoryId 无效"})
				return
			}
			categoryID := uint(v)
			f.CategoryID = &categoryID
		}
		if raw := c.Query("status"); raw != "" {
			status, err := strconv.Atoi(raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"code": 400, "msg": "status 无效"})
				return
			}
			f.Status = &status
		}

		result, err := dishes.PageQuery(c.Request.Context(), f)
		if err != nil {
			fail(c, err)
			return
		}
		ok(c, result)
	}
}

// dishDetail 查询菜品及口味。
func dishDetail(dishes *service.DishService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, okk := parseUintParam(c, "id")
		if !okk {
			return
		}
		vo, err := dishes.GetByIDWithFlavor(c.Request.Context(), id)
		if err != nil {
			fail(c, err)
			return
		}
		ok(c, vo)
	}
}

// dishStartOrStop 起售/停售菜品。
func dishStartOrStop(dishes *service.DishService) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, err := strconv.Atoi(c.Param("status"))
		if err != nil || (status != model.StatusEnable && status != model.StatusDisable) {
			c.JSON(http.StatusBadRequest, gin.H{"code": 400, "msg": "status 无效"})
			return
		}
		v, err := strconv.ParseUint(c.Query("id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": 400, "msg": "id 无效"})
			return
		}
		if err := dishes.StartOrStop(c.Request.Context(), status, uint(v)); err != nil {
			fail(c, err)
			return
		}
		ok(c, nil)
	}
}

// adminDishList 管理端条件查询菜品列表。
func adminDishList(dishes *service.DishService) gin.HandlerFunc {
	return func(c *gin.Context) {
		f := repository.DishFilter{Name: c.Query("name")}
		if raw := c.Query("categoryId"); raw != "" {
			v, err := strconv.ParseUint(raw, 10, 32)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"code": 400, "msg": "categoryId 无效"})
				return
			}
			categoryID := uint(v)
			f.CategoryID = &categoryID
		}
		list, err := dishes.List(c.Request.Context(), f)
		if err != nil {
			fail(c, err)
			return
		}
		ok(c, list)
	}
}

// userDishList 用户端按分类查询起售菜品（含口味），走缓存。
func userDishList(dishes *service.DishService) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, err := strconv.ParseUint(c.Query("categoryId"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": 400, "msg": "categoryId 无效"})
			return
		}
		list, err := dishes.ListByCategory(c.Request.Context(), uint(v))
		if err != nil {
			fail(c, err)
			return
		}
		ok(c, list)
	}
}
