package router

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ada-zs1125/sky-take-out/internal/repository"
	"github.com/ada-zs1125/sky-take-out/internal/service"
)

// submitOrder 用户下单。
func submitOrder(orders *service.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, okk := currentUser(c)
		if !okk {
			return
		}
		var dto service.OrderSubmitDTO
		if err := c.ShouldBindJSON(&dto); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": 400, "msg": err.Error()})
			return
		}
		vo, err := orders.Submit(c.Request.Context(), userID, dto)
		if err != nil {
			fail(c, err)
			return
		}
		ok(c, vo)
	}
}

// historyOrders 用户端历史订单分页查询，status 可选。
func historyOrders(orders *service.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, okk := currentUser(c)
		if !okk {
			return
		}
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

		f := repository.OrderPageFilter{UserID: userID, Page: page, PageSize: pageSize}
		if raw := c.Query("status"); raw != "" {
			status, err := strconv.Atoi(raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"code": 400, "msg": "status 无效"})
				return
			}
			f.Status = &status
		}

		result, err := orders.PageQuery(c.Request.Context(), f)
		if err != nil {
			fail(c, err)
			return
		}
		ok(c, result)
	}
}

// orderDetail 查询订单详情。
func orderDetail(orders *service.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, okk := parseUintParam(c, "id")
		if !okk {
			return
		}
		vo, err := orders.Detail(c.Request.Context(), id)
		if err != nil {
			fail(c, err)
			return
		}
		ok(c, vo)
	}
}

// cancelOrder 用户取消订单。
func cancelOrder(orders *service.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, okk := currentUser(c)
		if !okk {
			return
		}
		id, okk := parseUintParam(c, "id")
		if !okk {
			return
		}
		if err := orders.Cancel(c.Request.Context(), userID, id); err != nil {
			fail(c, err)
			return
		}
		ok(c, nil)
	}
}

// repeatOrder 再来一单。
func repeatOrder(orders *service.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, okk := currentUser(c)
		if !okk {
			return
		}
		id, okk := parseUintParam(c, "id")
		if !okk {
			return
		}
		if err := orders.Repeat(c.Request.Context(), userID, id); err != nil {
			fail(c, err)
			return
		}
		ok(c, nil)
	}
}
