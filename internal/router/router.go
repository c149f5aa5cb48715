package router

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	rd "github.com/redis/go-redis/v9"

	"github.com/ada-zs1125/sky-take-out/internal/config"
	"github.com/ada-zs1125/sky-take-out/internal/middleware"
	"github.com/ada-zs1125/sky-take-out/internal/repository"
	"github.com/ada-zs1125/sky-take-out/internal/service"
	"github.com/ada-zs1125/sky-take-out/pkg/storage"
)

// Deps 路由依赖。RDB 为 nil 时不启用下单限流。
type Deps struct {
	Orders    *service.OrderService
	Dishes    *service.DishService
	Carts     *service.CartService
	Addresses repository.AddressBookRepository
	Uploader  storage.Uploader
	RDB       *rd.Client
	Cfg       config.AppConfig
}

// Setup 注册全部 HTTP 路由。
func Setup(r *gin.Engine, d Deps) {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"msg": "pong"})
	})

	secret := []byte(d.Cfg.JWTSecret)

	// 用户端
	user := r.Group("/user", middleware.JWTAuth(secret))
	{
		submit := []gin.HandlerFunc{}
		if d.RDB != nil {
			submit = append(submit, middleware.RedisRateLimit(d.RDB, d.Cfg.SubmitRateLimit, d.Cfg.SubmitRateWindow))
		}
		submit = append(submit, submitOrder(d.Orders))
		user.POST("/order/submit", submit...)
		user.GET("/order/historyOrders", historyOrders(d.Orders))
		user.GET("/order/orderDetail/:id", orderDetail(d.Orders))
		user.PUT("/order/cancel/:id", cancelOrder(d.Orders))
		user.POST("/order/repetition/:id", repeatOrder(d.Orders))

		user.POST("/shoppingCart/add", addCartItem(d.Carts))
		user.GET("/shoppingCart/list", listCart(d.Carts))
		user.DELETE("/shoppingCart/clean", cleanCart(d.Carts))

		user.POST("/addressBook", createAddress(d.Addresses))
		user.GET("/addressBook/list", listAddresses(d.Addresses))

		user.GET("/dish/list", userDishList(d.Dishes))
	}

	// 管理端
	admin := r.Group("/admin", middleware.JWTAuth(secret))
	{
		admin.POST("/common/upload", upload(d.Uploader))

		admin.POST("/dish", createDish(d.Dishes))
		admin.PUT("/dish", updateDish(d.Dishes))
		admin.DELETE("/dish", deleteDishes(d.Dishes))
		admin.GET("/dish/page", dishPage(d.Dishes))
		admin.GET("/dish/detail/:id", dishDetail(d.Dishes))
		admin.POST("/dish/status/:status", dishStartOrStop(d.Dishes))
		admin.GET("/dish/list", adminDishList(d.Dishes))
	}
}

// ok 统一成功响应。
func ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"code": 0, "data": data})
}

// fail 把业务错误翻译成响应；未知错误一律 500。
func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAddressNotFound):
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "msg": "收货地址不存在，不能下单"})
	case errors.Is(err, service.ErrCartEmpty):
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "msg": "购物车为空，不能下单"})
	case errors.Is(err, service.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"code": 404, "msg": "订单不存在"})
	case errors.Is(err, service.ErrInvalidOrderState):
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "msg": "订单状态错误"})
	case errors.Is(err, service.ErrDishOnSale):
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "msg": "起售中的菜品不能删除"})
	case errors.Is(err, service.ErrDishInUse):
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "msg": "当前菜品关联了套餐，不能删除"})
	case errors.Is(err, service.ErrCartItemInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "msg": "必须指定菜品或套餐其中之一"})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"code": 404, "msg": "记录不存在"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "msg": err.Error()})
	}
}

// currentUser 取当前用户 id，取不到直接 401。
func currentUser(c *gin.Context) (int64, bool) {
	userID, okk := middleware.CurrentUserID(c)
	if !okk {
		c.JSON(http.StatusUnauthorized, gin.H{"code": 401, "msg": "未登录"})
		return 0, false
	}
	return userID, true
}

func parseUintParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "msg": name + " 无效"})
		return 0, false
	}
	return uint(v), true
}
