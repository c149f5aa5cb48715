package redis

import "fmt"

// DishListKey 按分类缓存用户端菜品列表的键名。
func DishListKey(categoryID uint) string {
	return fmt.Sprintf("sky:dish:list:%d", categoryID)
}

// DishListPattern 全量失效时的匹配模式。
func DishListPattern() string {
	return "sky:dish:list:*"
}

// SubmitRateLimitKey 下单接口限流键，按用户维度。
func SubmitRateLimitKey(userID int64) string {
	return fmt.Sprintf("sky:rate_limit:order_submit:user:%d", userID)
}

// SubmitRateLimitIPKey 无法取到用户时按 IP 降级限流。
func SubmitRateLimitIPKey(ip string) string {
	return fmt.Sprintf("sky:rate_limit:order_submit:ip:%s", ip)
}
