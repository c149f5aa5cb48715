package main

import (
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	rd "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ada-zs1125/sky-take-out/internal/config"
	"github.com/ada-zs1125/sky-take-out/internal/model"
	"github.com/ada-zs1125/sky-take-out/internal/payment"
	"github.com/ada-zs1125/sky-take-out/internal/queue"
	"github.com/ada-zs1125/sky-take-out/internal/repository"
	"github.com/ada-zs1125/sky-take-out/internal/router"
	"github.com/ada-zs1125/sky-take-out/internal/service"
	rediscache "github.com/ada-zs1125/sky-take-out/pkg/redis"
	"github.com/ada-zs1125/sky-take-out/pkg/storage"
)

func main() {
	// .env 存在则加载，缺失不报错
	_ = godotenv.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	db, err := gorm.Open(sqlite.Open(cfg.DBPath), &gorm.Config{})
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	if err := db.AutoMigrate(
		&model.Order{},
		&model.OrderDetail{},
		&model.ShoppingCart{},
		&model.AddressBook{},
		&model.Dish{},
		&model.DishFlavor{},
		&model.Setmeal{},
		&model.SetmealDish{},
	); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	rdb := rd.NewClient(&rd.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})

	// Kafka 未配置时订单事件降级为不发
	var events service.OrderEventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		producer := queue.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer producer.Close()
		events = producer
	}

	uploader, err := storage.NewLocalUploader(cfg.UploadDir, cfg.UploadBaseURL)
	if err != nil {
		log.Fatalf("init uploader: %v", err)
	}

	tx := repository.NewGormTx(db)
	orders := repository.NewGormOrders(db)
	details := repository.NewGormOrderDetails(db)
	carts := repository.NewGormCarts(db)
	addresses := repository.NewGormAddressBooks(db)
	dishes := repository.NewGormDishes(db)
	flavors := repository.NewGormDishFlavors(db)
	setmeals := repository.NewGormSetmeals(db)
	setmealDishes := repository.NewGormSetmealDishes(db)

	orderSvc := service.NewOrderService(orders, details, carts, addresses, tx,
		payment.NewNoopGateway(log), events, log)
	dishSvc := service.NewDishService(dishes, flavors, setmeals, setmealDishes, tx,
		rediscache.NewDishCache(rdb, cfg.DishCacheTTL), log)
	cartSvc := service.NewCartService(carts, dishes, setmeals, log)

	r := gin.Default()
	r.Static("/uploads", cfg.UploadDir)
	router.Setup(r, router.Deps{
		Orders:    orderSvc,
		Dishes:    dishSvc,
		Carts:     cartSvc,
		Addresses: addresses,
		Uploader:  uploader,
		RDB:       rdb,
		Cfg:       cfg,
	})

	log.WithField("addr", cfg.HTTPAddr).Info("http server starting")
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatalf("server: %v", err)
	}
}
