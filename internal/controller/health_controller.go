package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type IHealthController interface {
	RegisterRoutes(app *fiber.App)
	Health(ctx *fiber.Ctx) error
}

type healthController struct {
	db  *gorm.DB
	rdb *redis.Client
}

func NewHealthController(db *gorm.DB, rdb *redis.Client) IHealthController {
	return &healthController{
		db:  db,
		rdb: rdb,
	}
}

func (c *healthController) RegisterRoutes(app *fiber.App) {
	app.Get("/health", c.Health)
}

func (c *healthController) Health(ctx *fiber.Ctx) error {
	vectorStoreOk := false
	if sqlDB, err := c.db.DB(); err == nil {
		vectorStoreOk = sqlDB.PingContext(ctx.Context()) == nil
	}

	cacheStoreOk := false
	if c.rdb != nil {
		cacheStoreOk = c.rdb.Ping(ctx.Context()).Err() == nil
	}

	status := "ok"
	code := fiber.StatusOK
	if !vectorStoreOk || !cacheStoreOk {
		status = "degraded"
		code = fiber.StatusInternalServerError
	}

	return ctx.Status(code).JSON(fiber.Map{
		"status":    status,
		"timestamp": time.Now().UTC(),
		"services": fiber.Map{
			"vectorStoreOk": vectorStoreOk,
			"cacheStoreOk":  cacheStoreOk,
		},
	})
}
