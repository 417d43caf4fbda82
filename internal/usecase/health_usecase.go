package usecase

import (
	"context"
	"time"

	"portfolio-backend/pkg/database"
	redisPkg "portfolio-backend/pkg/redis"

	"github.com/jackc/pgx/v5/pgxpool"
)

type HealthUsecase interface {
	// Check reports each dependency as "ok" or "down". ok is false when any is down.
	Check(ctx context.Context) (status map[string]string, ok bool)
}

type healthUsecase struct {
	db       *pgxpool.Pool
	useRedis bool
}

func NewHealthUsecase(db *pgxpool.Pool, useRedis bool) HealthUsecase {
	return &healthUsecase{db: db, useRedis: useRedis}
}

func (u *healthUsecase) Check(ctx context.Context) (map[string]string, bool) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	status := map[string]string{"status": "ok", "database": "ok"}
	ok := true

	if u.db == nil || database.HealthCheck(ctx, u.db) != nil {
		status["database"] = "down"
		ok = false
	}
	if u.useRedis {
		status["redis"] = "ok"
		if err := redisPkg.HealthCheck(ctx); err != nil {
			status["redis"] = "down"
			ok = false
		}
	}
	if !ok {
		status["status"] = "degraded"
	}
	return status, ok
}
