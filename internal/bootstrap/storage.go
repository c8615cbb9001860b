package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	goredis "github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/m04kA/SMC-VenueSlots/internal/config"
	"github.com/m04kA/SMC-VenueSlots/internal/infra/storage/venueslots"
	"github.com/m04kA/SMC-VenueSlots/internal/infra/storage/venueslots/memory"
	mongoRepo "github.com/m04kA/SMC-VenueSlots/internal/infra/storage/venueslots/mongo"
	postgresRepo "github.com/m04kA/SMC-VenueSlots/internal/infra/storage/venueslots/postgres"
	redisRepo "github.com/m04kA/SMC-VenueSlots/internal/infra/storage/venueslots/redis"
	"github.com/m04kA/SMC-VenueSlots/pkg/dbmetrics"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Storage открытое хранилище агрегатов и функция освобождения ресурсов
type Storage struct {
	Repository venueslots.Repository
	Driver     string
	close      func() error
}

// Close освобождает соединения хранилища
func (s *Storage) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// Options дополнительные параметры открытия хранилища
type Options struct {
	// Recorder включает метрики запросов PostgreSQL; nil отключает
	Recorder dbmetrics.Recorder
	// StopMetrics останавливает сбор статистики пула соединений
	StopMetrics <-chan struct{}
	// EnsureSchema создает таблицу PostgreSQL при старте
	EnsureSchema bool
}

// OpenStorage подключается к хранилищу, выбранному в [storage] driver,
// и проверяет соединение
func OpenStorage(ctx context.Context, cfg *config.Config, opts Options, log Logger) (*Storage, error) {
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		log.Warn("Storage: using in-memory store, data is lost on restart")
		return &Storage{Repository: memory.NewRepository(), Driver: config.StorageMemory}, nil

	case config.StoragePostgres:
		return openPostgres(ctx, cfg.Database, opts, log)

	case config.StorageRedis:
		return openRedis(ctx, cfg.Redis, log)

	case config.StorageMongo:
		return openMongo(ctx, cfg.Mongo, log)

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func openPostgres(ctx context.Context, cfg config.DatabaseConfig, opts Options, log Logger) (*Storage, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	log.Info("Storage: connected to postgres (host=%s, port=%d, db=%s)", cfg.Host, cfg.Port, cfg.DBName)

	var repo *postgresRepo.Repository
	if opts.Recorder != nil {
		stopCh := opts.StopMetrics
		if stopCh == nil {
			stopCh = make(chan struct{})
		}
		repo = postgresRepo.NewRepository(dbmetrics.WrapWithDefault(db, opts.Recorder, stopCh))
		log.Info("Storage: database metrics collection started")
	} else {
		repo = postgresRepo.NewRepository(db)
	}

	if opts.EnsureSchema {
		if err := repo.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, err
		}
		log.Info("Storage: schema ensured")
	}

	return &Storage{Repository: repo, Driver: config.StoragePostgres, close: db.Close}, nil
}

func openRedis(ctx context.Context, cfg config.RedisConfig, log Logger) (*Storage, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	log.Info("Storage: connected to redis (addr=%s, db=%d, prefix=%s)", cfg.Addr, cfg.DB, cfg.KeyPrefix)

	return &Storage{
		Repository: redisRepo.NewRepository(client, cfg.KeyPrefix),
		Driver:     config.StorageRedis,
		close:      client.Close,
	}, nil
}

func openMongo(ctx context.Context, cfg config.MongoConfig, log Logger) (*Storage, error) {
	timeout := time.Duration(cfg.Timeout) * time.Second
	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI).SetTimeout(timeout))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}
	log.Info("Storage: connected to mongo (db=%s)", cfg.Database)

	return &Storage{
		Repository: mongoRepo.NewRepository(client.Database(cfg.Database)),
		Driver:     config.StorageMongo,
		close: func() error {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			return client.Disconnect(ctx)
		},
	}, nil
}
