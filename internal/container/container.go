package container

import (
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-ports-adapters/config"
	"github.com/oksasatya/go-ddd-ports-adapters/internal/infrastructure/metrics"
	"github.com/oksasatya/go-ddd-ports-adapters/pkg/helpers"
)

// app-level container to share constructed components across packages
// Router auto-wires modules from these singletons. Optional ones stay nil when disabled.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	redisClient *redis.Client
	rabbitPub   *helpers.RabbitPublisher
	esClient    *elasticsearch.Client

	serviceTokens *helpers.ServiceTokenManager

	appMetrics *metrics.Metrics
	gatherer   prometheus.Gatherer
)

func SetConfig(c *config.Config) { cfg = c }
func GetConfig() *config.Config {
	if cfg == nil {
		cfg = config.Load()
	}
	return cfg
}
func SetLogger(l *logrus.Logger) { logger = l }
func GetLogger() *logrus.Logger {
	if logger == nil {
		return logrus.StandardLogger()
	}
	return logger
}
func SetPGPool(p *pgxpool.Pool)               { pgPool = p }
func GetPGPool() *pgxpool.Pool                { return pgPool }
func SetRedis(r *redis.Client)                { redisClient = r }
func GetRedis() *redis.Client                 { return redisClient }
func SetRabbitPub(p *helpers.RabbitPublisher) { rabbitPub = p }
func GetRabbitPub() *helpers.RabbitPublisher  { return rabbitPub }
func SetES(c *elasticsearch.Client)           { esClient = c }
func GetES() *elasticsearch.Client            { return esClient }

func SetServiceTokens(m *helpers.ServiceTokenManager) { serviceTokens = m }
func GetServiceTokens() *helpers.ServiceTokenManager  { return serviceTokens }

// SetMetrics stores the collectors together with the gatherer /metrics serves them from.
func SetMetrics(m *metrics.Metrics, g prometheus.Gatherer) {
	appMetrics = m
	gatherer = g
}
func GetMetrics() *metrics.Metrics     { return appMetrics }
func GetGatherer() prometheus.Gatherer { return gatherer }

// Reset clears every singleton.
func Reset() {
	cfg, logger, pgPool, redisClient, rabbitPub, esClient = nil, nil, nil, nil, nil, nil
	serviceTokens, appMetrics, gatherer = nil, nil, nil
}
