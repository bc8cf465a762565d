package di

import (
	"context"
	"fmt"
	"time"

	"CryptoDash/internal/domain/repository"
	dservice "CryptoDash/internal/domain/service"
	"CryptoDash/internal/handler/api"
	internalrepo "CryptoDash/internal/repository"
	"CryptoDash/internal/service/password"
	"CryptoDash/internal/service/token"
	"CryptoDash/internal/services/fallback"
	"CryptoDash/internal/services/insight"
	"CryptoDash/internal/services/market"
	"CryptoDash/internal/services/meme"
	"CryptoDash/internal/usecase"
	"CryptoDash/pkg/cache"
	pkgch "CryptoDash/pkg/clickhouse"
	"CryptoDash/pkg/config"
	pkgkafka "CryptoDash/pkg/kafka"
	applogger "CryptoDash/pkg/logger"
	"CryptoDash/pkg/metrics"
	"CryptoDash/pkg/postgres"
	"CryptoDash/pkg/server"
)

// ProvideLogger builds the application logger from the log section.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(applogger.String("env", cfg.Environment)), nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvidePostgres opens the pool and applies the schema when auto_migrate is on.
func ProvidePostgres(cfg *config.Config, l *applogger.Logger) (*postgres.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	client, err := postgres.NewClient(ctx,
		postgres.WithURL(cfg.Database.URL),
		postgres.WithPoolSize(cfg.Database.MaxConns, cfg.Database.MinConns),
		postgres.WithConnectTimeout(cfg.Database.ConnectTimeout),
		postgres.WithConnLifetime(cfg.Database.MaxConnLifetime, 0),
	)
	if err != nil {
		return nil, fmt.Errorf("postgres client: %w", err)
	}
	if cfg.Database.AutoMigrate {
		if err := client.InitSchema(ctx, internalrepo.PostgresSchema); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("postgres schema: %w", err)
		}
		l.Info("postgres schema ready")
	}
	return client, nil
}

func ProvideUserRepository(pg *postgres.Client) repository.UserRepository {
	return internalrepo.NewPGUserRepository(pg.Pool())
}

func ProvidePreferencesRepository(pg *postgres.Client) repository.PreferencesRepository {
	return internalrepo.NewPGPreferencesRepository(pg.Pool())
}

func ProvideFeedbackRepository(pg *postgres.Client) repository.FeedbackRepository {
	return internalrepo.NewPGFeedbackRepository(pg.Pool())
}

// ProvideCache selects the response cache backend (memory, redis or layered).
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	if cfg.Cache.Backend == "memory" {
		return cache.NewMemoryCache(cache.WithMemoryMaxSize(cfg.Cache.MemoryMaxSize)), nil
	}

	rc, err := cache.NewRedisCache(
		cache.WithRedisAddr(cfg.Cache.Redis.Addr),
		cache.WithRedisPassword(cfg.Cache.Redis.Password),
		cache.WithRedisDB(cfg.Cache.Redis.DB),
		cache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	if cfg.Cache.Backend == "layered" {
		return cache.NewLayeredCache(rc,
			cache.WithLayeredMemorySize(cfg.Cache.MemoryMaxSize),
			cache.WithLayeredMemoryTTL(cfg.Cache.PriceTTL/2),
		), nil
	}
	return rc, nil
}

func ProvidePriceProvider(cfg *config.Config, c cache.Service, m repository.Metrics, l *applogger.Logger) dservice.PriceProvider {
	return market.NewCachedPrices(market.NewCoinGecko(cfg), c, cfg.Cache.PriceTTL, cfg.Providers.Price.Timeout, m, l)
}

func ProvideNewsProvider(cfg *config.Config, c cache.Service, m repository.Metrics, l *applogger.Logger) dservice.NewsProvider {
	return market.NewCachedNews(market.NewCryptoPanic(cfg), c, cfg.Cache.NewsTTL, cfg.Providers.News.Timeout, m, l)
}

func ProvideInsightProvider(cfg *config.Config, l *applogger.Logger) dservice.InsightProvider {
	return insight.NewOpenAI(cfg, l)
}

func ProvideMemeCatalog(cfg *config.Config) *meme.Catalog {
	return meme.NewCatalog(cfg)
}

func ProvideTokenIssuer(cfg *config.Config) dservice.TokenIssuer {
	return token.NewHMACService(cfg)
}

func ProvidePasswordHasher(cfg *config.Config) dservice.PasswordHasher {
	return password.NewBcrypt(cfg)
}

// ProvideKafkaProducer returns nil when kafka is disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatching(cfg.Kafka.Producer.BatchSize, cfg.Kafka.Producer.Linger),
		pkgkafka.WithWriteTimeout(cfg.Kafka.Producer.WriteTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideFeedbackPublisher returns a nil interface (not a typed nil) when
// kafka is disabled, so the use case skips publishing.
func ProvideFeedbackPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.FeedbackPublisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaFeedbackPublisher(producer, cfg.Kafka.Topic)
}

// ProvideClickHouseClient returns nil when the analytics store is disabled.
func ProvideClickHouseClient(cfg *config.Config, l *applogger.Logger) (*pkgch.Client, error) {
	if !cfg.ClickHouse.Enabled {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := pkgch.NewClient(ctx,
		pkgch.WithAddress(cfg.ClickHouse.Host, cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	if err := client.InitSchema(ctx, internalrepo.ClickHouseSchema); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	l.Info("clickhouse schema ready", applogger.String("database", cfg.ClickHouse.Database))
	return client, nil
}

// ProvideFeedbackEventsHandler is nil unless both kafka and clickhouse are on.
func ProvideFeedbackEventsHandler(ch *pkgch.Client, cfg *config.Config, m repository.Metrics) *usecase.FeedbackEventsHandler {
	if ch == nil || !cfg.Kafka.Enabled {
		return nil
	}
	return usecase.NewFeedbackEventsHandler(cfg.Kafka.Topic, internalrepo.NewCHFeedbackSink(ch.DB(), ""), m)
}

// ProvideKafkaConsumer creates the analytics consumer, or nil when there is
// nothing to consume into.
func ProvideKafkaConsumer(cfg *config.Config, h *usecase.FeedbackEventsHandler, l *applogger.Logger) (*pkgkafka.Consumer, error) {
	if h == nil {
		return nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(l,
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	consumer.RegisterHandler(h)
	return consumer, nil
}

func ProvidePreferenceResolver(prefs repository.PreferencesRepository, l *applogger.Logger) *usecase.PreferenceResolver {
	return usecase.NewPreferenceResolver(prefs, l)
}

func ProvideProviderAdapters(
	cfg *config.Config,
	prices dservice.PriceProvider,
	news dservice.NewsProvider,
	ins dservice.InsightProvider,
	memes *meme.Catalog,
	m repository.Metrics,
	l *applogger.Logger,
) *usecase.ProviderAdapters {
	return usecase.NewProviderAdapters(cfg, prices, news, ins, memes,
		fallback.NewNewsGenerator(), fallback.NewInsightGenerator(), m, l)
}

func ProvideDashboardUseCase(users repository.UserRepository, resolver *usecase.PreferenceResolver, adapters *usecase.ProviderAdapters, m repository.Metrics, l *applogger.Logger) *usecase.DashboardUseCase {
	return usecase.NewDashboardUseCase(users, resolver, adapters, m, l)
}

func ProvideAuthUseCase(users repository.UserRepository, hasher dservice.PasswordHasher, tokens dservice.TokenIssuer, l *applogger.Logger) *usecase.AuthUseCase {
	return usecase.NewAuthUseCase(users, hasher, tokens, l)
}

func ProvidePreferencesUseCase(prefs repository.PreferencesRepository) *usecase.PreferencesUseCase {
	return usecase.NewPreferencesUseCase(prefs)
}

func ProvideFeedbackUseCase(repo repository.FeedbackRepository, pub repository.FeedbackPublisher, m repository.Metrics, l *applogger.Logger) *usecase.FeedbackUseCase {
	return usecase.NewFeedbackUseCase(repo, pub, m, l)
}

// ProvideRouter builds all handlers. Postgres is required for health; the
// cache and the analytics store only degrade it.
func ProvideRouter(
	cfg *config.Config,
	l *applogger.Logger,
	tokens dservice.TokenIssuer,
	pg *postgres.Client,
	c cache.Service,
	ch *pkgch.Client,
	memes *meme.Catalog,
	resolver *usecase.PreferenceResolver,
	auth *usecase.AuthUseCase,
	prefs *usecase.PreferencesUseCase,
	dashboard *usecase.DashboardUseCase,
	feedback *usecase.FeedbackUseCase,
) *api.Router {
	required := map[string]api.HealthChecker{"postgres": pg}
	optional := map[string]api.HealthChecker{}
	if pc, ok := c.(api.HealthChecker); ok {
		optional["cache"] = pc
	}
	if ch != nil {
		optional["clickhouse"] = ch
	}

	cookie := api.CookieConfig{Name: cfg.Auth.CookieName, Secure: cfg.Auth.CookieSecure}
	return api.NewRouter(tokens, cookie,
		api.StaticConfig{PublicPath: cfg.Providers.Meme.PublicPath, Dir: cfg.Providers.Meme.StaticDir},
		api.NewHealthHandler(required, optional),
		api.NewAuthHandler(l, auth, cookie),
		api.NewPreferencesHandler(l, prefs),
		api.NewDashboardHandler(l, dashboard, cfg.Dashboard.StreamInterval, cfg.Server.CORSOrigins),
		api.NewFeedbackHandler(l, feedback),
		api.NewMemeHandler(memes, resolver),
	)
}

// ProvideApp creates the application server and hands it every resource
// that must be closed on shutdown.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	router *api.Router,
	consumer *pkgkafka.Consumer,
	pg *postgres.Client,
	c cache.Service,
	ch *pkgch.Client,
	pub repository.FeedbackPublisher,
) *server.App {
	closers := []server.Closer{
		{Name: "postgres", Close: pg.Close},
		{Name: "cache", Close: c.Close},
	}
	if pub != nil {
		closers = append(closers, server.Closer{Name: "kafka producer", Close: pub.Close})
	}
	if ch != nil {
		closers = append(closers, server.Closer{Name: "clickhouse", Close: ch.Close})
	}
	return server.New(cfg, l, router, consumer, closers...)
}
