package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"storefront/internal/domain/currency"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（8080）

	DatabaseURL      string // あれば最優先
	PostgresUser     string // DBユーザー
	PostgresPassword string // DBパスワード
	PostgresDB       string // DB名
	PostgresHost     string // DBホスト（localhost）
	PostgresPort     int    // DBポート（5432）
	PostgresSSLMode  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	SessionSecret string        // セッションcookieの署名
	SessionTTL    time.Duration // 既定は2週間
	CookieSecure  bool

	// Stripe（通貨ごとにアカウントを分けられる）
	StripeSecretKey  string
	StripePublicKey  string
	StripeSecretKeys map[currency.Code]string
	StripePublicKeys map[currency.Code]string
	StripeAPIURL     string        // stripe-mockなど。空ならapi.stripe.com
	PaymentTimeout   time.Duration // 決済APIのHTTPタイムアウト

	PublicBaseURL string // success/cancel URLの組み立てに使う。空ならリクエストから

	KafkaBrokers    []string
	KafkaOrderTopic string

	GoEnv string // dev/prod
}

func (c Config) IsProd() bool {
	return c.GoEnv == "prod"
}

// Loadは環境変数
func Load() (Config, error) {
	pgPort, err := atoiDefault("POSTGRES_PORT", 5432)
	if err != nil {
		return Config{}, err
	}
	redisDB, err := atoiDefault("REDIS_DB", 0)
	if err != nil {
		return Config{}, err
	}
	sessionTTL, err := durationDefault("SESSION_TTL", 14*24*time.Hour)
	if err != nil {
		return Config{}, err
	}
	paymentTimeout, err := durationDefault("PAYMENT_TIMEOUT", 30*time.Second)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port: getenv("PORT", "8080"),

		DatabaseURL:      os.Getenv("DATABASE_URL"),
		PostgresUser:     getenv("POSTGRES_USER", "postgres"),
		PostgresPassword: getenv("POSTGRES_PASSWORD", "postgres"),
		PostgresDB:       getenv("POSTGRES_DB", "storefront"),
		PostgresHost:     getenv("POSTGRES_HOST", "localhost"),
		PostgresPort:     pgPort,
		PostgresSSLMode:  getenv("POSTGRES_SSLMODE", "disable"),

		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,

		SessionSecret: os.Getenv("SESSION_SECRET"),
		SessionTTL:    sessionTTL,
		CookieSecure:  envBool("COOKIE_SECURE", true),

		StripeSecretKey:  os.Getenv("STRIPE_SECRET_KEY"),
		StripePublicKey:  os.Getenv("STRIPE_PUBLIC_KEY"),
		StripeSecretKeys: perCurrency("STRIPE_SECRET_KEY"),
		StripePublicKeys: perCurrency("STRIPE_PUBLIC_KEY"),
		StripeAPIURL:     os.Getenv("STRIPE_API_URL"),
		PaymentTimeout:   paymentTimeout,
		PublicBaseURL:    strings.TrimRight(os.Getenv("PUBLIC_BASE_URL"), "/"),
		KafkaBrokers:     splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaOrderTopic:  getenv("KAFKA_ORDER_TOPIC", "orders.created"),
		GoEnv:            getenv("GO_ENV", "dev"),
	}

	//必須チェック
	if cfg.SessionSecret == "" {
		return Config{}, fmt.Errorf("SESSION_SECRET is required")
	}
	if cfg.StripeSecretKey == "" {
		return Config{}, fmt.Errorf("STRIPE_SECRET_KEY is required")
	}
	if cfg.StripePublicKey == "" {
		return Config{}, fmt.Errorf("STRIPE_PUBLIC_KEY is required")
	}
	if cfg.GoEnv != "dev" && cfg.GoEnv != "prod" {
		return Config{}, fmt.Errorf("GO_ENV must be dev or prod")
	}

	return cfg, nil
}

// STRIPE_SECRET_KEY_USD / STRIPE_SECRET_KEY_EUR のような通貨別キー
func perCurrency(prefix string) map[currency.Code]string {
	keys := map[currency.Code]string{}
	for _, c := range currency.Supported {
		if v := os.Getenv(prefix + "_" + strings.ToUpper(string(c))); v != "" {
			keys[c] = v
		}
	}
	return keys
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func envBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	switch v {
	case "1", "true", "TRUE", "True":
		return true
	case "0", "false", "FALSE", "False":
		return false
	default:
		return def
	}
}

func atoiDefault(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}

func durationDefault(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be duration: %w", key, err)
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
