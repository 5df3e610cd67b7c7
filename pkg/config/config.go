package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port           string
	Host           string
	Env            string
	AllowedOrigins []string
	LogLevel       string

	DBUrl     string
	DBLogMode bool
	SeedDemo  bool

	RedisURL      string
	RedisPassword string

	JWTSecret   string
	JWTTTLHours int
	BcryptCost  int

	LoginRatePerSec float64
	LoginBurst      int

	MinTransactionAmount   int64
	BillFee                int64
	SignupBonus            int64
	ReferralBonus          int64
	ReferralThreshold      int
	ReferralCodeMaxRetries int
}

// Defaults are the wallet rules of the InstantPay mock-up.
func Defaults() Config {
	return Config{
		Port:                   "8080",
		Host:                   "http://localhost:8080",
		Env:                    "development",
		AllowedOrigins:         []string{"*"},
		LogLevel:               "info",
		DBUrl:                  "file::memory:?cache=shared",
		SeedDemo:               true,
		JWTTTLHours:            72,
		BcryptCost:             10,
		LoginRatePerSec:        1,
		LoginBurst:             5,
		MinTransactionAmount:   100,
		BillFee:                50,
		SignupBonus:            1000,
		ReferralBonus:          100,
		ReferralThreshold:      3,
		ReferralCodeMaxRetries: 10,
	}
}

func LoadConfig() Config {
	godotenv.Load()

	d := Defaults()
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", d.Port)
	v.SetDefault("HOST", d.Host)
	v.SetDefault("ENV", d.Env)
	v.SetDefault("ALLOWED_ORIGINS", strings.Join(d.AllowedOrigins, ","))
	v.SetDefault("LOG_LEVEL", d.LogLevel)
	v.SetDefault("DATABASE_URL", d.DBUrl)
	v.SetDefault("DB_LOG_MODE", false)
	v.SetDefault("SEED_DEMO", d.SeedDemo)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("JWT_TTL_HOURS", d.JWTTTLHours)
	v.SetDefault("BCRYPT_COST", d.BcryptCost)
	v.SetDefault("LOGIN_RATE_PER_SEC", d.LoginRatePerSec)
	v.SetDefault("LOGIN_BURST", d.LoginBurst)
	v.SetDefault("MIN_TRANSACTION_AMOUNT", d.MinTransactionAmount)
	v.SetDefault("BILL_FEE", d.BillFee)
	v.SetDefault("SIGNUP_BONUS", d.SignupBonus)
	v.SetDefault("REFERRAL_BONUS", d.ReferralBonus)
	v.SetDefault("REFERRAL_THRESHOLD", d.ReferralThreshold)
	v.SetDefault("REFERRAL_CODE_MAX_RETRIES", d.ReferralCodeMaxRetries)

	cfg := Config{
		Port:                   v.GetString("PORT"),
		Host:                   v.GetString("HOST"),
		Env:                    v.GetString("ENV"),
		AllowedOrigins:         splitList(v.GetString("ALLOWED_ORIGINS")),
		LogLevel:               v.GetString("LOG_LEVEL"),
		DBUrl:                  v.GetString("DATABASE_URL"),
		DBLogMode:              v.GetBool("DB_LOG_MODE"),
		SeedDemo:               v.GetBool("SEED_DEMO"),
		RedisURL:               v.GetString("REDIS_URL"),
		RedisPassword:          v.GetString("REDIS_PASSWORD"),
		JWTSecret:              required(v, "JWT_SECRET"),
		JWTTTLHours:            v.GetInt("JWT_TTL_HOURS"),
		BcryptCost:             v.GetInt("BCRYPT_COST"),
		LoginRatePerSec:        v.GetFloat64("LOGIN_RATE_PER_SEC"),
		LoginBurst:             v.GetInt("LOGIN_BURST"),
		MinTransactionAmount:   v.GetInt64("MIN_TRANSACTION_AMOUNT"),
		BillFee:                v.GetInt64("BILL_FEE"),
		SignupBonus:            v.GetInt64("SIGNUP_BONUS"),
		ReferralBonus:          v.GetInt64("REFERRAL_BONUS"),
		ReferralThreshold:      v.GetInt("REFERRAL_THRESHOLD"),
		ReferralCodeMaxRetries: v.GetInt("REFERRAL_CODE_MAX_RETRIES"),
	}

	if cfg.ReferralThreshold < 1 {
		panic("REFERRAL_THRESHOLD must be at least 1")
	}

	return cfg
}

func required(v *viper.Viper, key string) string {
	if value := v.GetString(key); value != "" {
		return value
	}

	panic(fmt.Sprintf("%s is required", key))
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
