package config_test

import (
	"testing"
	"time"

	"storefront/internal/config"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(overrides map[string]interface{}) *viper.Viper {
	v := viper.New()
	config.SetDefaults(v)
	for key, value := range overrides {
		v.Set(key, value)
	}
	return v
}

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := config.FromViper(newViper(nil))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.AppPort)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "none", cfg.EventBroker)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, time.Minute, cfg.CheckoutRateWindow)
	assert.Equal(t, "1000", cfg.FreeShippingThreshold.String())
	assert.Equal(t, "100", cfg.FlatShippingFee.String())
	assert.Equal(t, "E-Commerce Store", cfg.MerchantName)
}

func TestFromViper_KafkaBrokers(t *testing.T) {
	cfg, err := config.FromViper(newViper(map[string]interface{}{
		"EVENT_BROKER":  "KAFKA",
		"KAFKA_BROKERS": "kafka-1:9092, kafka-2:9092,,",
	}))
	require.NoError(t, err)
	assert.Equal(t, "kafka", cfg.EventBroker)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
}

func TestFromViper_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[string]interface{}
		wantErr   string
	}{
		{"unknown driver", map[string]interface{}{"DB_DRIVER": "oracle"}, "invalid DB_DRIVER"},
		{"unknown broker", map[string]interface{}{"EVENT_BROKER": "nats"}, "invalid EVENT_BROKER"},
		{"kafka without brokers", map[string]interface{}{"EVENT_BROKER": "kafka", "KAFKA_BROKERS": " "}, "KAFKA_BROKERS"},
		{"zero rate limit", map[string]interface{}{"CHECKOUT_RATE_LIMIT": 0}, "CHECKOUT_RATE_LIMIT"},
		{"zero window", map[string]interface{}{"CHECKOUT_RATE_WINDOW_SEC": 0}, "CHECKOUT_RATE_WINDOW_SEC"},
		{"bad fee", map[string]interface{}{"FLAT_SHIPPING_FEE": "abc"}, "FLAT_SHIPPING_FEE"},
		{"negative threshold", map[string]interface{}{"FREE_SHIPPING_THRESHOLD": "-1"}, "must not be negative"},
		{"empty secret", map[string]interface{}{"JWT_SECRET": ""}, "JWT_SECRET"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.FromViper(newViper(tt.overrides))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
