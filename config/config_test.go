package config_test

import (
	"testing"

	"campusbook/config"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *config.Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*config.Config) {}},
		{name: "kafka without brokers", mutate: func(c *config.Config) { c.Kafka.Enable = true }, wantErr: true},
		{name: "kafka with brokers", mutate: func(c *config.Config) {
			c.Kafka.Enable = true
			c.Kafka.Brokers = []string{"kafka:9092"}
		}},
		{name: "negative grace", mutate: func(c *config.Config) { c.Booking.CompletionGraceMinutes = -5 }, wantErr: true},
		{name: "limiter without window", mutate: func(c *config.Config) {
			c.App.RateLimiter.Enable = true
			c.App.RateLimiter.MaxRequests = 100
		}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{}
			cfg.Kafka.WriteTimeout = 10
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
