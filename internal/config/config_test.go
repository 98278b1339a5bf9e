package config_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/unimarket/internal/config"
)

func TestLoad(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		t.Setenv("AUTH_JWT_SECRET", "secret")

		cfg, err := config.Load()
		require.NoError(t, err)

		assert.Equal(t, 8080, cfg.App.Port)
		assert.Equal(t, 7*24*time.Hour, cfg.Escrow.HoldPeriod)
		assert.Equal(t, 100, cfg.Escrow.SweepBatch)
		assert.Equal(t, "NGN", cfg.Paystack.Currency)
		assert.Equal(t, "http://localhost:8080/api/v1/payments/verify", cfg.CallbackURL())
		assert.Equal(t, "postgres://postgres:@localhost:5432/unimarket?sslmode=disable", cfg.ConnectionString())
	})

	t.Run("MissingSecret", func(t *testing.T) {
		t.Setenv("AUTH_JWT_SECRET", "")

		_, err := config.Load()
		assert.Error(t, err)
	})

	t.Run("InvalidHoldPeriod", func(t *testing.T) {
		t.Setenv("AUTH_JWT_SECRET", "secret")
		t.Setenv("ESCROW_HOLD_PERIOD", "-1h")

		_, err := config.Load()
		assert.Error(t, err)
	})
}

func TestLoadCron(t *testing.T) {
	t.Run("NeedsNoJWTSecret", func(t *testing.T) {
		t.Setenv("AUTH_JWT_SECRET", "")
		t.Setenv("CRON_SECRET_KEY", "cron")

		cfg, err := config.LoadCron()
		require.NoError(t, err)
		assert.Equal(t, "cron", cfg.Jobs.CronSecret)
		assert.Equal(t, "http://localhost:8080", cfg.Jobs.TargetURL)
	})

	t.Run("MissingCronSecret", func(t *testing.T) {
		t.Setenv("CRON_SECRET_KEY", "")

		_, err := config.LoadCron()
		assert.Error(t, err)
	})
}

func TestConfig_SupportUserID(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name    string
		value   string
		want    uuid.UUID
		wantErr bool
	}{
		{name: "Unset", value: "", want: uuid.Nil},
		{name: "Valid", value: id.String(), want: id},
		{name: "Malformed", value: "not-a-uuid", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg config.Config
			cfg.Support.UserID = tt.value

			got, err := cfg.SupportUserID()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
