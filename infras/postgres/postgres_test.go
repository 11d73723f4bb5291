package postgres_test

import (
	"net/url"
	"testing"

	"campusbook/config"
	"campusbook/infras/postgres"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSN(t *testing.T) {
	cfg := &config.Config{}
	cfg.DB.Postgres.Prefix = "test_"

	endpoint := config.PostgresEndpoint{
		Host:     "db.internal",
		Port:     "5432",
		Username: "booking",
		Password: "p@ss/word",
		Name:     "campusbook",
	}

	parsed, err := url.Parse(postgres.DSN(cfg, endpoint, url.Values{"x-migrations-table": {"schema_migrations"}}))
	require.NoError(t, err)

	password, _ := parsed.User.Password()

	assert.Equal(t, "db.internal:5432", parsed.Host)
	assert.Equal(t, "/test_campusbook", parsed.Path)
	assert.Equal(t, "p@ss/word", password)
	assert.Equal(t, "disable", parsed.Query().Get("sslmode"))
	assert.Equal(t, "UTC", parsed.Query().Get("timezone"))
	assert.Equal(t, "schema_migrations", parsed.Query().Get("x-migrations-table"))

	endpoint.SSLMode = "require"
	endpoint.Timezone = "Asia/Kolkata"

	parsed, err = url.Parse(postgres.DSN(cfg, endpoint, nil))
	require.NoError(t, err)

	assert.Equal(t, "require", parsed.Query().Get("sslmode"))
	assert.Equal(t, "Asia/Kolkata", parsed.Query().Get("timezone"))
}
