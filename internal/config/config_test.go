package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := writeYAML(t, `
app:
  http_addr: ":9000"
  base_url: "https://feast.example/"
mongo:
  uri: "mongodb://file:27017"
auth:
  session_secret: "from-file"
idempotency:
  ttl: 2m
kafka:
  brokers: ["k1:9092"]
`)
	t.Setenv("CYBERFEAST_MONGO__URI", "mongodb://env:27017")
	t.Setenv("CYBERFEAST_STRIPE__WEBHOOK_SECRET", "whsec_env")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.App.HTTPAddr)
	assert.Equal(t, "mongodb://env:27017", cfg.Mongo.URI)
	assert.Equal(t, "whsec_env", cfg.Stripe.WebhookSecret)
	assert.Equal(t, 2*time.Minute, cfg.Idempotency.TTL)
	assert.Equal(t, []string{"k1:9092"}, cfg.Kafka.Brokers)

	// untouched keys keep defaults
	assert.Equal(t, "usd", cfg.Stripe.Currency)
	assert.Equal(t, 5*24*time.Hour, cfg.Auth.SessionTTL)
	assert.Equal(t, "cyberfeast", cfg.Mongo.Database)

	assert.Equal(t, "https://feast.example/dashboard/orders?session_id={CHECKOUT_SESSION_ID}", cfg.SuccessURL())
	assert.Equal(t, "https://feast.example/dashboard", cfg.CancelURL())
}

func TestLoad_EnvOnly(t *testing.T) {
	t.Setenv("CYBERFEAST_MONGO__URI", "mongodb://env:27017")
	t.Setenv("CYBERFEAST_AUTH__SESSION_SECRET", "s3cret")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.App.HTTPAddr)
	assert.Equal(t, "s3cret", cfg.Auth.SessionSecret)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	assert.ErrorContains(t, cfg.Validate(), "mongo.uri")

	cfg.Mongo.URI = "mongodb://x"
	assert.ErrorContains(t, cfg.Validate(), "auth.session_secret")

	cfg.Auth.SessionSecret = "s"
	assert.NoError(t, cfg.Validate())

	cfg.App.HTTPAddr = ""
	assert.ErrorContains(t, cfg.Validate(), "app.http_addr")
}
