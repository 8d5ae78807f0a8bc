package config

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Http:   HttpConfig{Port: ":8080"},
		APIKey: "k",
		Auth:   AuthConfig{JWTSecret: "s"},
		Postgres: PostgresConfig{
			Host: "localhost",
		},
		Webhook: WebhookConfig{Disabled: true},
		CheckIn: CheckInConfig{
			LocationTimeout: 10,
			StoreTimeout:    5,
			Timezone:        "Asia/Jakarta",
			DefaultSiteID:   "6f2b6c1e-3f6a-4e57-9a43-4d3b9c1b2a10",
			Storage:         StoragePostgres,
		},
	}
}

func TestValidate_OK_ResolvesLocationAndSite(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "Asia/Jakarta", cfg.CheckIn.Location().String())
	assert.Equal(t, uuid.MustParse("6f2b6c1e-3f6a-4e57-9a43-4d3b9c1b2a10"), cfg.CheckIn.SiteID())
}

func TestValidate_Errors(t *testing.T) {
	cases := map[string]func(c *Config){
		"port_without_colon": func(c *Config) { c.Http.Port = "8080" },
		"bad_storage":        func(c *Config) { c.CheckIn.Storage = "sqlite" },
		"no_jwt_secret":      func(c *Config) { c.Auth.JWTSecret = "" },
		"no_api_key":         func(c *Config) { c.APIKey = "" },
		"bad_timezone":       func(c *Config) { c.CheckIn.Timezone = "Mars/Olympus" },
		"bad_site_id":        func(c *Config) { c.CheckIn.DefaultSiteID = "hq" },
		"webhook_no_url":     func(c *Config) { c.Webhook.Disabled = false },
		"zero_timeout":       func(c *Config) { c.CheckIn.LocationTimeout = 0 },
		"zero_store_timeout": func(c *Config) { c.CheckIn.StoreTimeout = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := validConfig()
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidate_MemoryStorageNeedsNoPostgres(t *testing.T) {
	cfg := validConfig()
	cfg.CheckIn.Storage = StorageMemory
	cfg.Postgres.Host = ""
	assert.NoError(t, cfg.Validate())
}

func TestCheckInConfig_LocationDefaultsToUTC(t *testing.T) {
	var c CheckInConfig
	assert.Equal(t, "UTC", c.Location().String())
}

func TestParseSites(t *testing.T) {
	doc := `
sites:
  - id: 6f2b6c1e-3f6a-4e57-9a43-4d3b9c1b2a10
    name: Jakarta HQ
    latitude: -6.2
    longitude: 106.816666
    radius_meters: 100
    qr_secret: TDI_OFFICE_QR_CODE
`
	sites, err := ParseSites([]byte(doc))
	require.NoError(t, err)
	require.Len(t, sites, 1)
	assert.Equal(t, "Jakarta HQ", sites[0].Name)
	assert.Equal(t, 100.0, sites[0].RadiusMeters)
	assert.Equal(t, "TDI_OFFICE_QR_CODE", sites[0].QRSecret)
}

func TestParseSites_Rejects(t *testing.T) {
	base := `
sites:
  - id: 6f2b6c1e-3f6a-4e57-9a43-4d3b9c1b2a10
    latitude: -6.2
    longitude: 106.816666
    radius_meters: 100
    qr_secret: CODE
`
	cases := map[string]string{
		"zero_radius":   strings.Replace(base, "radius_meters: 100", "radius_meters: 0", 1),
		"no_secret":     strings.Replace(base, "qr_secret: CODE", "qr_secret: \"\"", 1),
		"bad_latitude":  strings.Replace(base, "latitude: -6.2", "latitude: -96.2", 1),
		"bad_yaml":      "sites: [",
		"bad_uuid":      strings.Replace(base, "6f2b6c1e-3f6a-4e57-9a43-4d3b9c1b2a10", "hq", 1),
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseSites([]byte(doc))
			assert.Error(t, err)
		})
	}
}
