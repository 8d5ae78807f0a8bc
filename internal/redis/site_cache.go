package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/mpurwadi/tdi-main-app-employee-sub000/internal/domain"
)

const activeSitesKey = "checkin:sites:active"

// cachedSite keeps the QR secret, which domain.OfficeSite hides from JSON.
type cachedSite struct {
	ID           uuid.UUID         `json:"id"`
	Name         string            `json:"name"`
	Latitude     float64           `json:"latitude"`
	Longitude    float64           `json:"longitude"`
	RadiusMeters float64           `json:"radius_meters"`
	QRSecret     string            `json:"qr_secret"`
	Status       domain.SiteStatus `json:"status"`
	CreatedAt    time.Time         `json:"created_at"`
}

type SiteCache struct {
	client goredis.Cmdable
	key    string
}

func NewSiteCache(client goredis.Cmdable) *SiteCache {
	return &SiteCache{
		client: client,
		key:    activeSitesKey,
	}
}

// GetActive returns the cached sites, or nil on a cache miss.
func (c *SiteCache) GetActive(ctx context.Context) ([]domain.OfficeSite, error) {
	data, err := c.client.Get(ctx, c.key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	return decodeSites(data)
}

func (c *SiteCache) SetActive(ctx context.Context, sites []domain.OfficeSite, ttl time.Duration) error {
	b, err := encodeSites(sites)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key, b, ttl).Err()
}

func (c *SiteCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, c.key).Err()
}

func encodeSites(sites []domain.OfficeSite) ([]byte, error) {
	out := make([]cachedSite, 0, len(sites))
	for _, s := range sites {
		out = append(out, cachedSite{
			ID:           s.ID,
			Name:         s.Name,
			Latitude:     s.Latitude,
			Longitude:    s.Longitude,
			RadiusMeters: s.RadiusMeters,
			QRSecret:     s.QRSecret,
			Status:       s.Status,
			CreatedAt:    s.CreatedAt,
		})
	}
	return json.Marshal(out)
}

func decodeSites(data []byte) ([]domain.OfficeSite, error) {
	var cached []cachedSite
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, err
	}
	sites := make([]domain.OfficeSite, 0, len(cached))
	for _, c := range cached {
		sites = append(sites, domain.OfficeSite{
			ID:           c.ID,
			Name:         c.Name,
			Latitude:     c.Latitude,
			Longitude:    c.Longitude,
			RadiusMeters: c.RadiusMeters,
			QRSecret:     c.QRSecret,
			Status:       c.Status,
			CreatedAt:    c.CreatedAt,
		})
	}
	return sites, nil
}
