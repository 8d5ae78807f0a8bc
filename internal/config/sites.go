package config

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// SiteSeed is one office site declared in the sites file:
//
//	sites:
//	  - id: 3f1c...
//	    name: Jakarta HQ
//	    latitude: -6.2
//	    longitude: 106.816666
//	    radius_meters: 100
//	    qr_secret: TDI_OFFICE_QR_CODE
type SiteSeed struct {
	ID           uuid.UUID `yaml:"id"`
	Name         string    `yaml:"name"`
	Latitude     float64   `yaml:"latitude"`
	Longitude    float64   `yaml:"longitude"`
	RadiusMeters float64   `yaml:"radius_meters"`
	QRSecret     string    `yaml:"qr_secret"`
}

type sitesFile struct {
	Sites []SiteSeed `yaml:"sites"`
}

func LoadSites(path string) ([]SiteSeed, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sites file: %w", err)
	}
	return ParseSites(b)
}

func ParseSites(b []byte) ([]SiteSeed, error) {
	var f sitesFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse sites file: %w", err)
	}
	for i, s := range f.Sites {
		if s.ID == uuid.Nil {
			return nil, fmt.Errorf("sites[%d]: id required", i)
		}
		if s.QRSecret == "" {
			return nil, fmt.Errorf("sites[%d]: qr_secret required", i)
		}
		if s.RadiusMeters <= 0 {
			return nil, fmt.Errorf("sites[%d]: radius_meters must be positive", i)
		}
		if s.Latitude < -90 || s.Latitude > 90 || s.Longitude < -180 || s.Longitude > 180 {
			return nil, fmt.Errorf("sites[%d]: coordinates out of range", i)
		}
	}
	return f.Sites, nil
}
