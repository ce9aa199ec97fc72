package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTMDB(); err != nil {
		return err
	}
	if err := c.validateStore(); err != nil {
		return err
	}
	if err := c.validateSelector(); err != nil {
		return err
	}
	if err := c.validateLimits(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateTMDB() error {
	for key, value := range map[string]string{
		"tmdb.base_url":       c.TMDB.BaseURL,
		"tmdb.image_base_url": c.TMDB.ImageBaseURL,
	} {
		parsed, err := url.Parse(value)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("%s must be an absolute URL, got %q", key, value)
		}
	}
	return nil
}

func (c *Config) validateStore() error {
	switch c.Store.Driver {
	case StoreDriverSQLite:
		return nil
	case StoreDriverPostgres:
		if strings.TrimSpace(c.Store.DSN) == "" {
			return errors.New("store.dsn must be set when store.driver is postgres (or set DATABASE_URL)")
		}
		return nil
	default:
		return fmt.Errorf("store.driver: unsupported value %q (want sqlite or postgres)", c.Store.Driver)
	}
}

func (c *Config) validateSelector() error {
	switch c.Selector.NoMatch {
	case NoMatchNotFound, NoMatchUnfiltered:
		return nil
	default:
		return fmt.Errorf("selector.no_match: unsupported value %q (want not_found or unfiltered)", c.Selector.NoMatch)
	}
}

func (c *Config) validateNotifications() error {
	if c.Notifications.NtfyTopic == "" {
		return nil
	}
	parsed, err := url.Parse(c.Notifications.NtfyTopic)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("notifications.ntfy_topic must be a full topic URL, got %q", c.Notifications.NtfyTopic)
	}
	return nil
}

func (c *Config) validateLimits() error {
	if c.Importer.MinSeedCount > c.Importer.MaxNewRecords*c.Importer.MaxPages {
		return errors.New("importer.min_seed_count cannot exceed importer.max_pages * importer.max_new_records")
	}
	return ensurePositiveMap(map[string]int{
		"importer.max_pages":           c.Importer.MaxPages,
		"importer.max_new_records":     c.Importer.MaxNewRecords,
		"refresh.interval_hours":       c.Refresh.IntervalHours,
		"refresh.max_records":          c.Refresh.MaxRecords,
		"tmdb.request_timeout_seconds": c.TMDB.RequestTimeoutSeconds,
	})
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
