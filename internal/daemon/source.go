package daemon

import (
	"log/slog"
	"strings"

	"roulette/internal/catalog"
	"roulette/internal/config"
	"roulette/internal/importer"
	"roulette/internal/logging"
	"roulette/internal/tmdb"
)

// Source names reported by SelectSource.
const (
	SourceTMDB    = "tmdb"
	SourceFixture = "fixture"
	SourceSample  = "sample"
)

// SelectSource picks the catalog to import from: a YAML fixture when given,
// TMDB when a key is configured, otherwise the built-in sample catalog.
func SelectSource(cfg *config.Config, fixture string, logger *slog.Logger) (importer.Source, string, error) {
	if fixture = strings.TrimSpace(fixture); fixture != "" {
		path, err := config.ExpandPath(fixture)
		if err != nil {
			return nil, "", err
		}
		c, err := catalog.Load(path)
		if err != nil {
			return nil, "", err
		}
		return c, SourceFixture, nil
	}
	if cfg.HasTMDB() {
		client, err := tmdb.New(cfg.TMDB.APIKey, cfg.TMDB.BaseURL, cfg.TMDB.Language,
			tmdb.WithRegion(cfg.TMDB.Region),
			tmdb.WithTimeout(cfg.TMDBRequestTimeout()),
		)
		if err != nil {
			return nil, "", err
		}
		return client, SourceTMDB, nil
	}
	if logger != nil {
		logger.Warn("tmdb api key not configured; using built-in sample catalog",
			logging.String(logging.FieldEventType, "sample_catalog_selected"),
			logging.String(logging.FieldErrorHint, cfg.RequireTMDB().Error()),
			logging.String(logging.FieldImpact, "only a small fixed set of movies can be imported"),
		)
	}
	return catalog.Sample(), SourceSample, nil
}
