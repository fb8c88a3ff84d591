package app

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"github.com/MisterPotz/eclipse-vscode-light-converter/internal/adapters"
)

// CleanCache removes every cached closure from the cache directory.
func (s Service) CleanCache(ctx context.Context, req CleanCacheRequest) (CleanCacheResult, error) {
	dir := strings.TrimSpace(req.CacheDir)
	if dir == "" {
		return CleanCacheResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("cache directory (--cache-dir) is required")
	}
	cache := adapters.NewCacheFileAdapter(dir, s.layout())
	cache.DryRun = req.DryRun
	removed, err := cache.Purge()
	if err != nil {
		return CleanCacheResult{Removed: removed}, err
	}
	log.Ctx(ctx).Info().Str("cache", dir).Int("removed", removed).Bool("dry_run", req.DryRun).Msg("cache cleaned")
	return CleanCacheResult{Removed: removed}, nil
}
