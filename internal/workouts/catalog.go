package workouts

import (
	"context"
	"encoding/json"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=catalog_mocks_test.go -package=workouts_test

const (
	catalogListCacheKey = "catalog::list"
	// reference data, changes only on reseed
	catalogCacheExpireSeconds = 0
)

type catalogRepo interface {
	List(ctx context.Context) ([]Workout, error)
	Get(ctx context.Context, id string) (*Workout, error)
}

// Catalog serves the workout reference data, backed by an in-memory cache
// in front of storage.
type Catalog struct {
	repo  catalogRepo
	cache *freecache.Cache
}

func NewCatalog(repo catalogRepo) *Catalog {
	megabyte := 1024 * 1024
	cacheSize := 10 * megabyte
	return &Catalog{
		repo:  repo,
		cache: freecache.NewCache(cacheSize),
	}
}

func (c *Catalog) List(ctx context.Context) ([]Workout, error) {
	if listBytes, err := c.cache.Get([]byte(catalogListCacheKey)); err == nil {
		var list []Workout
		if err := json.Unmarshal(listBytes, &list); err == nil {
			return list, nil
		}
		log.Errorf("catalog, unmarshal cached list: %s", err)
	}

	list, err := c.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	listBytes, err := json.Marshal(list)
	if err != nil {
		log.Errorf("catalog, marshal list for cache: %s", err)
		return list, nil
	}
	if err := c.cache.Set([]byte(catalogListCacheKey), listBytes, catalogCacheExpireSeconds); err != nil {
		log.Errorf("catalog, cache list: %s", err)
	}

	return list, nil
}

func (c *Catalog) Get(ctx context.Context, id string) (*Workout, error) {
	cacheKey := "catalog::workout::" + id
	if workoutBytes, err := c.cache.Get([]byte(cacheKey)); err == nil {
		var w Workout
		if err := json.Unmarshal(workoutBytes, &w); err == nil {
			return &w, nil
		}
		log.Errorf("catalog, unmarshal cached workout %s: %s", id, err)
	}

	w, err := c.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	workoutBytes, err := json.Marshal(w)
	if err != nil {
		log.Errorf("catalog, marshal workout %s for cache: %s", id, err)
		return w, nil
	}
	if err := c.cache.Set([]byte(cacheKey), workoutBytes, catalogCacheExpireSeconds); err != nil {
		log.Errorf("catalog, cache workout %s: %s", id, err)
	}

	return w, nil
}

// TotalCount is the catalog size.
func (c *Catalog) TotalCount(ctx context.Context) (int, error) {
	list, err := c.List(ctx)
	if err != nil {
		return 0, err
	}
	return len(list), nil
}

// Invalidate drops all cached entries, used after a reseed.
func (c *Catalog) Invalidate() {
	c.cache.Clear()
}
