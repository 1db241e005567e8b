package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/brassloom/brassloom/internal/model"
)

// Opportunity is the archive row for a harvested record. One row per canonical
// opportunity ID; re-harvesting updates score and dates in place.
type Opportunity struct {
	ID              string            `gorm:"primaryKey;size:128" json:"id"`
	Title           string            `gorm:"size:512" json:"title"`
	Agency          string            `gorm:"size:256" json:"agency"`
	Source          string            `gorm:"size:32;index" json:"source"`
	URL             string            `gorm:"size:1024" json:"url"`
	PostedDate      string            `gorm:"size:10" json:"posted_date"`
	CloseDate       string            `gorm:"size:10;index" json:"close_date"`
	Summary         string            `gorm:"size:2000" json:"summary"`
	KeywordsMatched datatypes.JSON    `gorm:"type:jsonb" json:"keywords_matched"`
	Score           int               `gorm:"index" json:"score"`
	ExtraData       datatypes.JSONMap `gorm:"type:jsonb" json:"extraData"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Store struct {
	DB    *gorm.DB
	Redis *redis.Client
}

// NewStore opens Postgres, migrates the schema, and connects Redis. A missing
// Redis only disables the list cache, it is not fatal.
func NewStore(dsn, redisAddr string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&Opportunity{}, &Proposal{}, &Task{}); err != nil {
		return nil, err
	}

	var rdb *redis.Client
	if redisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: redisAddr})
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Printf("warn: redis ping failed: %v", err)
		}
	}

	return &Store{DB: db, Redis: rdb}, nil
}

// toValidUTF8 keeps Postgres from rejecting rows when an upstream page leaks
// a broken byte sequence into a title or summary.
func toValidUTF8(s string) string {
	return strings.ToValidUTF8(s, "�")
}

func dateString(d *model.Date) string {
	if d == nil {
		return ""
	}
	return d.String()
}

// SaveBatch archives one harvest's output. Rows are keyed by opportunity ID;
// existing rows get their score, dates and summary refreshed.
func (s *Store) SaveBatch(records []model.Opportunity) error {
	for _, rec := range records {
		kws, err := json.Marshal(rec.KeywordsMatched)
		if err != nil {
			return fmt.Errorf("storage: marshal keywords for %s: %w", rec.ID, err)
		}

		row := &Opportunity{
			ID:              rec.ID,
			Title:           toValidUTF8(rec.Title),
			Agency:          toValidUTF8(rec.Agency),
			Source:          string(rec.Source),
			URL:             rec.URL,
			PostedDate:      dateString(rec.PostedDate),
			CloseDate:       dateString(rec.CloseDate),
			Summary:         toValidUTF8(rec.Summary),
			KeywordsMatched: datatypes.JSON(kws),
			Score:           rec.Score,
			ExtraData:       datatypes.JSONMap(rec.Extra),
		}

		if err := s.DB.Where("id = ?", rec.ID).FirstOrCreate(row).Error; err != nil {
			return err
		}
		if err := s.DB.Model(row).Updates(map[string]any{
			"title":            row.Title,
			"agency":           row.Agency,
			"url":              row.URL,
			"posted_date":      row.PostedDate,
			"close_date":       row.CloseDate,
			"summary":          row.Summary,
			"keywords_matched": row.KeywordsMatched,
			"score":            row.Score,
		}).Error; err != nil {
			return err
		}
	}
	return nil
}

// ListOpportunities returns archived opportunities ranked by score, optionally
// filtered by source and minimum score, with a short Redis read-through cache.
func (s *Store) ListOpportunities(source string, minScore, limit int) ([]Opportunity, error) {
	if limit <= 0 || limit > 1000 {
		limit = 100
	}

	ctx := context.Background()
	cacheKey := fmt.Sprintf("opps:list:%s:%d:%d", source, minScore, limit)

	if s.Redis != nil {
		if bs, err := s.Redis.Get(ctx, cacheKey).Bytes(); err == nil {
			var cached []Opportunity
			if err := json.Unmarshal(bs, &cached); err == nil {
				return cached, nil
			}
		}
	}

	var list []Opportunity
	db := s.DB.Model(&Opportunity{})
	if source != "" {
		db = db.Where("source = ?", source)
	}
	if minScore > 0 {
		db = db.Where("score >= ?", minScore)
	}
	err := db.Order("score DESC").
		Order("NULLIF(close_date, '') ASC NULLS LAST").
		Order("title ASC").
		Limit(limit).
		Find(&list).Error
	if err != nil {
		return nil, err
	}

	const listCacheTTL = 5 * time.Minute
	if s.Redis != nil && len(list) > 0 {
		if bs, err := json.Marshal(list); err == nil {
			_ = s.Redis.Set(ctx, cacheKey, bs, listCacheTTL).Err()
		}
	}
	return list, nil
}
