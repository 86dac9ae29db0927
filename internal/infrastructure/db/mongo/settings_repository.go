package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dealspot/dealspot/internal/core/domain"
	"github.com/dealspot/dealspot/internal/core/ports"
)

// settingsID is the _id of the singleton settings document.
const settingsID = "site"

type SettingsRepository struct {
	col *mongo.Collection
}

func NewSettingsRepository(db *mongo.Database) *SettingsRepository {
	return &SettingsRepository{col: db.Collection(collectionSettings)}
}

var _ ports.SettingsRepository = (*SettingsRepository)(nil)

type settingsDoc struct {
	ID               string    `bson:"_id"`
	SiteName         string    `bson:"site_name"`
	DealsPerPage     int       `bson:"deals_per_page"`
	AutoPublish      bool      `bson:"auto_publish"`
	AffiliateEnabled bool      `bson:"affiliate_enabled"`
	UpdatedAt        time.Time `bson:"updated_at"`
}

func (r *SettingsRepository) Get(ctx context.Context) (*domain.Settings, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc settingsDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": settingsID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			s := domain.DefaultSettings()
			return &s, nil
		}
		return nil, fmt.Errorf("find settings: %w", err)
	}
	return &domain.Settings{
		SiteName:         doc.SiteName,
		DealsPerPage:     doc.DealsPerPage,
		AutoPublish:      doc.AutoPublish,
		AffiliateEnabled: doc.AffiliateEnabled,
		UpdatedAt:        doc.UpdatedAt,
	}, nil
}

func (r *SettingsRepository) Save(ctx context.Context, s *domain.Settings) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := settingsDoc{
		ID:               settingsID,
		SiteName:         s.SiteName,
		DealsPerPage:     s.DealsPerPage,
		AutoPublish:      s.AutoPublish,
		AffiliateEnabled: s.AffiliateEnabled,
		UpdatedAt:        s.UpdatedAt.UTC(),
	}
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": settingsID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
