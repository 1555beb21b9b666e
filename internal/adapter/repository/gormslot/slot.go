package gormslot

import (
	"context"
	"errors"
	"log"
	"time"

	"cuotas-backend/internal/adapter/repository/blob"
	domain "cuotas-backend/internal/domain/debt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Slot is one named blob. The debt collection lives in a single row.
type Slot struct {
	Key       string    `gorm:"primaryKey;size:191;column:slot_key"`
	Value     string    `gorm:"type:longtext;column:value"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;column:updated_at"`
}

func (Slot) TableName() string { return "slots" }

type Gateway struct {
	db  *gorm.DB
	key string
}

var _ domain.Gateway = (*Gateway)(nil)

func NewGateway(db *gorm.DB, key string) *Gateway { return &Gateway{db: db, key: key} }

func (g *Gateway) Migrate(ctx context.Context) error {
	return g.db.WithContext(ctx).AutoMigrate(&Slot{})
}

func (g *Gateway) Load(ctx context.Context) []domain.Debt {
	var s Slot
	err := g.db.WithContext(ctx).Where("slot_key = ?", g.key).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return []domain.Debt{}
	}
	if err != nil {
		log.Printf("gormslot: load %s: %v", g.key, err)
		return []domain.Debt{}
	}
	out, err := blob.DecodeOrEmpty([]byte(s.Value))
	if err != nil {
		log.Printf("gormslot: discarding unreadable slot %s: %v", g.key, err)
	}
	return out
}

func (g *Gateway) Save(ctx context.Context, debts []domain.Debt) {
	raw, err := blob.Encode(debts)
	if err != nil {
		log.Printf("gormslot: encode %s: %v", g.key, err)
		return
	}
	s := Slot{Key: g.key, Value: string(raw), UpdatedAt: time.Now().UTC()}
	err = g.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slot_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&s).Error
	if err != nil {
		log.Printf("gormslot: save %s: %v", g.key, err)
	}
}
