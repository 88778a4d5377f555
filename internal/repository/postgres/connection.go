package postgres

import (
	"github.com/dom/fantasy-cricket-draft/internal/domain"
	"github.com/dom/fantasy-cricket-draft/internal/repository"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewConnection(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Info),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	// Auto-migrate tables
	err = db.AutoMigrate(
		&domain.League{},
		&domain.Manager{},
		&domain.Player{},
		&domain.DraftState{},
		&domain.DraftOrderSlot{},
		&domain.DraftPick{},
		&domain.RosterAssignment{},
	)
	if err != nil {
		return nil, err
	}

	return db, nil
}

func NewRepositories(db *gorm.DB) *repository.Repositories {
	return &repository.Repositories{
		League:     NewLeagueRepository(db),
		Manager:    NewManagerRepository(db),
		Player:     NewPlayerRepository(db),
		DraftState: NewDraftStateRepository(db),
		DraftOrder: NewDraftOrderRepository(db),
		DraftPick:  NewDraftPickRepository(db),
		Roster:     NewRosterRepository(db),
	}
}
