package badger

import (
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/newsflow/internal/common"
	"github.com/ternarybob/newsflow/internal/interfaces"
)

// Manager implements the StorageManager interface for Badger
type Manager struct {
	db       *BadgerDB
	articles interfaces.ArticleStorage
	attempts interfaces.AttemptStorage
	logger   arbor.ILogger
}

// NewManager creates a new Badger storage manager
func NewManager(logger arbor.ILogger, config *common.BadgerConfig) (interfaces.StorageManager, error) {
	db, err := NewBadgerDB(logger, config)
	if err != nil {
		return nil, err
	}

	manager := &Manager{
		db:       db,
		articles: NewArticleStorage(db, logger),
		attempts: NewAttemptStorage(db, logger),
		logger:   logger,
	}

	logger.Info().Msg("Badger storage manager initialized")

	return manager, nil
}

// ArticleStorage returns the article storage interface
func (m *Manager) ArticleStorage() interfaces.ArticleStorage {
	return m.articles
}

// AttemptStorage returns the collection attempt storage interface
func (m *Manager) AttemptStorage() interfaces.AttemptStorage {
	return m.attempts
}

// RunGC runs value-log garbage collection on the underlying store
func (m *Manager) RunGC() error {
	return m.db.RunGC()
}

// Close closes the database connection
func (m *Manager) Close() error {
	return m.db.Close()
}
