package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/yungbote/scriptpulse-backend/internal/domain"
	"github.com/yungbote/scriptpulse-backend/internal/platform/logger"
	"github.com/yungbote/scriptpulse-backend/internal/utils"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
	postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
	postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
	postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
	postgresName := utils.GetEnv("POSTGRES_NAME", "scriptpulse", log)

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

	serviceLog.Info("Connecting to Postgres...")
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		serviceLog.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	if err := gdb.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		serviceLog.Error("Failed to enable uuid-ossp extension", "error", err)
		return nil, fmt.Errorf("failed to enable uuid-ossp extension: %w", err)
	}

	return &PostgresService{db: gdb, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	if err := s.db.AutoMigrate(domain.AllModels()...); err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}
	s.log.Info("Configuring foreign key relationships for postgres tables...")
	if err := s.db.Exec(`
		ALTER TABLE "outcome_record"
		DROP CONSTRAINT IF EXISTS "fk_outcome_record_draft_snapshot_id";
		ALTER TABLE "outcome_record"
		ADD CONSTRAINT "fk_outcome_record_draft_snapshot_id"
		FOREIGN KEY ("draft_snapshot_id")
		REFERENCES "draft_snapshot"("id")
		ON DELETE RESTRICT
	`).Error; err != nil {
		return fmt.Errorf("failed to add fk_outcome_record_draft_snapshot_id: %w", err)
	}
	if err := s.db.Exec(`
		ALTER TABLE "draft_snapshot"
		DROP CONSTRAINT IF EXISTS "fk_draft_snapshot_variant_id";
		ALTER TABLE "draft_snapshot"
		ADD CONSTRAINT "fk_draft_snapshot_variant_id"
		FOREIGN KEY ("variant_id")
		REFERENCES "script_variant"("id")
		ON DELETE SET NULL
	`).Error; err != nil {
		return fmt.Errorf("failed to add fk_draft_snapshot_variant_id: %w", err)
	}
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}
