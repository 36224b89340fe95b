package main

import (
	"github.com/changemaker-lab/backend/internal/entity"
	"github.com/changemaker-lab/backend/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startMigrate(*cli.Context) error {
	server.loadConfig()
	server.loadLogger()
	server.loadDatabase()

	if err := entity.MigrateTable(s.ctx); err != nil {
		return err
	}

	xcontext.Logger(s.ctx).Infof("Migration completed")
	return nil
}
