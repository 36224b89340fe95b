package main

import (
	"context"
	"encoding/json"

	"github.com/changemaker-lab/backend/pkg/task"
	"github.com/changemaker-lab/backend/pkg/xcontext"
	"github.com/hibiken/asynq"
	"github.com/urfave/cli/v2"
)

func (s *srv) startWorker(*cli.Context) error {
	server.loadConfig()
	server.loadLogger()
	server.loadDatabase()
	server.loadEndpoint()
	server.loadRepos()
	server.loadDomains()

	cfg := xcontext.Configs(s.ctx)
	worker := asynq.NewServer(
		asynq.RedisClientOpt{Addr: cfg.Redis.Addr},
		asynq.Config{Concurrency: 10},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(task.ExecuteRewardIssuance, s.handleExecuteRewardIssuance)

	xcontext.Logger(s.ctx).Infof("Starting reward worker")
	if err := worker.Run(mux); err != nil {
		panic(err)
	}

	return nil
}

func (s *srv) handleExecuteRewardIssuance(ctx context.Context, t *asynq.Task) error {
	var payload task.ExecuteRewardIssuancePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		xcontext.Logger(s.ctx).Errorf("Cannot unmarshal task payload: %v", err)
		return nil
	}

	// The base context carries configs, db, and clients; asynq's task
	// context carries shutdown cancellation. The issuance needs both.
	taskCtx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	return s.rewardDomain.ExecuteIssuance(taskCtx, payload.IssuanceID)
}
