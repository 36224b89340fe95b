package main

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/changemaker-lab/backend/config"
	"github.com/changemaker-lab/backend/internal/client"
	"github.com/changemaker-lab/backend/internal/domain"
	"github.com/changemaker-lab/backend/internal/model"
	"github.com/changemaker-lab/backend/internal/repository"
	"github.com/changemaker-lab/backend/pkg/api/rewardstack"
	"github.com/changemaker-lab/backend/pkg/authenticator"
	"github.com/changemaker-lab/backend/pkg/logger"
	"github.com/changemaker-lab/backend/pkg/router"
	"github.com/changemaker-lab/backend/pkg/task"
	"github.com/changemaker-lab/backend/pkg/xcontext"
	"github.com/hibiken/asynq"
	"github.com/urfave/cli/v2"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type srv struct {
	app *cli.App
	ctx context.Context

	userRepo                repository.UserRepository
	workspaceRepo           repository.WorkspaceRepository
	memberRepo              repository.MemberRepository
	challengeRepo           repository.ChallengeRepository
	activityRepo            repository.ActivityRepository
	challengeAssignmentRepo repository.ChallengeAssignmentRepository
	enrollmentRepo          repository.EnrollmentRepository
	submissionRepo          repository.SubmissionRepository
	rewardIssuanceRepo      repository.RewardIssuanceRepository

	submissionDomain  domain.SubmissionDomain
	rewardDomain      domain.RewardDomain
	participantDomain domain.ParticipantDomain
	workspaceDomain   domain.WorkspaceDomain

	rewardStackEndpoint rewardstack.IEndpoint
	emailSender         client.EmailSender
	dispatcher          task.Dispatcher
	asynqClient         *asynq.Client

	router *router.Router
	server *http.Server
}

func (s *srv) loadConfig() {
	configs := config.Configs{
		Env: getEnv("ENV", "local"),
		Database: config.DatabaseConfigs{
			Host:     getEnv("MYSQL_HOST", "localhost"),
			Port:     getEnv("MYSQL_PORT", "3306"),
			Database: getEnv("MYSQL_DATABASE", "changemaker"),
			User:     getEnv("MYSQL_USER", "changemaker"),
			Password: getEnv("MYSQL_PASSWORD", "password"),
		},
		ApiServer: config.ServerConfigs{
			Host:         getEnv("HOST", "localhost"),
			Port:         getEnv("PORT", "8080"),
			MaxLimit:     getIntEnv("API_MAX_LIMIT", 50),
			DefaultLimit: getIntEnv("API_DEFAULT_LIMIT", 10),
		},
		Auth: config.AuthConfigs{
			AccessToken: config.TokenConfigs{
				Name:       "access_token",
				Secret:     getEnv("TOKEN_SECRET", "token_secret"),
				Expiration: getDurationEnv("TOKEN_EXPIRATION", time.Hour*24),
			},
		},
		Redis: config.RedisConfigs{
			Addr: getEnv("REDIS_ADDR", "localhost:6379"),
		},
		RewardStack: config.RewardStackConfigs{
			BaseURL:  getEnv("REWARDSTACK_BASE_URL", "https://api.rewardstack.test"),
			APIKey:   getEnv("REWARDSTACK_API_KEY", ""),
			Timeout:  getDurationEnv("REWARDSTACK_TIMEOUT", time.Second*30),
			MaxRetry: getIntEnv("REWARDSTACK_MAX_RETRY", 5),
		},
		Email: config.EmailConfigs{
			Sender: getEnv("EMAIL_SENDER", "rewards@changemaker.app"),
		},
	}

	s.ctx = xcontext.WithConfigs(context.Background(), configs)
}

func (s *srv) loadLogger() {
	s.ctx = xcontext.WithLogger(s.ctx, logger.NewLogger(logger.INFO))
}

func (s *srv) loadDatabase() {
	cfg := xcontext.Configs(s.ctx)
	db, err := gorm.Open(mysql.Open(cfg.Database.ConnectionString()), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	s.ctx = xcontext.WithDB(s.ctx, db)
}

func (s *srv) loadEndpoint() {
	cfg := xcontext.Configs(s.ctx)
	s.ctx = xcontext.WithHTTPClient(s.ctx, &http.Client{Timeout: cfg.RewardStack.Timeout})
	s.ctx = xcontext.WithTokenEngine(s.ctx,
		authenticator.NewTokenEngine[model.AccessToken](cfg.Auth.AccessToken))

	s.rewardStackEndpoint = rewardstack.New(cfg.RewardStack)
	s.emailSender = client.NewLogEmailSender(cfg.Email)

	s.asynqClient = asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.Redis.Addr})
	s.dispatcher = task.NewAsynqDispatcher(s.asynqClient)
}

func (s *srv) loadRepos() {
	s.userRepo = repository.NewUserRepository()
	s.workspaceRepo = repository.NewWorkspaceRepository()
	s.memberRepo = repository.NewMemberRepository()
	s.challengeRepo = repository.NewChallengeRepository()
	s.activityRepo = repository.NewActivityRepository()
	s.challengeAssignmentRepo = repository.NewChallengeAssignmentRepository()
	s.enrollmentRepo = repository.NewEnrollmentRepository()
	s.submissionRepo = repository.NewSubmissionRepository()
	s.rewardIssuanceRepo = repository.NewRewardIssuanceRepository()
}

func (s *srv) loadDomains() {
	s.submissionDomain = domain.NewSubmissionDomain(
		s.submissionRepo, s.activityRepo, s.challengeRepo, s.challengeAssignmentRepo,
		s.enrollmentRepo, s.workspaceRepo, s.rewardIssuanceRepo, s.memberRepo,
		s.userRepo, s.dispatcher)
	s.rewardDomain = domain.NewRewardDomain(
		s.rewardIssuanceRepo, s.userRepo, s.workspaceRepo, s.memberRepo,
		s.rewardStackEndpoint, s.emailSender, s.dispatcher)
	s.participantDomain = domain.NewParticipantDomain(
		s.userRepo, s.workspaceRepo, s.rewardIssuanceRepo, s.rewardStackEndpoint, s.dispatcher)
	s.workspaceDomain = domain.NewWorkspaceDomain(
		s.workspaceRepo, s.memberRepo, s.challengeRepo, s.activityRepo,
		s.challengeAssignmentRepo, s.userRepo)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}

	return fallback
}

func getIntEnv(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}

	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}

	return n
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}

	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}

	return d
}
