package main

import (
	"fmt"
	"net/http"

	"github.com/changemaker-lab/backend/internal/middleware"
	"github.com/changemaker-lab/backend/pkg/router"
	"github.com/changemaker-lab/backend/pkg/xcontext"

	"github.com/urfave/cli/v2"
)

func (s *srv) startApi(*cli.Context) error {
	server.loadConfig()
	server.loadLogger()
	server.loadDatabase()
	server.loadEndpoint()
	server.loadRepos()
	server.loadDomains()
	server.loadRouter()

	cfg := xcontext.Configs(s.ctx)
	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.ApiServer.Port),
		Handler: s.router.Handler(),
	}

	xcontext.Logger(s.ctx).Infof("Starting server on port %s", cfg.ApiServer.Port)
	if err := s.server.ListenAndServe(); err != nil {
		panic(err)
	}

	return nil
}

func (s *srv) loadRouter() {
	s.router = router.New(s.ctx)
	s.router.AddCloser(middleware.Logger())

	authRouter := s.router.Branch()
	authRouter.Before(middleware.Authenticate())
	{
		// Submission API
		router.POST(authRouter, "/submit", s.submissionDomain.Submit)
		router.POST(authRouter, "/reviewSubmission", s.submissionDomain.Review)
		router.POST(authRouter, "/finalReviewSubmission", s.submissionDomain.FinalReview)
		router.GET(authRouter, "/getSubmission", s.submissionDomain.Get)
		router.GET(authRouter, "/getPendingSubmissions", s.submissionDomain.GetPending)
		router.GET(authRouter, "/getMySubmissions", s.submissionDomain.GetMyList)

		// Participant API
		router.PATCH(authRouter, "/updateProfile", s.participantDomain.UpdateProfile)
		router.POST(authRouter, "/syncRewardStackParticipant", s.participantDomain.SyncRewardStack)
		router.GET(authRouter, "/getRewardStackStatus", s.participantDomain.GetRewardStackStatus)

		// Reward API
		router.POST(authRouter, "/retryRewardIssuance", s.rewardDomain.Retry)
		router.POST(authRouter, "/cancelRewardIssuance", s.rewardDomain.Cancel)
		router.GET(authRouter, "/getRewardIssuances", s.rewardDomain.GetList)
		router.GET(authRouter, "/getMyRewardIssuances", s.rewardDomain.GetMyList)

		// Workspace API
		router.POST(authRouter, "/createWorkspace", s.workspaceDomain.Create)
		router.POST(authRouter, "/joinWorkspace", s.workspaceDomain.Join)
		router.POST(authRouter, "/createChallenge", s.workspaceDomain.CreateChallenge)
		router.POST(authRouter, "/createActivity", s.workspaceDomain.CreateActivity)
		router.POST(authRouter, "/assignChallenge", s.workspaceDomain.AssignChallenge)
	}
}
