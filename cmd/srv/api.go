package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/stridehq/backend/internal/middleware"
	"github.com/stridehq/backend/pkg/router"
	"github.com/stridehq/backend/pkg/xcontext"

	"github.com/urfave/cli/v2"
)

func (s *srv) startApi(ct *cli.Context) error {
	s.loadConfig(ct.String("config"))
	s.loadLogger()
	s.loadDatabase()
	s.loadRedis(contextWithConfigs(s))
	s.loadRepos()
	s.loadDomains()
	s.loadRouter()

	s.server = &http.Server{
		Addr:    fmt.Sprintf("%s:%s", s.configs.ApiServer.Host, s.configs.ApiServer.Port),
		Handler: s.router.Handler(),
	}

	s.logger.Infof("Starting server on port %s", s.configs.ApiServer.Port)
	if err := s.server.ListenAndServe(); err != nil {
		return err
	}

	return nil
}

func (s *srv) loadRouter() {
	s.router = router.New(s.db, s.configs, s.logger)
	s.router.Before(middleware.AllowCors())
	s.router.AddCloser(middleware.AllowCorsPreflight())
	s.router.AddCloser(middleware.Logger())

	// Public API.
	{
		router.GET(s.router, "/getLeaderBoard", s.statisticDomain.GetLeaderBoard)
		router.GET(s.router, "/getActivityFeed", s.activityDomain.GetFeed)
	}

	// These APIs need an authenticated user.
	authRouter := s.router.Branch()
	authVerifier := middleware.NewAuthVerifier(s.tokenEngine)
	authRouter.Before(authVerifier.Middleware())
	{
		router.POST(authRouter, "/syncUser", s.userDomain.SyncUser)
		router.GET(authRouter, "/getMe", s.userDomain.GetMe)
		router.GET(authRouter, "/getUser", s.userDomain.GetUser)

		router.POST(authRouter, "/checkin", s.checkinDomain.Checkin)
		router.GET(authRouter, "/getStreak", s.checkinDomain.GetStreak)
		router.GET(authRouter, "/getCheckins", s.checkinDomain.GetCheckins)

		router.GET(authRouter, "/getBalance", s.pointDomain.GetBalance)
		router.GET(authRouter, "/getPointHistory", s.pointDomain.GetPointHistory)

		router.GET(authRouter, "/getMilestones", s.milestoneDomain.GetMilestones)
		router.GET(authRouter, "/getMyMilestones", s.milestoneDomain.GetMyMilestones)
		router.POST(authRouter, "/claimMilestone", s.milestoneDomain.Claim)
		router.POST(authRouter, "/submitMilestone", s.milestoneDomain.Submit)

		router.GET(authRouter, "/getRewards", s.rewardDomain.GetRewards)
		router.POST(authRouter, "/redeemReward", s.rewardDomain.Redeem)
		router.GET(authRouter, "/getMyRedemptions", s.rewardDomain.GetMyRedemptions)

		router.POST(authRouter, "/requestPartnership", s.partnershipDomain.Request)
		router.POST(authRouter, "/acceptPartnership", s.partnershipDomain.Accept)
		router.POST(authRouter, "/endPartnership", s.partnershipDomain.End)
		router.GET(authRouter, "/getMyPartnerships", s.partnershipDomain.GetMyPartnerships)

		router.GET(authRouter, "/getMyRank", s.statisticDomain.GetMyRank)
	}

	// Admin API.
	adminRouter := authRouter.Branch()
	adminRouter.Before(middleware.NewOnlyAdmin(s.userRepo).Middleware())
	{
		router.GET(adminRouter, "/getUsers", s.userDomain.GetUsers)

		router.POST(adminRouter, "/grantPoints", s.pointDomain.GrantPoints)

		router.GET(adminRouter, "/getPendingMilestones", s.milestoneDomain.GetPending)
		router.POST(adminRouter, "/approveMilestone", s.milestoneDomain.Approve)
		router.POST(adminRouter, "/rejectMilestone", s.milestoneDomain.Reject)
		router.POST(adminRouter, "/createMilestone", s.milestoneDomain.Create)
		router.POST(adminRouter, "/updateMilestone", s.milestoneDomain.Update)
		router.POST(adminRouter, "/deleteMilestone", s.milestoneDomain.Delete)

		router.GET(adminRouter, "/getPendingRedemptions", s.rewardDomain.GetPendingRedemptions)
		router.POST(adminRouter, "/fulfillRedemption", s.rewardDomain.Fulfill)
		router.POST(adminRouter, "/cancelRedemption", s.rewardDomain.Cancel)
		router.POST(adminRouter, "/createReward", s.rewardDomain.Create)
		router.POST(adminRouter, "/updateReward", s.rewardDomain.Update)
		router.POST(adminRouter, "/deleteReward", s.rewardDomain.Delete)
	}
}

func contextWithConfigs(s *srv) context.Context {
	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, s.configs)
	ctx = xcontext.WithLogger(ctx, s.logger)
	return ctx
}
