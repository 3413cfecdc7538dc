package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/stridehq/backend/config"
	"github.com/stridehq/backend/internal/common"
	"github.com/stridehq/backend/internal/domain"
	"github.com/stridehq/backend/internal/domain/statistic"
	"github.com/stridehq/backend/internal/model"
	"github.com/stridehq/backend/internal/repository"
	"github.com/stridehq/backend/pkg/authenticator"
	"github.com/stridehq/backend/pkg/logger"
	"github.com/stridehq/backend/pkg/router"
	"github.com/stridehq/backend/pkg/xcontext"
	"github.com/stridehq/backend/pkg/xredis"
	"github.com/urfave/cli/v2"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type srv struct {
	app *cli.App

	configs config.Configs
	logger  logger.Logger
	db      *gorm.DB

	redisClient xredis.Client
	tokenEngine authenticator.TokenEngine[model.AccessToken]

	userRepo             repository.UserRepository
	pointTransactionRepo repository.PointTransactionRepository
	checkinRepo          repository.CheckinRepository
	streakRepo           repository.StreakRepository
	milestoneRepo        repository.MilestoneRepository
	userMilestoneRepo    repository.UserMilestoneRepository
	rewardRepo           repository.RewardRepository
	redemptionRepo       repository.RedemptionRepository
	partnershipRepo      repository.PartnershipRepository
	activityRepo         repository.ActivityRepository

	leaderboard statistic.Leaderboard
	userLocker  *common.UserLocker

	userDomain        domain.UserDomain
	checkinDomain     domain.CheckinDomain
	pointDomain       domain.PointDomain
	milestoneDomain   domain.MilestoneDomain
	rewardDomain      domain.RewardDomain
	partnershipDomain domain.PartnershipDomain
	activityDomain    domain.ActivityDomain
	statisticDomain   domain.StatisticDomain

	router *router.Router
	server *http.Server
}

func (s *srv) loadConfig(configPath string) {
	var err error
	s.configs, err = config.Load(configPath)
	if err != nil {
		log.Fatalf("cannot load config: %v", err)
	}
}

func (s *srv) loadLogger() {
	s.logger = logger.NewLogger(logger.ParseLevel(s.configs.LogLevel))
}

func (s *srv) loadDatabase() {
	var err error
	s.db, err = gorm.Open(mysql.Open(s.configs.Database.ConnectionString()), &gorm.Config{
		// TranslateError turns driver duplicate-key errors into
		// gorm.ErrDuplicatedKey, which claim and submit depend on.
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("cannot connect database: %v", err)
	}
}

func (s *srv) loadRedis(ctx context.Context) {
	var err error
	s.redisClient, err = xredis.NewClient(ctx)
	if err != nil {
		log.Fatalf("cannot connect redis: %v", err)
	}
}

func (s *srv) loadRepos() {
	s.userRepo = repository.NewUserRepository()
	s.pointTransactionRepo = repository.NewPointTransactionRepository()
	s.checkinRepo = repository.NewCheckinRepository()
	s.streakRepo = repository.NewStreakRepository()
	s.milestoneRepo = repository.NewMilestoneRepository()
	s.userMilestoneRepo = repository.NewUserMilestoneRepository()
	s.rewardRepo = repository.NewRewardRepository()
	s.redemptionRepo = repository.NewRedemptionRepository()
	s.partnershipRepo = repository.NewPartnershipRepository()
	s.activityRepo = repository.NewActivityRepository()
}

func (s *srv) loadDomains() {
	s.tokenEngine = authenticator.NewTokenEngine[model.AccessToken](
		s.configs.Auth.TokenSecret, time.Duration(s.configs.Auth.AccessToken.Expiration))

	s.leaderboard = statistic.New(s.pointTransactionRepo, s.streakRepo, s.redisClient)
	s.userLocker = common.NewUserLocker()
	roleVerifier := common.NewGlobalRoleVerifier(s.userRepo)

	s.userDomain = domain.NewUserDomain(s.userRepo, roleVerifier)
	s.checkinDomain = domain.NewCheckinDomain(
		s.checkinRepo, s.streakRepo, s.pointTransactionRepo, s.activityRepo,
		s.leaderboard, s.userLocker)
	s.pointDomain = domain.NewPointDomain(
		s.pointTransactionRepo, s.userRepo, s.leaderboard, roleVerifier)
	s.milestoneDomain = domain.NewMilestoneDomain(
		s.milestoneRepo, s.userMilestoneRepo, s.streakRepo, s.pointTransactionRepo,
		s.activityRepo, s.leaderboard, roleVerifier)
	s.rewardDomain = domain.NewRewardDomain(
		s.rewardRepo, s.redemptionRepo, s.pointTransactionRepo, s.activityRepo,
		s.leaderboard, roleVerifier, s.userLocker)
	s.partnershipDomain = domain.NewPartnershipDomain(s.partnershipRepo, s.userRepo)
	s.activityDomain = domain.NewActivityDomain(s.activityRepo)
	s.statisticDomain = domain.NewStatisticDomain(s.leaderboard, s.userRepo)
}

func (s *srv) startMigrate(ct *cli.Context) error {
	s.loadConfig(ct.String("config"))
	s.loadLogger()
	s.loadDatabase()

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, s.configs)
	ctx = xcontext.WithLogger(ctx, s.logger)
	ctx = xcontext.WithDB(ctx, s.db)

	return migrate(ctx)
}
