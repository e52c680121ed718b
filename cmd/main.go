package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	redisclient "github.com/yungbote/ipdesk-backend/internal/clients/redis"
	"github.com/yungbote/ipdesk-backend/internal/db"
	"github.com/yungbote/ipdesk-backend/internal/handlers"
	"github.com/yungbote/ipdesk-backend/internal/logger"
	"github.com/yungbote/ipdesk-backend/internal/middleware"
	"github.com/yungbote/ipdesk-backend/internal/repos"
	"github.com/yungbote/ipdesk-backend/internal/server"
	"github.com/yungbote/ipdesk-backend/internal/services"
	"github.com/yungbote/ipdesk-backend/internal/sse"
	"github.com/yungbote/ipdesk-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
	mediaDir := utils.GetEnv("MEDIA_DIR", "./media", log)
	mediaBaseURL := utils.GetEnv("MEDIA_BASE_URL", "/media", log)
	avatarColorsPath := utils.GetEnv("AVATAR_COLORS_JSON_PATH", "./configs/avatar_colors.json", log)
	avatarFontPath := utils.GetEnv("AVATAR_FONT", "./configs/fonts/Inter-Bold.ttf", log)
	checklistTemplatePath := utils.GetEnv("CHECKLIST_TEMPLATE_PATH", "./configs/checklist_templates.yaml", log)
	alertSeedPath := utils.GetEnv("ALERT_SEED_PATH", "", log)
	corsOrigins := utils.GetEnv("CORS_ALLOW_ORIGINS", "", log)

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Fatal("Postgres init failed", "error", err)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Fatal("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	userTokenRepo := repos.NewUserTokenRepo(thePG, log)
	disclosureRepo := repos.NewDisclosureRepo(thePG, log)
	projectRepo := repos.NewProjectRepo(thePG, log)
	agreementRepo := repos.NewAgreementRepo(thePG, log)
	startupRepo := repos.NewStartupRepo(thePG, log)
	inventorRepo := repos.NewInventorRepo(thePG, log)
	teamMemberRepo := repos.NewTeamMemberRepo(thePG, log)
	filingRepo := repos.NewFilingRepo(thePG, log)
	entityLinkRepo := repos.NewEntityLinkRepo(thePG, log)
	activityLogRepo := repos.NewActivityLogRepo(thePG, log)
	checklistItemRepo := repos.NewChecklistItemRepo(thePG, log)
	alertRepo := repos.NewAlertRepo(thePG, log)

	// SSE
	log.Info("Setting up SSE hub now...")
	sseHub := sse.NewSSEHub(log)

	// Alert fan-out goes through Redis when a bus is configured so every
	// instance's hub sees the message; otherwise straight to the local hub.
	var emitter services.SSEEmitter = &services.HubEmitter{Hub: sseHub}
	if sseBus, busErr := redisclient.NewSSEBus(log); busErr != nil {
		log.Warn("Redis SSE bus unavailable, falling back to local hub", "error", busErr)
	} else {
		if fwdErr := sseBus.StartForwarder(context.Background(), func(m sse.SSEMessage) {
			sseHub.Broadcast(m)
		}); fwdErr != nil {
			log.Warn("Redis SSE forwarder failed to start, falling back to local hub", "error", fwdErr)
		} else {
			emitter = &services.RedisEmitter{Bus: sseBus}
			defer sseBus.Close()
		}
	}

	// Services
	log.Info("Setting up Services from main...")
	avatarService, err := services.NewAvatarService(log, userRepo, mediaDir, mediaBaseURL, avatarColorsPath, avatarFontPath)
	if err != nil {
		log.Error("Could not init AvatarService", "error", err)
		os.Exit(1)
	}
	authService := services.NewAuthService(thePG, log, userRepo, avatarService, userTokenRepo, jwtSecretKey, time.Duration(accessTokenTTL)*time.Second, time.Duration(refreshTokenTTL)*time.Second)
	userService := services.NewUserService(thePG, log, userRepo, avatarService)
	resolver := services.NewEntityResolver(log, disclosureRepo, projectRepo, agreementRepo, startupRepo, inventorRepo, teamMemberRepo, filingRepo)
	activityService := services.NewActivityService(thePG, log, activityLogRepo)
	alertNotifier := services.NewAlertNotifier(emitter)
	alertService := services.NewAlertService(thePG, log, alertRepo, checklistItemRepo, alertNotifier)
	linkService := services.NewLinkService(thePG, log, entityLinkRepo, resolver, activityService, alertService)
	checklistService, err := services.NewChecklistService(thePG, log, checklistItemRepo, resolver, activityService, checklistTemplatePath)
	if err != nil {
		log.Error("Could not init ChecklistService", "error", err)
		os.Exit(1)
	}
	disclosureService := services.NewDisclosureService(thePG, log, disclosureRepo, activityService, alertService)
	projectService := services.NewProjectService(thePG, log, projectRepo, activityService, alertService)
	agreementService := services.NewAgreementService(thePG, log, agreementRepo, activityService, alertService)
	startupService := services.NewStartupService(thePG, log, startupRepo, activityService)
	inventorService := services.NewInventorService(thePG, log, inventorRepo, activityService)
	teamMemberService := services.NewTeamMemberService(thePG, log, teamMemberRepo, activityService)
	filingService := services.NewFilingService(thePG, log, filingRepo, activityService)
	statsService := services.NewStatsService(log, disclosureRepo, projectRepo, agreementRepo, startupRepo, inventorRepo, teamMemberRepo, filingRepo, entityLinkRepo, checklistItemRepo, alertRepo)

	// Startup alert passes: optional seed file, then the checklist due
	// sweep so stale due dates surface immediately after a restart.
	bootCtx := context.Background()
	if alertSeedPath != "" {
		if n, seedErr := alertService.Seed(bootCtx, alertSeedPath); seedErr != nil {
			log.Warn("Alert seeding failed", "path", alertSeedPath, "error", seedErr)
		} else {
			log.Info("Alert seeding complete", "created", n)
		}
	}
	if n, sweepErr := alertService.SweepChecklistDue(bootCtx, time.Now()); sweepErr != nil {
		log.Warn("Checklist due sweep failed", "error", sweepErr)
	} else {
		log.Info("Checklist due sweep complete", "created", n)
	}

	// Handlers
	log.Info("Setting up handlers from main...")
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	sseHandler := handlers.NewSSEHandler(sseHub)
	disclosureHandler := handlers.NewDisclosureHandler(disclosureService)
	projectHandler := handlers.NewProjectHandler(projectService)
	agreementHandler := handlers.NewAgreementHandler(agreementService)
	startupHandler := handlers.NewStartupHandler(startupService)
	inventorHandler := handlers.NewInventorHandler(inventorService)
	teamMemberHandler := handlers.NewTeamMemberHandler(teamMemberService)
	filingHandler := handlers.NewFilingHandler(filingService)
	linkHandler := handlers.NewLinkHandler(linkService)
	activityHandler := handlers.NewActivityHandler(log, activityService, resolver, alertService)
	checklistHandler := handlers.NewChecklistHandler(checklistService)
	alertHandler := handlers.NewAlertHandler(alertService)
	statsHandler := handlers.NewStatsHandler(statsService)

	// Middleware
	log.Info("Setting up middleware from main...")
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	// Router
	log.Info("Setting up router from main...")
	var origins []string
	if corsOrigins != "" {
		for _, o := range strings.Split(corsOrigins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}
	router := server.NewRouter(server.RouterConfig{
		AuthHandler:       authHandler,
		AuthMiddleware:    authMiddleware,
		UserHandler:       userHandler,
		DisclosureHandler: disclosureHandler,
		ProjectHandler:    projectHandler,
		AgreementHandler:  agreementHandler,
		StartupHandler:    startupHandler,
		InventorHandler:   inventorHandler,
		TeamMemberHandler: teamMemberHandler,
		FilingHandler:     filingHandler,
		LinkHandler:       linkHandler,
		ActivityHandler:   activityHandler,
		ChecklistHandler:  checklistHandler,
		AlertHandler:      alertHandler,
		StatsHandler:      statsHandler,
		SSEHandler:        sseHandler,
		AllowOrigins:      origins,
		MediaDir:          mediaDir,
	})

	port := utils.GetEnv("PORT", "8080", log)
	fmt.Printf("Server listening on :%s\n", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
	}
}
