package main

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"compliance-service/internal/config"
	"compliance-service/internal/db"
	"compliance-service/internal/event"
	"compliance-service/internal/handlers"
	"compliance-service/internal/middleware"
	"compliance-service/internal/models"
	"compliance-service/internal/notification"
	"compliance-service/internal/repository"
	"compliance-service/internal/selection"
	"compliance-service/internal/service"
	"compliance-service/pkg/logger"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.GinMode)
	defer logger.Log.Sync()

	db.InitMongo(cfg.MongoURI)
	database := db.Client.Database(cfg.MongoDatabase)

	// RabbitMQ carries outbound events, including result emails. The
	// service still scores and reports without it.
	var publisher *event.Publisher
	if cfg.RabbitMQURI != "" {
		var err error
		publisher, err = event.NewPublisher(cfg.RabbitMQURI, cfg.RabbitMQExchange)
		if err != nil {
			logger.Log.Fatal("rabbitmq connect failed", zap.Error(err))
		}
		defer publisher.Close()
	} else {
		logger.Log.Warn("RabbitMQ not configured, events and result emails disabled")
	}

	gin.SetMode(cfg.GinMode)
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.AllowedOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Content-Length", "Accept-Encoding", "X-CSRF-Token", "Authorization", "accept", "origin", "Cache-Control", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	questionRepo := repository.NewQuestionRepository(database)
	optionRepo := repository.NewOptionRepository(database)
	answerRepo := repository.NewAnswerRepository(database)
	resultRepo := repository.NewResultRepository(database)
	subPolicyRepo := repository.NewSubPolicyRepository(database)
	settingRepo := repository.NewPolicySettingRepository(database)
	employeeRepo := repository.NewEmployeeRepository(database)

	var notifier service.ResultNotifier
	if publisher != nil {
		notifier = notification.NewNotifier(employeeRepo, subPolicyRepo,
			&notification.QueueSender{Publisher: publisher})
	}

	scoringService := service.NewScoringService(questionRepo, answerRepo, resultRepo, settingRepo, notifier)
	reportService := service.NewReportService(subPolicyRepo)
	adminReportService := service.NewAdminReportService(resultRepo, employeeRepo)
	questionService := service.NewQuestionService(questionRepo, optionRepo, subPolicyRepo, settingRepo, selection.NewSampler())
	subPolicyService := service.NewSubPolicyService(subPolicyRepo, settingRepo)

	answerHandler := handlers.NewAnswerHandler(scoringService)
	resultHandler := handlers.NewResultHandler(reportService, adminReportService)
	questionHandler := handlers.NewQuestionHandler(questionService)
	subPolicyHandler := handlers.NewSubPolicyHandler(subPolicyService)

	public := r.Group("/public/compliance")
	{
		public.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok", "service": cfg.ServiceName})
		})
	}

	protected := r.Group("/protected/compliance")
	protected.Use(middleware.Auth())

	answer := protected.Group("/answer")
	{
		answer.POST("/submit", func(c *gin.Context) {
			answerHandler.SubmitAnswers(c)
			if publisher != nil {
				err := publisher.Publish("compliance.answers.submitted", gin.H{
					"employeeId": middleware.EmployeeID(c),
					"timestamp":  time.Now(),
				})
				if err != nil {
					logger.Log.Warn("event publish failed",
						zap.String("type", "compliance.answers.submitted"), zap.Error(err))
				}
			}
		})
		answer.POST("/list", answerHandler.GetSubmittedAnswers)
	}

	report := protected.Group("/report")
	{
		report.POST("/completed", resultHandler.CompletedList)
		report.POST("/outstanding", resultHandler.OutstandingList)
		report.POST("/fleet", middleware.RequireRole(models.RoleAdmin), resultHandler.FleetSummary)
	}

	question := protected.Group("/question")
	{
		question.POST("/list", questionHandler.ListQuestions)
		question.POST("/exam", questionHandler.ExamQuestions)
		question.GET("/:id", questionHandler.QuestionDetail)

		admin := question.Group("", middleware.RequireRole(models.RoleAdmin))
		admin.POST("/", questionHandler.CreateQuestions)
		admin.PUT("/:id", questionHandler.UpdateQuestion)
		admin.DELETE("/:id", questionHandler.DeleteQuestion)
	}

	subPolicy := protected.Group("/subpolicy")
	{
		subPolicy.POST("/list", subPolicyHandler.ListSubPolicies)
		subPolicy.GET("/:id", subPolicyHandler.SubPolicyDetail)
		subPolicy.GET("/:id/setting", subPolicyHandler.PolicySettingDetail)

		admin := subPolicy.Group("", middleware.RequireRole(models.RoleAdmin))
		admin.POST("/", subPolicyHandler.CreateSubPolicy)
		admin.DELETE("/:id", subPolicyHandler.DeleteSubPolicy)
		admin.POST("/setting", subPolicyHandler.SavePolicySetting)
	}

	logger.Log.Info("starting", zap.String("service", cfg.ServiceName), zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Log.Fatal("server exited", zap.Error(err))
	}
}
