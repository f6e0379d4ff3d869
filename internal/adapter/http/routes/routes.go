package routes

import (
	"net/http"
	"strconv"

	_ "fixflow_crm/docs" // swag-generated
	"fixflow_crm/internal/adapter/http/handlers"
	repository2 "fixflow_crm/internal/adapter/persistence/repository"
	"fixflow_crm/internal/infrastructure/config"
	"fixflow_crm/internal/infrastructure/database"
	"fixflow_crm/internal/infrastructure/payments"
	"fixflow_crm/internal/usecase"
	"fixflow_crm/internal/usecase/interfaces"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

var router = gin.Default()

// Run will start the server
func Run() {
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	setMiddlewares()

	// Swagger documentation endpoint
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	getRoutes(cfg)

	if err := router.Run(cfg.ServiceHost + ":" + strconv.Itoa(cfg.ServicePort)); err != nil {
		log.Fatalf("Failed to startup the application: %v", err.Error())
	}
}

func getRoutes(cfg *config.Config) {
	ddb := database.ConnectDynamoDB(cfg.AWS)

	estimateRepo := repository2.NewEstimateDynamoRepository(ddb)
	jobRepo := repository2.NewJobDynamoRepository(ddb)
	invoiceRepo := repository2.NewInvoiceDynamoRepository(ddb)

	allocator := usecase.NewSequenceAllocator(repository2.NewDocumentCounter(estimateRepo, jobRepo, invoiceRepo))
	lifecycle := usecase.NewLifecycleUseCase(estimateRepo, jobRepo, invoiceRepo, allocator)

	estimateUseCase := usecase.NewEstimateUseCase(estimateRepo, allocator, lifecycle)
	jobUseCase := usecase.NewJobUseCase(jobRepo, allocator, lifecycle)

	var paymentGateway interfaces.IPaymentGateway
	mpGateway, err := payments.NewMercadoPagoGateway(cfg.Payments.AccessToken, cfg.Payments.MockMode)
	if err != nil {
		log.Printf("Mercado Pago gateway not configured: %v", err)
	} else {
		paymentGateway = mpGateway
	}

	invoiceUseCase := usecase.NewInvoiceUseCase(invoiceRepo, paymentGateway)

	estimateHandler := handlers.NewEstimateHandler(estimateUseCase)
	jobHandler := handlers.NewJobHandler(jobUseCase)
	invoiceHandler := handlers.NewInvoiceHandler(invoiceUseCase)

	v1 := router.Group("/v1")
	addPingRoutes(v1)
	addCRMRoutes(v1, estimateHandler, jobHandler, invoiceHandler)
}

func addPingRoutes(rg *gin.RouterGroup) {
	rg.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
}

func setMiddlewares() {
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Printf("Recovered from panic: %v", recovered)
		c.AbortWithStatus(500)
	}))
}
