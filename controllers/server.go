package controllers

import (
	"context"
	"log"
	"net/http"
	"os"

	firebase "firebase.google.com/go/v4"
	"github.com/go-playground/validator"
	"github.com/hibiken/asynq"
	echojwt "github.com/labstack/echo-jwt"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"roomvizapi/models"
	"roomvizapi/services"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func SetupServer(
	db *gorm.DB,
	awsService services.AWSServiceProvider,
	predictor services.PricePredictionProvider,
	firebaseApp *firebase.App,
	asynqClient *asynq.Client,
	asynqInspector *asynq.Inspector,
	urlCache services.URLCacheServiceProvider,
) *echo.Echo {

	err := awsService.InitPresignClient(context.Background())
	if err != nil {
		log.Fatal("Failed to initialize AWS provider: S3")
	}

	e := echo.New()

	v := validator.New()
	v.RegisterValidation("platform", models.ValidatePlatform)
	v.RegisterValidation("furniture_type", models.ValidateFurnitureType)
	v.RegisterValidation("ambiance", models.ValidateAmbiance)
	v.RegisterValidation("lighting", models.ValidateLighting)
	e.Validator = &CustomValidator{validator: v}

	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("__db", db)
			c.Set("__asynqclient", asynqClient)
			c.Set("__asynqinspector", asynqInspector)
			return next(c)
		}
	})

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	configStore := services.NewResilientConfigStore(db)
	scenes := NewSceneRegistry()

	vizGroup := e.Group("/viz", echojwt.JWT([]byte(os.Getenv("JWT_SECRET"))))
	vizGroup.Use(UserMiddleware)

	scanController := ScanController{AWSService: awsService, FirebaseApp: firebaseApp, URLCache: urlCache}
	scanController.ScanRoutes(vizGroup.Group("/scans"))

	visualizerController := VisualizerController{Predictor: predictor}
	visualizerController.VisualizerRoutes(vizGroup)

	sceneController := SceneController{Scenes: scenes}
	sceneController.SceneRoutes(vizGroup.Group("/scenes"))

	configController := ConfigController{Store: configStore}
	configController.ConfigRoutes(vizGroup.Group("/configs"))

	return e
}
