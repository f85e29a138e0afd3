package container

import (
	"github.com/joshua-takyi/tampabay/internal/config"
	"github.com/joshua-takyi/tampabay/internal/helpers"
	"github.com/joshua-takyi/tampabay/internal/models"
	"github.com/joshua-takyi/tampabay/internal/services"
	"github.com/rs/zerolog"
	"github.com/uptrace/bun"
	"go.mongodb.org/mongo-driver/mongo"
)

// Repos groups the storage implementations the services run on.
type Repos struct {
	Events  models.EventsRepo
	Reviews models.ReviewsRepo
	Users   models.UserRepo
	// Views is nil when view tracking is disabled.
	Views models.EventViewsRepo
}

// PostgresRepos wires the relational store, plus MongoDB view tracking when a
// client is given.
func PostgresRepos(db *bun.DB, mongoClient *mongo.Client, mongoDB string) Repos {
	pg := models.PostgresNewRepo(db)
	repos := Repos{
		Events:  pg,
		Reviews: pg,
		Users:   pg,
	}
	if mongoClient != nil {
		repos.Views = models.MongodbNewRepo(mongoClient, mongoDB)
	}
	return repos
}

// Container holds all application dependencies
type Container struct {
	Logger zerolog.Logger
	Config *config.Config
	Tokens *helpers.Tokens

	UserService   *services.UserService
	EventService  *services.EventService
	ReviewService *services.ReviewService
	ViewService   *services.ViewService
}

// NewContainer creates a new dependency injection container
func NewContainer(logger zerolog.Logger, cfg *config.Config, tokens *helpers.Tokens, repos Repos) *Container {
	return &Container{
		Logger:        logger,
		Config:        cfg,
		Tokens:        tokens,
		UserService:   services.NewUserService(repos.Users, tokens),
		EventService:  services.NewEventService(repos.Events),
		ReviewService: services.NewReviewService(repos.Reviews, repos.Events),
		ViewService:   services.NewViewService(repos.Views, repos.Events),
	}
}
