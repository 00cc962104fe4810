package app

import (
	bookinghandler "rentals/internal/bookings/handler"
	bookingrepo "rentals/internal/bookings/repository"
	bookingservice "rentals/internal/bookings/service"
	bookingvalidator "rentals/internal/bookings/validator"
	propertyhandler "rentals/internal/properties/handler"
	propertyrepo "rentals/internal/properties/repository"
	propertyservice "rentals/internal/properties/service"
	propertyvalidator "rentals/internal/properties/validator"
	reviewhandler "rentals/internal/reviews/handler"
	reviewrepo "rentals/internal/reviews/repository"
	reviewservice "rentals/internal/reviews/service"
	reviewvalidator "rentals/internal/reviews/validator"
	userhandler "rentals/internal/users/handler"
	userrepo "rentals/internal/users/repository"
	userservice "rentals/internal/users/service"
	uservalidator "rentals/internal/users/validator"
	"rentals/pkg/auth"
	"rentals/pkg/config"
	"rentals/pkg/events"
	"rentals/pkg/middleware"
)

// NewRentalsApplication wires the users, properties, bookings and reviews
// domains over the Mongo client in cfg. cfg.SetMongo must have been called.
func NewRentalsApplication(cfg *config.Config, publisher events.Publisher) *Application {
	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.JWTDuration)
	hasher := auth.NewPasswordHasher(cfg.BcryptCost)

	userService := userservice.NewUserService(
		userrepo.NewMongoUserRepository(cfg),
		uservalidator.NewUserValidator(cfg.Log),
		tokens,
		hasher,
		cfg,
	)

	// Bookings read properties straight from Mongo inside their transaction;
	// everything else goes through the cache.
	mongoProperties := propertyrepo.NewMongoPropertyRepository(cfg)
	cachedProperties := propertyrepo.NewCachedPropertyRepository(mongoProperties, cfg.PropertyCacheTTL, cfg.PropertyCacheSize, cfg.Log)

	propertyService := propertyservice.NewPropertyService(
		cachedProperties,
		propertyvalidator.NewPropertyValidator(cfg.Log),
		publisher,
		cfg,
	)

	bookingService := bookingservice.NewBookingService(
		bookingrepo.NewMongoBookingRepository(cfg),
		bookingrepo.NewBookingLockRepository(cfg),
		mongoProperties,
		bookingvalidator.NewBookingValidator(cfg.Log, cfg.BookingIgnoreCancelled),
		publisher,
		cfg,
	)

	reviewService := reviewservice.NewReviewService(
		reviewrepo.NewMongoReviewRepository(cfg),
		cachedProperties,
		reviewvalidator.NewReviewValidator(cfg.Log),
		publisher,
		cfg,
	)

	cfg.Log.Info("Rental services initialized", "database", cfg.MongoDatabaseName)

	application := NewApplication(cfg)
	application.SetApp(
		middleware.NewAuthenticator(tokens, userService, cfg.Log),
		userhandler.NewUserHandler(userService, cfg.Log),
		propertyhandler.NewPropertyHandler(propertyService, cfg.Log),
		bookinghandler.NewBookingHandler(bookingService, cfg.Log),
		reviewhandler.NewReviewHandler(reviewService, cfg.Log),
	)
	application.OnShutdown("property-cache", func() error {
		cachedProperties.Stop()
		return nil
	})
	application.OnShutdown("event-publisher", publisher.Close)
	return application
}
