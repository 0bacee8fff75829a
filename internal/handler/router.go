package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/snnyvrz/bookcatalog/internal/auth"
	"github.com/snnyvrz/bookcatalog/internal/repository"
	"github.com/snnyvrz/bookcatalog/internal/service"
	"gorm.io/gorm"
)

// Services bundles every service the API exposes.
type Services struct {
	Authors AuthorService
	Genres  GenreService
	Books   BookService
	Reviews ReviewService
	Users   UserService
	Tokens  *auth.Issuer
}

// NewServices wires the gorm repositories into the services.
func NewServices(db *gorm.DB, tokens *auth.Issuer) Services {
	authors := repository.NewAuthorRepository(db)
	genres := repository.NewGenreRepository(db)
	books := repository.NewBookRepository(db)
	reviews := repository.NewReviewRepository(db)
	users := repository.NewUserRepository(db)

	return Services{
		Authors: service.NewAuthorService(authors, reviews),
		Genres:  service.NewGenreService(genres, books, reviews),
		Books:   service.NewBookService(books, authors, genres, reviews),
		Reviews: service.NewReviewService(reviews, books, users),
		Users:   service.NewUserService(users, reviews, tokens),
		Tokens:  tokens,
	}
}

// RegisterAPI mounts every resource handler under r.
func RegisterAPI(r *gin.RouterGroup, s Services) {
	NewAuthorHandler(s.Authors).RegisterRoutes(r)
	NewGenreHandler(s.Genres).RegisterRoutes(r)
	NewBookHandler(s.Books).RegisterRoutes(r)
	NewReviewHandler(s.Reviews).RegisterRoutes(r)
	NewUserHandler(s.Users, s.Tokens).RegisterRoutes(r)
}
