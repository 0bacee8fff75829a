package handler

import (
	"github.com/snnyvrz/bookcatalog/internal/service"
)

type AuthorResponse struct {
	Data service.AuthorDTO `json:"data"`
}

type AuthorDetailResponse struct {
	Data service.AuthorDetail `json:"data"`
}

type ListAuthorsResponse struct {
	Data []service.AuthorDTO `json:"data"`
}

type GenreResponse struct {
	Data service.GenreDTO `json:"data"`
}

type GenreDetailResponse struct {
	Data service.GenreDetail `json:"data"`
}

type ListGenresResponse struct {
	Data []service.GenreDTO `json:"data"`
}

type BookResponse struct {
	Data service.BookDTO `json:"data"`
}

type ListBooksResponse struct {
	Data []service.BookDTO `json:"data"`
}

type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

type SearchBooksResponse struct {
	Data       []service.BookDTO `json:"data"`
	Pagination Pagination        `json:"pagination"`
}

type ReviewResponse struct {
	Data service.ReviewDTO `json:"data"`
}

type ListReviewsResponse struct {
	Data []service.ReviewDTO `json:"data"`
}

type AverageRating struct {
	BookID        int     `json:"book_id"`
	AverageRating float64 `json:"average_rating"`
}

type AverageRatingResponse struct {
	Data AverageRating `json:"data"`
}

type ReviewCount struct {
	BookID      int   `json:"book_id"`
	ReviewCount int64 `json:"review_count"`
}

type ReviewCountResponse struct {
	Data ReviewCount `json:"data"`
}

type UserResponse struct {
	Data service.UserDTO `json:"data"`
}

type ListUsersResponse struct {
	Data []service.UserDTO `json:"data"`
}

type UserDetailResponse struct {
	Data service.UserDetail `json:"data"`
}

type ListUserDetailsResponse struct {
	Data []service.UserDetail `json:"data"`
}

type LoginResponse struct {
	Data service.LoginResult `json:"data"`
}

// FlagResponse carries a single yes/no answer, e.g. {"data":{"in_use":true}}.
type FlagResponse struct {
	Data map[string]bool `json:"data" swaggertype:"object,boolean"`
}

func flag(name string, value bool) FlagResponse {
	return FlagResponse{Data: map[string]bool{name: value}}
}
