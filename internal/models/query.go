package models

// UserSearchCount is the number of searches one user ran in a range.
type UserSearchCount struct {
	Email string `json:"email" example:"alice@example.com"`
	Count int64  `json:"count" example:"42"`
} // @name UserSearchCount

// DaySearchCount is the number of searches on one UTC day.
type DaySearchCount struct {
	Date  string `json:"date" example:"2025-01-31"`
	Count int64  `json:"count" example:"17"`
} // @name DaySearchCount

// UserDaySearches groups one user's searches on a given day.
type UserDaySearches struct {
	Email   string            `json:"email"`
	Count   int               `json:"count"`
	Entries []StoredSearchLog `json:"entries"`
} // @name UserDaySearches

// ListUserSearchesQuery represents query parameters for a user's detail view.
type ListUserSearchesQuery struct {
	Days  int `form:"days" binding:"omitempty,min=1,max=3650" example:"30"`
	Page  int `form:"page" binding:"omitempty,min=1" example:"1"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=500" example:"50"`
} // @name ListUserSearchesQuery

// Pagination contains pagination metadata.
type Pagination struct {
	CurrentPage  int   `json:"current_page"`
	PageSize     int   `json:"page_size"`
	TotalPages   int   `json:"total_pages"`
	TotalRecords int64 `json:"total_records"`
} // @name Pagination

// UserSearchesResponse is the detail view of one user's searches.
type UserSearchesResponse struct {
	Email      string            `json:"email"`
	Days       int               `json:"days"`
	Searches   []StoredSearchLog `json:"searches"`
	Pagination Pagination        `json:"pagination"`
} // @name UserSearchesResponse

// UserCountsResponse is the dashboard index: searches per user.
type UserCountsResponse struct {
	Days  int               `json:"days"`
	Users []UserSearchCount `json:"users"`
} // @name UserCountsResponse

// MonthCountsResponse holds per-day counts for a calendar month.
type MonthCountsResponse struct {
	Year  int              `json:"year"`
	Month int              `json:"month"`
	Days  []DaySearchCount `json:"days"`
} // @name MonthCountsResponse

// DaySearchesResponse holds one day's searches grouped by user.
type DaySearchesResponse struct {
	Date  string            `json:"date"`
	Users []UserDaySearches `json:"users"`
} // @name DaySearchesResponse

// UserCountsQuery represents query parameters for the per-user counts view.
type UserCountsQuery struct {
	Days int `form:"days" binding:"omitempty,min=1,max=3650" example:"30"`
} // @name UserCountsQuery

// MonthCountsQuery selects a UTC calendar month; zero values mean "current".
type MonthCountsQuery struct {
	Year  int `form:"year" binding:"omitempty,min=1970,max=9999" example:"2025"`
	Month int `form:"month" binding:"omitempty,min=1,max=12" example:"1"`
} // @name MonthCountsQuery

// DaySearchesQuery selects one UTC day.
type DaySearchesQuery struct {
	Date string `form:"date" binding:"required" example:"2025-01-31"`
} // @name DaySearchesQuery
