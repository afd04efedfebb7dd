package api

import (
	"fmt"      // Cache key formatting
	"net/http" // HTTP status codes
	"strconv"  // String conversion

	"legal_practice/internal/utils" // Cache helpers
	"legal_practice/internal/wire"  // JSON shapes

	"github.com/gin-gonic/gin" // Gin web framework
)

// UserPage is the paginated account listing returned to admins
type UserPage struct {
	Users      []wire.User `json:"users"`       // Accounts on this page
	Page       int         `json:"page"`        // Current page
	PageSize   int         `json:"page_size"`   // Page size
	Total      int64       `json:"total"`       // Total number of accounts
	TotalPages int         `json:"total_pages"` // Total pages
	Cached     bool        `json:"cached"`      // Whether the response came from cache
}

// ListUsersHandler returns all accounts, newest first, paginated
func ListUsersHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		page := 1      // Default page number
		pageSize := 20 // Default page size
		if p := c.Query("page"); p != "" {
			if v, err := strconv.Atoi(p); err == nil && v > 0 {
				page = v // Set page if valid
			}
		}
		// Check and set page size within limits
		if ps := c.Query("page_size"); ps != "" {
			if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
				pageSize = v // Set page size
			}
		}
		// Create a cache key based on the effective pagination
		cacheKey := fmt.Sprintf("admin:users:page=%d:size=%d", page, pageSize)
		var cached UserPage
		found, err := utils.GetCache(ctx, d.Cache, cacheKey, &cached)
		if err == nil && found {
			cached.Cached = true // Indicate response is from cache
			c.JSON(http.StatusOK, cached)
			return
		}
		offset := int64(page-1) * int64(pageSize) // Calculate offset for pagination
		users, total, err := d.Users.List(ctx, offset, int64(pageSize))
		if err != nil {
			respondError(c, d.Log, err, "Failed to fetch users")
			return
		}
		resp := UserPage{
			Users:      make([]wire.User, 0, len(users)),       // Accounts on this page
			Page:       page,                                   // Current page
			PageSize:   pageSize,                               // Page size
			Total:      total,                                  // Total number of accounts
			TotalPages: (int(total) + pageSize - 1) / pageSize, // Calculate total pages
		}
		// Map users to response format
		for i := range users {
			resp.Users = append(resp.Users, wire.FromUser(&users[i]))
		}
		// Cache the response for future requests
		_ = utils.SetCache(ctx, d.Cache, cacheKey, resp, d.CacheTTL)
		c.JSON(http.StatusOK, resp) // Return the response
	}
}
