package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/brassloom/brassloom/internal/storage"
)

type Server struct {
	store *storage.Store
}

func NewServer(store *storage.Store) *Server {
	return &Server{store: store}
}

func (s *Server) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", s.health)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/opportunities", s.listOpportunities)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) listOpportunities(c *gin.Context) {
	source := c.Query("source")

	minScore, err := strconv.Atoi(c.DefaultQuery("min_score", "0"))
	if err != nil || minScore < 0 {
		minScore = 0
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if err != nil || limit <= 0 {
		limit = 100
	}

	items, err := s.store.ListOpportunities(source, minScore, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    "internal_error",
			"message": "internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    "ok",
		"message": "success",
		"data":    items,
	})
}
