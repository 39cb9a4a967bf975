package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	flatratedomain "github.com/smallbiznis/venuebook/internal/flatrate/domain"
)

func (s *Server) ListFlatRates(c *gin.Context) {
	rates, err := s.flatRateSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": rates})
}

func (s *Server) CreateFlatRate(c *gin.Context) {
	var req flatratedomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.PackageKind = strings.TrimSpace(req.PackageKind)
	req.Name = strings.TrimSpace(req.Name)

	resp, err := s.flatRateSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isFlatRateValidationError(err error) bool {
	switch err {
	case flatratedomain.ErrInvalidKind,
		flatratedomain.ErrInvalidName,
		flatratedomain.ErrInvalidRange,
		flatratedomain.ErrInvalidRate:
		return true
	default:
		return false
	}
}
