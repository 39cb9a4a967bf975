package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	catalogdomain "github.com/smallbiznis/venuebook/internal/catalog/domain"
)

// -------- Equipment --------

func (s *Server) ListEquipment(c *gin.Context) {
	items, err := s.catalogSvc.ListEquipment(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (s *Server) CreateEquipment(c *gin.Context) {
	var req catalogdomain.CreateEquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.Code = strings.TrimSpace(req.Code)
	req.Name = strings.TrimSpace(req.Name)

	resp, err := s.catalogSvc.CreateEquipment(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetEquipment(c *gin.Context) {
	resp, err := s.catalogSvc.GetEquipment(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// -------- Services --------

func (s *Server) ListOfferings(c *gin.Context) {
	items, err := s.catalogSvc.ListOfferings(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (s *Server) CreateOffering(c *gin.Context) {
	var req catalogdomain.CreateOfferingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.Code = strings.TrimSpace(req.Code)
	req.Name = strings.TrimSpace(req.Name)

	resp, err := s.catalogSvc.CreateOffering(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetOffering(c *gin.Context) {
	resp, err := s.catalogSvc.GetOffering(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isCatalogValidationError(err error) bool {
	switch err {
	case catalogdomain.ErrInvalidCode,
		catalogdomain.ErrInvalidName,
		catalogdomain.ErrInvalidRate,
		catalogdomain.ErrInvalidRateType,
		catalogdomain.ErrInvalidCommissionPct,
		catalogdomain.ErrInvalidID,
		catalogdomain.ErrUnknownItem:
		return true
	default:
		return false
	}
}
