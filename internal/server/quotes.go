package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	quotedomain "github.com/smallbiznis/venuebook/internal/quote/domain"
)

func (s *Server) PreviewQuote(c *gin.Context) {
	var req quotedomain.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.TierCode = strings.TrimSpace(req.TierCode)
	req.PackageKind = strings.TrimSpace(req.PackageKind)
	c.Set("tier_code", req.TierCode)

	quote, err := s.quoteSvc.Preview(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": quote})
}

// EstimatePackage answers the landing page calculator:
// GET /api/quotes/estimate?duration_hours=6&guests=120
func (s *Server) EstimatePackage(c *gin.Context) {
	var query struct {
		DurationHours string `form:"duration_hours"`
		Guests        string `form:"guests"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	duration, err := decimal.NewFromString(strings.TrimSpace(query.DurationHours))
	if err != nil {
		AbortWithError(c, newValidationError("duration_hours", "invalid_duration_hours", "invalid duration_hours"))
		return
	}
	guests, err := parseOptionalInt(query.Guests)
	if err != nil || guests == nil {
		AbortWithError(c, newValidationError("guests", "invalid_guests", "invalid guests"))
		return
	}

	estimate, err := s.quoteSvc.Estimate(c.Request.Context(), duration, *guests)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": estimate})
}

func isQuoteValidationError(err error) bool {
	switch {
	case errors.Is(err, quotedomain.ErrInvalidTier),
		errors.Is(err, quotedomain.ErrInvalidEquipment),
		errors.Is(err, quotedomain.ErrInvalidService),
		errors.Is(err, quotedomain.ErrInvalidPackage),
		errors.Is(err, quotedomain.ErrFlatRateNotFound),
		errors.Is(err, quotedomain.ErrInvalidGuestCount),
		errors.Is(err, quotedomain.ErrInvalidInput):
		return true
	default:
		return false
	}
}
