package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	bookingdomain "github.com/smallbiznis/venuebook/internal/booking/domain"
	"github.com/smallbiznis/venuebook/internal/report"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (s *Server) ExportBookings(c *gin.Context) {
	var query struct {
		Status    string `form:"status"`
		EventFrom string `form:"event_from"`
		EventTo   string `form:"event_to"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	eventFrom, err := parseOptionalTime(query.EventFrom, false)
	if err != nil {
		AbortWithError(c, newValidationError("event_from", "invalid_event_from", "invalid event_from"))
		return
	}
	eventTo, err := parseOptionalTime(query.EventTo, true)
	if err != nil {
		AbortWithError(c, newValidationError("event_to", "invalid_event_to", "invalid event_to"))
		return
	}

	body, err := s.reports.BookingsWorkbook(c.Request.Context(), report.Request{
		Status:    bookingdomain.Status(strings.ToLower(strings.TrimSpace(query.Status))),
		EventFrom: eventFrom,
		EventTo:   eventTo,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	filename := fmt.Sprintf("bookings-%s.xlsx", s.now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, body)
}
