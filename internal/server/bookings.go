package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	bookingdomain "github.com/smallbiznis/venuebook/internal/booking/domain"
	"github.com/smallbiznis/venuebook/internal/document"
	"github.com/smallbiznis/venuebook/internal/observability/logger"
	quotedomain "github.com/smallbiznis/venuebook/internal/quote/domain"
	"github.com/smallbiznis/venuebook/pkg/db/pagination"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

type bookingContactRequest struct {
	Name         string `json:"name" validate:"required,max=200"`
	Email        string `json:"email" validate:"required,email,max=254"`
	Phone        string `json:"phone" validate:"max=40"`
	Organization string `json:"organization" validate:"max=200"`
}

type createBookingRequest struct {
	quotedomain.QuoteRequest
	EventDate string                `json:"event_date" validate:"required"`
	Contact   bookingContactRequest `json:"contact"`
	Notes     string                `json:"notes" validate:"max=2000"`
}

func (s *Server) CreateBooking(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.TierCode = strings.TrimSpace(req.TierCode)
	req.PackageKind = strings.TrimSpace(req.PackageKind)
	req.EventDate = strings.TrimSpace(req.EventDate)
	req.Contact = bookingContactRequest{
		Name:         strings.TrimSpace(req.Contact.Name),
		Email:        strings.TrimSpace(req.Contact.Email),
		Phone:        strings.TrimSpace(req.Contact.Phone),
		Organization: strings.TrimSpace(req.Contact.Organization),
	}
	req.Notes = strings.TrimSpace(req.Notes)
	if err := validateRequest(&req); err != nil {
		AbortWithError(c, err)
		return
	}

	eventDate, ok := parseDate(req.EventDate)
	if !ok {
		AbortWithError(c, bookingdomain.ErrInvalidEventDate)
		return
	}

	ctx := c.Request.Context()
	lease, err := s.limiter.LockSubmission(ctx, req.Contact.Email)
	if err != nil {
		logger.FromContext(ctx).Warn("booking submission lock failed", zap.Error(err))
	} else if lease == nil {
		AbortWithError(c, ErrDuplicateSubmission)
		return
	}
	defer func() {
		if err := lease.Release(ctx); err != nil {
			logger.FromContext(ctx).Warn("booking submission unlock failed", zap.Error(err))
		}
	}()

	c.Set("tier_code", req.TierCode)

	resp, err := s.bookingSvc.Create(ctx, bookingdomain.CreateRequest{
		Quote: req.QuoteRequest,
		Contact: bookingdomain.ContactRequest{
			Name:         req.Contact.Name,
			Email:        req.Contact.Email,
			Phone:        req.Contact.Phone,
			Organization: req.Contact.Organization,
		},
		EventDate: eventDate,
		Notes:     req.Notes,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) GetBooking(c *gin.Context) {
	resp, err := s.bookingSvc.Get(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// GetBookingLines returns the display lines rebuilt from the frozen snapshot.
func (s *Server) GetBookingLines(c *gin.Context) {
	detail, itemization, err := s.bookingSvc.Itemize(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"reference":   detail.Booking.Reference,
		"lines":       itemization.Lines,
		"line_total":  itemization.LineTotal,
		"grand_total": itemization.GrandTotal,
	}})
}

type renderedQuote struct {
	reference string
	body      []byte
}

const quotePDFRenderTimeout = 30 * time.Second

// GetBookingQuotePDF regenerates the quote document from the frozen booking.
// Concurrent downloads of one booking share a single render. The shared
// render outlives any one caller's request; each caller only stops waiting.
func (s *Server) GetBookingQuotePDF(c *gin.Context) {
	ctx := c.Request.Context()
	reference := strings.ToUpper(strings.TrimSpace(c.Param("id")))

	result := s.pdfGroup.DoChan(reference, func() (interface{}, error) {
		renderCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), quotePDFRenderTimeout)
		defer cancel()
		return s.renderQuotePDF(renderCtx, reference)
	})
	var res singleflight.Result
	select {
	case <-ctx.Done():
		AbortWithError(c, ctx.Err())
		return
	case res = <-result:
	}
	if res.Err != nil {
		AbortWithError(c, res.Err)
		return
	}
	rendered := res.Val.(renderedQuote)

	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", "quote-"+rendered.reference+".pdf"))
	c.Data(http.StatusOK, "application/pdf", rendered.body)
}

func (s *Server) renderQuotePDF(ctx context.Context, reference string) (renderedQuote, error) {
	detail, itemization, err := s.bookingSvc.Itemize(ctx, reference)
	if err != nil {
		return renderedQuote{}, err
	}

	data := document.NewQuoteData(s.cfg.VenueName, s.cfg.VenueEmail, *detail, itemization)
	reader, err := s.renderer.RenderQuote(ctx, data)
	if err != nil {
		return renderedQuote{}, err
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return renderedQuote{}, err
	}
	return renderedQuote{reference: detail.Booking.Reference, body: body}, nil
}

func (s *Server) ListBookings(c *gin.Context) {
	var query struct {
		pagination.Pagination
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

	resp, err := s.bookingSvc.List(c.Request.Context(), bookingdomain.ListRequest{
		Status:    bookingdomain.Status(strings.ToLower(strings.TrimSpace(query.Status))),
		EventFrom: eventFrom,
		EventTo:   eventTo,
		PageToken: query.PageToken,
		PageSize:  query.PageSize,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CancelBooking(c *gin.Context) {
	resp, err := s.bookingSvc.Cancel(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isBookingValidationError(err error) bool {
	switch err {
	case bookingdomain.ErrInvalidEventDate,
		bookingdomain.ErrInvalidReference,
		bookingdomain.ErrInvalidStatus,
		bookingdomain.ErrInvalidPageToken:
		return true
	default:
		return false
	}
}
