package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/koheitakada/machimeet/internal/app/models/dto"
	"github.com/koheitakada/machimeet/internal/app/services"
	"github.com/koheitakada/machimeet/internal/middleware"
	"github.com/koheitakada/machimeet/internal/pkg/apperrors"
)

// SearchController handles the event search endpoint
type SearchController struct {
	searchService *services.SearchService
	logger        zerolog.Logger
}

// NewSearchController creates a new SearchController
func NewSearchController(searchService *services.SearchService, logger zerolog.Logger) *SearchController {
	return &SearchController{
		searchService: searchService,
		logger:        logger,
	}
}

// Search finds events by keyword, dates and radius
// @Summary Search events
// @Description Filters by keyword, date range (interval overlap) and radius around a location, then sorts by distance, date or recency.
// @Tags search
// @Accept json
// @Produce json
// @Param request body dto.SearchRequest true "Search filters"
// @Success 200 {object} dto.APIResponse{data=[]dto.EventResponse}
// @Failure 400 {object} dto.ErrorResponse "Inconsistent filters"
// @Router /searchs [post]
func (c *SearchController) Search(ctx *gin.Context) {
	var req dto.SearchRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	params := services.SearchParams{
		Keyword:  req.Keyword,
		Lat:      req.Lat,
		Lng:      req.Lng,
		RadiusKm: req.Radius,
		HidePast: req.HidePast,
		Sort:     req.Sort,
	}
	var err error
	if params.DateFrom, err = parseSearchDate(req.DateFrom, false); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if params.DateTo, err = parseSearchDate(req.DateTo, true); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	results, err := c.searchService.Search(ctx.Request.Context(), params)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	responses := make([]dto.EventResponse, 0, len(results))
	for _, result := range results {
		responses = append(responses, toEventResponse(result.Event, result.Distance))
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(responses))
}

// parseSearchDate reads a YYYY-MM-DD filter bound. The upper bound covers
// the whole named day, so it lands on the last instant of it.
func parseSearchDate(value string, endOfDay bool) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed,
			"dates must be in YYYY-MM-DD format")
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
