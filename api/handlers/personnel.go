package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/chiehyu/popodoc/config"
	"github.com/chiehyu/popodoc/db/persondb"
	"github.com/chiehyu/popodoc/logger"
	"github.com/chiehyu/popodoc/validation"
	"github.com/gin-gonic/gin"
)

const HeaderPaginationTotalCount = "X-Pagination-Total-Count"

type ListPersonnelRequest struct {
	Skip       int    `form:"skip" json:"skip" validate:"min=0"`
	Limit      int    `form:"limit" json:"limit" validate:"min=0,max=500"`
	City       string `form:"city" json:"city" validate:"valid_filter,max=50"`
	Hospital   string `form:"hospital" json:"hospital" validate:"valid_filter,max=200"`
	Department string `form:"department" json:"department" validate:"valid_filter,max=100"`
	University string `form:"university" json:"university" validate:"valid_filter,max=200"`
	Name       string `form:"name" json:"name" validate:"valid_filter,max=100"`
}

// setDefaults only fills an absent limit; an out-of-range limit is left as-is
// for validation to reject.
func (r *ListPersonnelRequest) setDefaults(defaultLimit int) {
	if r.Limit == 0 {
		r.Limit = defaultLimit
	}
}

func SetupPersonnel(router *gin.Engine, logger logger.Logger, db persondb.DB, validator *validation.Validator, cfg *config.Config) {
	router.GET("/api/personnel", handleListPersonnel(db, logger, validator, cfg.GetPersonnelPageLimit()))
	router.GET("/api/personnel/cities", handleDistinctValues(db.DistinctCities, logger))
	router.GET("/api/personnel/departments", handleDistinctValues(db.DistinctDepartments, logger))
	router.GET("/api/personnel/universities", handleDistinctValues(db.DistinctUniversities, logger))
	router.GET("/api/personnel/:id", handleGetPersonnel(db, logger))
}

func handleListPersonnel(db persondb.DB, logger logger.Logger, validator *validation.Validator, defaultLimit int) gin.HandlerFunc {
	return func(c *gin.Context) {
		request := ListPersonnelRequest{}
		if err := c.ShouldBindQuery(&request); err != nil {
			logger.Warn("could not extract expected params from personnel list request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusUnprocessableEntity, []string{"failed to extract request query parameters"})
			return
		}
		request.setDefaults(defaultLimit)

		if err := validator.Validate(request); err != nil {
			logger.Warn("could not validate personnel list request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
			return
		}

		filter := persondb.Filter{
			City:       request.City,
			Hospital:   request.Hospital,
			Department: request.Department,
			University: request.University,
			Name:       request.Name,
		}

		people, err := db.Find(c.Request.Context(), filter, request.Limit, request.Skip)
		if err != nil {
			logger.Error("personnel list failed", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusInternalServerError, []string{err.Error()})
			return
		}

		totalCount, err := db.Count(c.Request.Context(), filter)
		if err != nil {
			logger.Error("personnel count failed", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusInternalServerError, []string{err.Error()})
			return
		}

		c.Header(HeaderPaginationTotalCount, strconv.FormatInt(totalCount, 10))
		writeResponse(c, people, http.StatusOK, nil)
	}
}

func handleGetPersonnel(db persondb.DB, logger logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.Abort()
			writeResponse(c, nil, http.StatusUnprocessableEntity, []string{"personnel id must be an integer"})
			return
		}

		person, err := db.GetByID(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, persondb.ErrNotFound) {
				c.Abort()
				writeResponse(c, nil, http.StatusNotFound, []string{"personnel not found"})
				return
			}
			logger.Error("personnel lookup failed", "id", id, "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusInternalServerError, []string{err.Error()})
			return
		}

		writeResponse(c, person, http.StatusOK, nil)
	}
}

func handleDistinctValues(query func(ctx context.Context) ([]string, error), logger logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		values, err := query(c.Request.Context())
		if err != nil {
			logger.Error("distinct values query failed", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusInternalServerError, []string{err.Error()})
			return
		}

		writeResponse(c, values, http.StatusOK, nil)
	}
}
