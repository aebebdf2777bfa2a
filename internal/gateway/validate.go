package gateway

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"shareit/internal/models"
)

var registerOnce sync.Once

// registerValidators adds the notblank tag to gin's validator engine.
func registerValidators() {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
				return strings.TrimSpace(fl.Field().String()) != ""
			})
		}
	})
}

type userCreateBody struct {
	Name  string `json:"name" binding:"required,notblank"`
	Email string `json:"email" binding:"required,email"`
}

type userPatchBody struct {
	Name  *string `json:"name"`
	Email *string `json:"email" binding:"omitempty,email"`
}

type itemCreateBody struct {
	Name        string `json:"name" binding:"required,notblank"`
	Description string `json:"description" binding:"required,notblank"`
	Available   *bool  `json:"available" binding:"required"`
	RequestID   *int64 `json:"requestId" binding:"omitempty,gt=0"`
}

type commentBody struct {
	Text string `json:"text" binding:"required,notblank"`
}

type bookingCreateBody struct {
	ItemID int64            `json:"itemId" binding:"required,gt=0"`
	Start  *models.DateTime `json:"start" binding:"required"`
	End    *models.DateTime `json:"end" binding:"required"`
}

type requestCreateBody struct {
	Description string `json:"description" binding:"required,notblank"`
}

type pageQuery struct {
	From int `form:"from,default=0" binding:"min=0"`
	Size int `form:"size,default=10" binding:"gt=0"`
}

type stateQuery struct {
	pageQuery
	State string `form:"state,default=ALL"`
}

type approveQuery struct {
	Approved *bool `form:"approved" binding:"required"`
}

// requestValidator checks one route's request before it is forwarded.
type requestValidator func(c *gin.Context) error

// all runs checks in order and stops at the first failure.
func all(checks ...requestValidator) requestValidator {
	return func(c *gin.Context) error {
		for _, check := range checks {
			if err := check(c); err != nil {
				return err
			}
		}
		return nil
	}
}

func sharerHeader(c *gin.Context) error {
	raw := strings.TrimSpace(c.GetHeader(models.HeaderUserID))
	if raw == "" {
		return fmt.Errorf("missing %s header", models.HeaderUserID)
	}
	if _, err := strconv.ParseInt(raw, 10, 64); err != nil {
		return fmt.Errorf("invalid %s header %q", models.HeaderUserID, raw)
	}
	return nil
}

func pathID(name string) requestValidator {
	return func(c *gin.Context) error {
		raw := c.Param(name)
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return fmt.Errorf("invalid %s %q", name, raw)
		}
		return nil
	}
}

// jsonBody binds into a fresh T; the raw bytes stay on the context for forwarding.
func jsonBody[T any]() requestValidator {
	return func(c *gin.Context) error {
		var body T
		if err := c.ShouldBindBodyWith(&body, binding.JSON); err != nil {
			return fmt.Errorf("invalid request body: %w", err)
		}
		return nil
	}
}

func pageParams(c *gin.Context) error {
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		return fmt.Errorf("invalid paging: %w", err)
	}
	return nil
}

func stateParams(c *gin.Context) error {
	var q stateQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		return fmt.Errorf("invalid paging: %w", err)
	}
	if _, ok := models.ParseBookingState(q.State); !ok {
		return fmt.Errorf("Unknown state: %s", q.State)
	}
	return nil
}

func approveParams(c *gin.Context) error {
	var q approveQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		return fmt.Errorf("invalid approved parameter: %w", err)
	}
	return nil
}

// bookingWindow checks the booking period against now.
func bookingWindow(now func() time.Time) requestValidator {
	return func(c *gin.Context) error {
		var body bookingCreateBody
		if err := c.ShouldBindBodyWith(&body, binding.JSON); err != nil {
			return fmt.Errorf("invalid request body: %w", err)
		}
		current := now().UTC()
		start, end := body.Start.UTC(), body.End.UTC()
		switch {
		case start.Before(current):
			return errors.New("start must not be in the past")
		case !end.After(current):
			return errors.New("end must be in the future")
		case !start.Before(end):
			return errors.New("start must be before end")
		}
		return nil
	}
}
