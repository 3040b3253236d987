package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lumosedu/lumos-api/internal/handler"
	"github.com/lumosedu/lumos-api/internal/models"
	"github.com/lumosedu/lumos-api/internal/repository"
	"github.com/lumosedu/lumos-api/internal/service"
	"github.com/lumosedu/lumos-api/internal/utils"
)

func newEnrollmentApp(t *testing.T, userID uint) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:enrollment_handler?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Profile{}, &models.Course{}, &models.Enrollment{}))
	t.Cleanup(func() {
		db.Exec("DELETE FROM enrollments")
		db.Exec("DELETE FROM courses")
		db.Exec("DELETE FROM profiles")
	})

	course := models.Course{
		InstructorID: 2,
		Title:        "Algebra",
		Description:  "Numbers and letters",
		Category:     "Math",
		Difficulty:   "Easy",
		Status:       models.CourseStatusPublished,
	}
	require.NoError(t, db.Create(&course).Error)

	validate := validator.New(validator.WithRequiredStructEnabled())
	svc := service.NewEnrollmentService(
		repository.NewEnrollmentRepository(db),
		repository.NewCourseRepository(db),
		validate,
		zerolog.Nop(),
	)
	h := handler.NewEnrollmentHandler(svc)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", userID)
		c.Locals("user_role", string(models.RoleLearner))
		return c.Next()
	})
	app.Post("/api/enrollments", h.Enroll)
	app.Get("/api/enrollments/my", h.ListMine)
	app.Patch("/api/enrollments/:id/cancel", h.Cancel)

	return app, db
}

func postJSON(t *testing.T, app *fiber.App, target string, payload interface{}) *http.Response {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, int(5*time.Second/time.Millisecond))
	require.NoError(t, err)
	return resp
}

func TestEnrollmentHandlerLifecycle(t *testing.T) {
	app, db := newEnrollmentApp(t, 1)

	var course models.Course
	require.NoError(t, db.First(&course).Error)

	resp := postJSON(t, app, "/api/enrollments", fiber.Map{"course_id": course.ID})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var created struct {
		Success bool `json:"success"`
		Data    struct {
			ID uint `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	resp.Body.Close()
	require.True(t, created.Success)

	// A second active enrollment for the same pair is rejected.
	resp = postJSON(t, app, "/api/enrollments", fiber.Map{"course_id": course.ID})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var envelope utils.APIErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	resp.Body.Close()
	require.Equal(t, "ALREADY_ENROLLED", envelope.Error.Code)

	// Cancel, then enrolling again opens a fresh row.
	req := httptest.NewRequest(http.MethodPatch, "/api/enrollments/"+itoa(created.Data.ID)+"/cancel", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, app, "/api/enrollments", fiber.Map{"course_id": course.ID})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	var count int64
	require.NoError(t, db.Model(&models.Enrollment{}).Count(&count).Error)
	require.Equal(t, int64(2), count)
}

func TestEnrollmentHandlerUnknownCourse(t *testing.T) {
	app, _ := newEnrollmentApp(t, 1)

	resp := postJSON(t, app, "/api/enrollments", fiber.Map{"course_id": 9999})
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var envelope utils.APIErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	resp.Body.Close()
	require.Equal(t, "COURSE_NOT_FOUND", envelope.Error.Code)
}

func itoa(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}
