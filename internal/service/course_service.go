package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/lumosedu/lumos-api/internal/dto"
	"github.com/lumosedu/lumos-api/internal/models"
	"github.com/lumosedu/lumos-api/internal/repository"
)

// ErrCourseNotFound indicates the requested course does not exist.
var ErrCourseNotFound = errors.New("course not found")

// catalogCacheVersionKey holds a monotonically increasing version folded into
// every catalog cache key. Bumping it on writes invalidates all cached pages
// without scanning for them.
const catalogCacheVersionKey = "catalog:version"

// CourseService exposes catalog use cases.
type CourseService interface {
	List(ctx context.Context, query dto.CourseListQuery) (dto.CourseListResponse, error)
	Get(ctx context.Context, id uint) (dto.CourseResponse, error)
	Create(ctx context.Context, actor Actor, payload dto.CourseCreateRequest) (dto.CourseResponse, error)
	Update(ctx context.Context, actor Actor, id uint, payload dto.CourseUpdateRequest) (dto.CourseResponse, error)
}

type courseService struct {
	courses   repository.CourseRepository
	cache     *redis.Client
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewCourseService builds the catalog service. cache may be nil; listings are
// then served from the store on every call.
func NewCourseService(courseRepo repository.CourseRepository, cache *redis.Client, ttl time.Duration, validate *validator.Validate, logger zerolog.Logger) CourseService {
	return &courseService{
		courses:   courseRepo,
		cache:     cache,
		cacheTTL:  ttl,
		validator: validate,
		logger:    logger.With().Str("component", "course_service").Logger(),
	}
}

func (s *courseService) List(ctx context.Context, query dto.CourseListQuery) (dto.CourseListResponse, error) {
	if err := s.validator.Struct(query); err != nil {
		return dto.CourseListResponse{}, err
	}
	query.Normalize()

	cacheKey := s.cacheKey(ctx, query)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var response dto.CourseListResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				s.logger.Debug().Str("key", cacheKey).Msg("catalog cache hit")
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read catalog cache")
		}
	}

	courses, total, err := s.courses.List(ctx, repository.CourseFilter{
		Category:   query.Category,
		Difficulty: query.Difficulty,
		Status:     query.Status,
		Page:       query.Page,
		Limit:      query.Limit,
	})
	if err != nil {
		return dto.CourseListResponse{}, err
	}

	response := dto.CourseListResponse{
		Courses: dto.NewCourseResponseSlice(courses),
		Total:   total,
		Page:    query.Page,
		Limit:   query.Limit,
	}

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store catalog cache")
			}
		}
	}

	return response, nil
}

func (s *courseService) Get(ctx context.Context, id uint) (dto.CourseResponse, error) {
	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CourseResponse{}, ErrCourseNotFound
		}
		return dto.CourseResponse{}, err
	}

	return dto.NewCourseResponse(course), nil
}

func (s *courseService) Create(ctx context.Context, actor Actor, payload dto.CourseCreateRequest) (dto.CourseResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CourseResponse{}, err
	}

	course := models.Course{
		InstructorID: actor.ID,
		Title:        payload.Title,
		Description:  payload.Description,
		Category:     payload.Category,
		Difficulty:   payload.Difficulty,
		Curriculum:   dto.CurriculumFromMap(payload.Curriculum),
		Status:       models.CourseStatusDraft,
	}
	if payload.Status != "" {
		course.Status = payload.Status
	}

	if err := s.courses.Create(ctx, &course); err != nil {
		return dto.CourseResponse{}, err
	}

	s.invalidateCatalog(ctx)
	s.logger.Info().Uint("course_id", course.ID).Msg("course created")

	return dto.NewCourseResponse(course), nil
}

func (s *courseService) Update(ctx context.Context, actor Actor, id uint, payload dto.CourseUpdateRequest) (dto.CourseResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CourseResponse{}, err
	}

	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CourseResponse{}, ErrCourseNotFound
		}
		return dto.CourseResponse{}, err
	}

	if course.InstructorID != actor.ID {
		return dto.CourseResponse{}, ErrNotCourseOwner
	}

	if payload.Title != nil {
		course.Title = *payload.Title
	}
	if payload.Description != nil {
		course.Description = *payload.Description
	}
	if payload.Category != nil {
		course.Category = *payload.Category
	}
	if payload.Difficulty != nil {
		course.Difficulty = *payload.Difficulty
	}
	if payload.Curriculum != nil {
		course.Curriculum = dto.CurriculumFromMap(payload.Curriculum)
	}
	if payload.Status != nil {
		course.Status = *payload.Status
	}

	if err := s.courses.Update(ctx, &course); err != nil {
		return dto.CourseResponse{}, err
	}

	s.invalidateCatalog(ctx)
	s.logger.Info().Uint("course_id", course.ID).Msg("course updated")

	return dto.NewCourseResponse(course), nil
}

func (s *courseService) cacheKey(ctx context.Context, query dto.CourseListQuery) string {
	version := int64(0)
	if s.cache != nil {
		if v, err := s.cache.Get(ctx, catalogCacheVersionKey).Int64(); err == nil {
			version = v
		}
	}

	return fmt.Sprintf("catalog:v%d:%s:%s:%s:%d:%d",
		version, query.Category, query.Difficulty, query.Status, query.Page, query.Limit)
}

func (s *courseService) invalidateCatalog(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Incr(ctx, catalogCacheVersionKey).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to bump catalog cache version")
	}
}
