package httpserver

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"NewsPortal/internal/apperrors"
	"NewsPortal/internal/domain"
)

type testNewsResponse struct {
	Message string         `json:"message"`
	Article domain.Article `json:"article"`
}

type generateAllResponse struct {
	Message             string           `json:"message"`
	TotalGenerated      int              `json:"total_generated"`
	CategoriesProcessed int              `json:"categories_processed"`
	FailedCategories    []string         `json:"failed_categories"`
	Articles            []domain.Article `json:"articles"`
}

func (s *Server) registerAdminRoutes(admin *echo.Group) {
	admin.GET("/settings", s.handleGetSettings)
	admin.PUT("/settings", s.handleUpdateSettings)
	admin.GET("/stats", s.handleAdminStats)
	admin.POST("/test-news", s.handleTestNews)
	admin.POST("/generate-all-categories", s.handleGenerateAll)
	admin.POST("/force-breaking-news", s.handleForceBreaking)
}

func (s *Server) handleGetSettings(c echo.Context) error {
	settings, err := s.settings.Current(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, settings)
}

func (s *Server) handleUpdateSettings(c echo.Context) error {
	var patch domain.SettingsPatch
	if err := c.Bind(&patch); err != nil {
		return apperrors.Validation("invalid settings body")
	}
	settings, err := s.settings.Update(c.Request().Context(), patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, settings)
}

func (s *Server) handleAdminStats(c echo.Context) error {
	stats, err := s.articles.AdminStats(c.Request().Context())
	if err != nil {
		return describe(err, "পরিসংখ্যান লোড করতে সমস্যা: ")
	}
	return c.JSON(http.StatusOK, stats)
}

func (s *Server) handleTestNews(c echo.Context) error {
	var draft domain.ArticleDraft
	if err := c.Bind(&draft); err != nil {
		return apperrors.Validation("invalid article body")
	}
	article, err := s.articles.Create(c.Request().Context(), draft)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, testNewsResponse{Message: "টেস্ট সংবাদ সফলভাবে তৈরি হয়েছে", Article: article})
}

func (s *Server) handleGenerateAll(c echo.Context) error {
	result := s.writer.GenerateAll(c.Request().Context())
	return c.JSON(http.StatusOK, generateAllResponse{
		Message:             fmt.Sprintf("সফলভাবে %dটি সংবাদ তৈরি হয়েছে", len(result.Articles)),
		TotalGenerated:      len(result.Articles),
		CategoriesProcessed: result.CategoriesProcessed,
		FailedCategories:    result.FailedCategories,
		Articles:            result.Articles,
	})
}
