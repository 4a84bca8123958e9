package httpserver

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"NewsPortal/internal/apperrors"
	"NewsPortal/internal/domain"
	"NewsPortal/internal/usecase"
)

const welcomeMessage = "বাংলা নিউজ পোর্টাল API"

type messageResponse struct {
	Message string `json:"message"`
}

type articlesResponse struct {
	Message  string           `json:"message"`
	Articles []domain.Article `json:"articles"`
}

type generateRequest struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

func (s *Server) registerNewsRoutes(api *echo.Group) {
	api.GET("/news", s.handleListNews)
	api.POST("/news", s.handleCreateNews)
	api.POST("/news/generate", s.handleGenerateNews)
	api.GET("/news/stats/overview", s.handleNewsStats)
	api.GET("/news/:id", s.handleGetNews)
	api.PUT("/news/:id/featured", s.handleToggleFeatured)
	api.PUT("/news/:id/breaking", s.handleToggleBreaking)
}

func (s *Server) handleRoot(c echo.Context) error {
	return c.JSON(http.StatusOK, messageResponse{Message: welcomeMessage})
}

func (s *Server) handleCategories(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string][]string{"categories": domain.Categories})
}

func (s *Server) handleListNews(c echo.Context) error {
	var q usecase.ListQuery
	err := echo.QueryParamsBinder(c).
		String("category", &q.Category).
		Int("limit", &q.Limit).
		Int("skip", &q.Skip).
		BindError()
	if err != nil {
		return apperrors.Validation("invalid query parameters")
	}
	if q.Featured, err = optionalBool(c, "featured"); err != nil {
		return err
	}
	if q.Breaking, err = optionalBool(c, "breaking"); err != nil {
		return err
	}

	articles, err := s.articles.List(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, articles)
}

func (s *Server) handleGetNews(c echo.Context) error {
	article, err := s.articles.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, article)
}

func (s *Server) handleCreateNews(c echo.Context) error {
	var draft domain.ArticleDraft
	if err := c.Bind(&draft); err != nil {
		return apperrors.Validation("invalid article body")
	}
	article, err := s.articles.Create(c.Request().Context(), draft)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, article)
}

func (s *Server) handleToggleFeatured(c echo.Context) error {
	featured, err := s.articles.ToggleFeatured(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	state := "ফিচার থেকে সরানো হয়েছে"
	if featured {
		state = "ফিচার করা হয়েছে"
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "ফিচার স্ট্যাটাস পরিবর্তন করা হয়েছে: " + state})
}

func (s *Server) handleToggleBreaking(c echo.Context) error {
	breaking, err := s.articles.ToggleBreaking(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	state := "সাধারণ সংবাদ"
	if breaking {
		state = "ব্রেকিং নিউজ"
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "ব্রেকিং নিউজ স্ট্যাটাস পরিবর্তন করা হয়েছে: " + state})
}

func (s *Server) handleNewsStats(c echo.Context) error {
	stats, err := s.articles.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

func (s *Server) handleGenerateNews(c echo.Context) error {
	req := generateRequest{Count: usecase.DefaultGenerateCount}
	if err := c.Bind(&req); err != nil {
		return apperrors.Validation("invalid generate request")
	}

	articles, err := s.writer.Generate(c.Request().Context(), req.Category, req.Count)
	if err != nil {
		return describe(err, "সংবাদ তৈরিতে সমস্যা হয়েছে: ")
	}
	return c.JSON(http.StatusOK, articlesResponse{
		Message:  fmt.Sprintf("%dটি সংবাদ সফলভাবে তৈরি হয়েছে", len(articles)),
		Articles: articles,
	})
}

func optionalBool(c echo.Context, name string) (*bool, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, apperrors.Validation(fmt.Sprintf("%s must be a boolean", name))
	}
	return &v, nil
}
