package httpserver

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

const msgBreakingFailed = "ব্রেকিং নিউজ সংগ্রহে সমস্যা: "

func (s *Server) registerBreakingRoutes(api *echo.Group) {
	api.GET("/breaking-news", s.handleBreakingNews)
	api.GET("/breaking-news/latest", s.handleBreakingTicker)
	api.POST("/breaking-news/fetch", s.handleFetchBreaking)
}

func (s *Server) handleBreakingNews(c echo.Context) error {
	articles, err := s.articles.Breaking(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, articles)
}

func (s *Server) handleBreakingTicker(c echo.Context) error {
	items, err := s.articles.Ticker(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (s *Server) handleFetchBreaking(c echo.Context) error {
	articles, err := s.breaking.TriggerPublic(c.Request().Context())
	if err != nil {
		return describe(err, msgBreakingFailed)
	}
	return c.JSON(http.StatusOK, articlesResponse{
		Message:  fmt.Sprintf("%dটি ব্রেকিং নিউজ সংগ্রহ করা হয়েছে", len(articles)),
		Articles: articles,
	})
}

func (s *Server) handleForceBreaking(c echo.Context) error {
	articles, err := s.breaking.TriggerNow(c.Request().Context())
	if err != nil {
		return describe(err, msgBreakingFailed)
	}
	return c.JSON(http.StatusOK, articlesResponse{
		Message:  fmt.Sprintf("%dটি নতুন ব্রেকিং নিউজ সংগ্রহ করা হয়েছে", len(articles)),
		Articles: articles,
	})
}
