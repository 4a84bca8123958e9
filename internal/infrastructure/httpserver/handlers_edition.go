package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (s *Server) registerEditionRoutes(api *echo.Group) {
	api.GET("/download-newspaper", s.handleDownloadNewspaper)
}

func (s *Server) handleDownloadNewspaper(c echo.Context) error {
	edition, err := s.edition.Today(c.Request().Context())
	if err != nil {
		return describe(err, "সংবাদপত্র ডাউনলোড করতে সমস্যা: ")
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+edition.Filename)
	return c.Blob(http.StatusOK, "application/pdf", edition.PDF)
}
