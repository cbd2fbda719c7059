package api

import (
	"github.com/gin-contrib/cors"
	"github.com/wb-go/wbf/ginext"

	"github.com/lennartdeknikker/jaco-line/cmd/middleware"
	"github.com/lennartdeknikker/jaco-line/internal/service"
)

type Routers struct {
	Service service.Service
}

func NewRouters(r *Routers) *ginext.Engine {
	app := ginext.New("release")

	app.Use(middleware.LoggingMiddleware())
	app.Use(cors.Default())
	apiGroup := app.Group("/v1")

	apiGroup.GET("/workshops", r.Service.GetWorkshops)
	apiGroup.GET("/workshops/:slug", r.Service.GetWorkshopBySlug)
	apiGroup.POST("/workshops/subscribe", r.Service.Subscribe)
	apiGroup.GET("/events", r.Service.GetEvents)
	apiGroup.GET("/gallery", r.Service.GetGallery)
	apiGroup.GET("/site-settings", r.Service.GetSiteSettings)
	apiGroup.POST("/newsletter/subscribe", r.Service.SubscribeNewsletter)
	apiGroup.POST("/contact", r.Service.SubmitContact)

	app.GET("/health", func(c *ginext.Context) {
		c.JSON(200, map[string]string{"status": "ok"})
	})

	return app
}
