package web

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/rubiane-edu/finedu-web/internal/backend"
	"github.com/rubiane-edu/finedu-web/internal/config"
	"github.com/rubiane-edu/finedu-web/internal/service"
	"github.com/rubiane-edu/finedu-web/internal/session"
)

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, provider backend.Provider, store *session.Store, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	// Set Gin mode
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.SetHTMLTemplate(loadTemplates(cfg))
	router.MaxMultipartMemory = cfg.Server.MaxUploadSize

	// Middleware
	router.Use(requestIDMiddleware())
	router.Use(recoveryMiddleware(cfg, log))
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware(cfg))
	router.Use(brotliMiddleware(log))

	static, _ := fs.Sub(content, "static")
	router.StaticFS("/static", http.FS(static))

	// Health check
	router.GET("/health", healthCheck)

	b := &base{cfg: cfg, store: store, log: log}
	public := NewPublicHandler(services, b, log)
	auth := NewAuthHandler(services, b, log)
	student := NewStudentHandler(services, b, log)
	admin := NewAdminHandler(services, b, log)
	seo := NewSEOHandler(services, provider, cfg, log)

	// SEO files need no session
	router.GET("/robots.txt", seo.Robots)
	router.GET("/sitemap.xml", seo.Sitemap)
	router.GET("/manifest.webmanifest", seo.Manifest)

	pages := router.Group("/", sessionMiddleware(store, provider, log))
	{
		pages.GET("/", public.Home)
		pages.GET("/cursos", public.Courses)
		pages.GET("/cursos/:id", public.Course)
		pages.POST("/cursos/:id/comprar", public.Buy)
		pages.GET("/conteudos-gratis", public.FreeLessons)

		pages.GET("/legal", public.Static("legal.html", "Termos e Condições"))
		pages.GET("/privacy-policy", public.Static("privacy.html", "Política de Privacidade"))
		pages.GET("/support", public.Static("support.html", "Suporte"))
		pages.GET("/delete-account", public.DeleteAccountPage)
		pages.POST("/delete-account", public.DeleteAccount)

		pages.GET("/login", auth.LoginPage)
		pages.POST("/login", auth.Login)
		pages.POST("/registar", auth.Register)
		pages.GET("/logout", auth.Logout)
		pages.POST("/logout", auth.Logout)

		pages.GET("/area-do-aluno", student.Area)
		pages.POST("/area-do-aluno/comprovativo/:id", student.UploadProof)
		pages.GET("/aulas/:id", student.Lesson)
		pages.POST("/aulas/:id/concluir", student.MarkCompleted)

		adm := pages.Group("/admin")
		{
			adm.GET("", admin.Dashboard)
			adm.GET("/slug", admin.SlugPreview)

			adm.GET("/courses", admin.Courses)
			adm.GET("/courses/new", admin.NewCourse)
			adm.POST("/courses/new", admin.SaveCourse)
			adm.GET("/courses/:id", admin.EditCourse)
			adm.POST("/courses/:id", admin.SaveCourse)
			adm.GET("/courses/:id/delete", admin.ConfirmDeleteCourse)
			adm.POST("/courses/:id/delete", admin.DeleteCourse)

			adm.GET("/lessons", admin.Lessons)
			adm.GET("/lessons/new", admin.NewLesson)
			adm.POST("/lessons/new", admin.SaveLesson)
			adm.GET("/lessons/:id", admin.EditLesson)
			adm.POST("/lessons/:id", admin.SaveLesson)
			adm.GET("/lessons/:id/delete", admin.ConfirmDeleteLesson)
			adm.POST("/lessons/:id/delete", admin.DeleteLesson)

			adm.GET("/users", admin.Users)
			adm.GET("/users/:id/toggle", admin.ConfirmToggleStaff)
			adm.POST("/users/:id/toggle", admin.ToggleStaff)

			adm.GET("/enrollments", admin.Enrollments)
			adm.POST("/enrollments/:id/approve", admin.ApproveEnrollment)
			adm.GET("/enrollments/:id/cancel", admin.ConfirmCancelEnrollment)
			adm.POST("/enrollments/:id/cancel", admin.CancelEnrollment)

			adm.GET("/payments", admin.Payments)
			adm.POST("/payments/:id/approve", admin.ApprovePayment)
			adm.GET("/payments/:id/reject", admin.ConfirmRejectPayment)
			adm.POST("/payments/:id/reject", admin.RejectPayment)
		}
	}

	router.NoRoute(sessionMiddleware(store, provider, log), func(c *gin.Context) {
		b.fail(c, service.ErrNotFound, "/")
	})

	return router
}

// healthCheck returns the health status
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   "finedu-web",
	})
}
