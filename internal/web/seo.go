package web

import (
	"encoding/xml"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/rubiane-edu/finedu-web/internal/backend"
	"github.com/rubiane-edu/finedu-web/internal/config"
	"github.com/rubiane-edu/finedu-web/internal/service"
)

// staticPages are listed in the sitemap before the course pages
var staticPages = []struct {
	path     string
	priority string
}{
	{"/", "1.0"},
	{"/cursos", "0.9"},
	{"/conteudos-gratis", "0.8"},
	{"/login", "0.5"},
	{"/support", "0.4"},
	{"/legal", "0.3"},
	{"/privacy-policy", "0.3"},
	{"/delete-account", "0.2"},
}

// SEOHandler serves robots.txt, the sitemap and the web manifest
type SEOHandler struct {
	services *service.Services
	provider backend.Provider
	cfg      *config.Config
	log      zerolog.Logger
}

// NewSEOHandler creates a new SEOHandler
func NewSEOHandler(services *service.Services, provider backend.Provider, cfg *config.Config, log zerolog.Logger) *SEOHandler {
	return &SEOHandler{
		services: services,
		provider: provider,
		cfg:      cfg,
		log:      log.With().Str("handler", "seo").Logger(),
	}
}

// Robots handles GET /robots.txt
func (h *SEOHandler) Robots(c *gin.Context) {
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	b.WriteString("Allow: /\n")
	b.WriteString("Disallow: /admin\n")
	b.WriteString("Disallow: /area-do-aluno\n")
	b.WriteString("Disallow: /aulas\n")
	b.WriteString("\nSitemap: " + h.cfg.Site.URL + "/sitemap.xml\n")
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(b.String()))
}

type sitemapURL struct {
	Loc      string `xml:"loc"`
	Priority string `xml:"priority"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// Sitemap handles GET /sitemap.xml. Course pages are added when the
// catalog is reachable.
func (h *SEOHandler) Sitemap(c *gin.Context) {
	set := urlSet{XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	for _, p := range staticPages {
		set.URLs = append(set.URLs, sitemapURL{Loc: h.cfg.Site.URL + p.path, Priority: p.priority})
	}

	courses, err := h.services.Catalog.List(c.Request.Context(), h.provider.For(""))
	if err != nil {
		h.log.Warn().Err(err).Msg("Sitemap without course pages")
	}
	for _, course := range courses {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:      h.cfg.Site.URL + "/cursos/" + strconv.Itoa(course.ID),
			Priority: "0.8",
		})
	}

	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to encode sitemap")
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Data(http.StatusOK, "application/xml; charset=utf-8", append([]byte(xml.Header), out...))
}

// Manifest handles GET /manifest.webmanifest
func (h *SEOHandler) Manifest(c *gin.Context) {
	c.Header("Content-Type", "application/manifest+json")
	c.JSON(http.StatusOK, gin.H{
		"name":             h.cfg.Site.Name,
		"short_name":       "Rubiane Joaquim",
		"description":      "Cursos de educação financeira",
		"start_url":        "/",
		"display":          "standalone",
		"background_color": "#ffffff",
		"theme_color":      "#4f46e5",
		"lang":             "pt-PT",
		"icons": []gin.H{
			{"src": "/static/placeholder.svg", "sizes": "any", "type": "image/svg+xml"},
		},
	})
}
