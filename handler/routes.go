package handler

import (
	"expvar"
	"net/http"

	"github.com/julienschmidt/httprouter"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

func (h *Handler) Routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(h.notFoundResponse)
	router.MethodNotAllowed = http.HandlerFunc(h.methodNotAllowed)

	router.HandlerFunc(http.MethodGet, "/books", h.listBooksHandler)
	router.HandlerFunc(http.MethodPost, "/books", h.createBookHandler)
	router.HandlerFunc(http.MethodGet, "/books/:isbn", h.showBookHandler)
	router.HandlerFunc(http.MethodPut, "/books/:isbn", h.updateBookHandler)
	router.HandlerFunc(http.MethodDelete, "/books/:isbn", h.deleteBookHandler)

	router.HandlerFunc(http.MethodGet, "/healthcheck", h.healthcheckHandler)

	if h.config.Metrics.Enabled {
		router.HandlerFunc(http.MethodGet, "/debug/vars", h.basicAuth(expvar.Handler().ServeHTTP))
	}

	// Swagger routes
	router.HandlerFunc(http.MethodGet, "/spec", h.swaggerSpecHandler)
	router.HandlerFunc(http.MethodGet, "/docs/*any", httpSwagger.Handler(httpSwagger.URL("/spec")))

	return h.metrics(h.recoverPanic(h.enableCORS(h.rateLimit(router))))
}
