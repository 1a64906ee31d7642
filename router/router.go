package router

import (
	"net/http"

	handler "overlaysvc/internal/overlay"
	"overlaysvc/internal/overlay/service"
	"overlaysvc/middleware"
	"overlaysvc/socket"
)

func Setup(svc *service.OverlayService, hub *socket.Hub, metrics *middleware.Metrics) http.Handler {
	mux := http.NewServeMux()

	h := handler.NewOverlayHandler(svc)

	mux.HandleFunc("GET /{$}", h.Health)
	mux.HandleFunc("GET /health/ready", h.Ready)

	// REST API
	mux.HandleFunc("POST /api/overlays", h.CreateOverlay)
	mux.HandleFunc("GET /api/overlays", h.GetOverlays)
	mux.HandleFunc("PUT /api/overlays/{id}", h.UpdateOverlay)
	mux.HandleFunc("DELETE /api/overlays/{id}", h.DeleteOverlay)

	// Change feed
	mux.HandleFunc("GET /ws", func(w http.ResponseWriter, r *http.Request) {
		socket.ServeWs(hub, w, r)
	})

	var root http.Handler = mux
	if metrics != nil {
		mux.Handle("GET /metrics", metrics.Handler())
		root = metrics.Middleware(root)
	}

	// Logging wraps CORS so preflights short-circuited there still get a request id and a log line.
	return middleware.Logging(middleware.CORSMiddleware(root))
}
