package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
)

// PprofServer serves the profiling endpoints on a separate port.
// It should only be reachable internally or through an SSH tunnel.
func PprofServer(addr string) *http.Server {
	router := gin.New()
	pprof.Register(router)

	return &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
