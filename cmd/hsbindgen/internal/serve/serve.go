package serve

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/alecthomas/kong"
	"github.com/broady/hsbindgen/internal/playground"
)

type Cmd struct {
	Port        int      `help:"Port to listen on." default:"9000" short:"p"`
	AllowOrigin []string `help:"Origins allowed to call the playground from a browser (\"*\" for any)." name:"allow-origin"`
}

func (c *Cmd) Run(k *kong.Context, logger *slog.Logger) error {
	handler := playground.NewServer(logger)
	if len(c.AllowOrigin) > 0 {
		handler = playground.CORS(c.AllowOrigin)(handler)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf("localhost:%d", c.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	fmt.Fprintf(k.Stdout, "hsbindgen playground listening on http://%s\n", srv.Addr)
	return srv.ListenAndServe()
}
