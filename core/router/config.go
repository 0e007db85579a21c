package router

// Config holds router settings loaded from the environment.
//
//	var cfg router.Config
//	config.MustLoad(&cfg)
//	r, err := router.Build(chain, set, routes, router.WithConfig(cfg))
type Config struct {
	NormalizeUnicode bool   `env:"ROUTER_NORMALIZE_UNICODE" envDefault:"false"`
	RequestIDHeader  string `env:"ROUTER_REQUEST_ID_HEADER" envDefault:"X-Request-ID"`
}
