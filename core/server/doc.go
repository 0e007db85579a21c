// Package server runs an http.Handler with graceful shutdown.
//
//	var cfg server.Config
//	config.MustLoad(&cfg)
//
//	srv, err := server.New(cfg, server.WithLogger(log))
//	if err != nil {
//		return err
//	}
//
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
//	defer stop()
//
//	return srv.Run(ctx, r)
//
// Run blocks until the context is canceled and then shuts the server down,
// waiting up to Config.ShutdownTimeout for in-flight requests. The request
// contexts derive from the context passed to Run.
package server
