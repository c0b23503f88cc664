// Pressfeed - WordPress News Feed and Related Content Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pressfeed

/*
Package supervisor runs Pressfeed's long-lived services under a suture v4
supervisor tree.

	RootSupervisor ("pressfeed")
	├── DataSupervisor ("data-layer")
	│   └── StoreGCService
	├── FeedSupervisor ("feed-layer")
	│   ├── feed.Registry (idle session sweeper)
	│   └── websocket.Hub
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Crashed services are restarted with suture's backoff; a failing child
supervisor does not take its siblings down. Supervisor events are logged
through sutureslog into the zerolog-backed slog handler.

Usage in main.go:

	slogger := slog.New(logging.NewSlogHandler())
	tree, err := supervisor.NewSupervisorTree(slogger, supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddDataService(services.NewStoreGCService(st, cfg.Store.GCInterval))
	tree.AddFeedService(registry)
	tree.AddFeedService(hub)
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    return err
	}
*/
package supervisor
