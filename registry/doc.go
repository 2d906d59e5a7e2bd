// Package registry serves app search and launch over the Model Context
// Protocol, and consumes them from other launchers.
//
// A [Registry] exposes three built-in tools backed by a
// [discovery.Discovery]:
//   - search_apps: ranked app results for a keyword, plus plugin output
//   - launch_app: launch a known app by bundle path
//   - list_apps: every app the launcher knows about
//
// Extra tools can be added with [Registry.RegisterLocalFunc]. The registry
// speaks JSON-RPC over stdio ([ServeStdio]) and plain HTTP ([ServeHTTP]), and
// serves go-sdk SSE sessions ([ServeSSE]) from the same tools.
//
// [RemoteProvider] is the client side: it implements provider.Provider by
// calling list_apps on another launcher, so one machine can search the apps
// installed on another.
//
// Example usage:
//
//	disc, _ := discovery.New(discovery.Options{Provider: catalog})
//	reg, err := registry.New(registry.Config{
//	    Discovery: disc,
//	    ServerInfo: registry.ServerInfo{
//	        Name:    "appdiscovery",
//	        Version: "1.0.0",
//	    },
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	registry.ServeStdio(ctx, reg)
package registry
