// Package discovery provides the app search facade.
//
// It ties an app [provider.Provider], an [index.Searcher], the plugin registry
// and a [launch.Launcher] into one API. [SearchItems] is the pure core: it
// takes the current item list and a keyword, builds a fresh index, and returns
// tagged [Result] values. Nothing is cached between calls.
//
// # Basic Usage
//
//	store := provider.NewInMemoryStore(
//	    provider.App{Name: "Calculator", Path: "/Applications/Calculator.app"},
//	    provider.App{Name: "Calendar", Path: "/Applications/Calendar.app"},
//	)
//	disc, err := discovery.New(discovery.Options{Provider: store})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	results, err := disc.Search(ctx, "cal")
//	for _, r := range results {
//	    switch r.Kind {
//	    case discovery.KindApp:
//	        fmt.Println(r.App.Name, r.App.Path)
//	    case discovery.KindPlugin:
//	        fmt.Println(r.Plugin.Output)
//	    }
//	}
//
// # Matching
//
// A keyword matches an app when it occurs, case-insensitively, as a contiguous
// substring of the app name no longer than the token width (8 by default).
// Apps are ranked by how often the keyword occurs in their name; ties keep
// provider order. Only the ranked top Limit apps are returned.
//
// # Duplicate Names
//
// Hits are resolved back to apps by name. When several apps share a name,
// every hit resolves to the first of them in provider order.
//
// # Thread Safety
//
// All Discovery methods are safe for concurrent use.
package discovery
