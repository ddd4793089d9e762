// Package pkg provides the core libraries for ridgeline, an animated
// wireframe terrain backdrop.
//
// # Overview
//
// Ridgeline turns seeded noise into stacked wireframe mountain ranges and
// animates them on any drawing surface. The pkg directory is organized into
// three areas:
//
//  1. Domain logic: [noise], [terrain], [scene], [backdrop]
//  2. Surfaces and output: [surface], [pipeline]
//  3. Site services: [content], [nav], [contact], [server]
//
// Infrastructure shared by all of them lives in [cache], [config],
// [errors], [httputil] and [observability].
//
// # Architecture
//
// The data flow of one frame:
//
//	seeded NoiseField
//	         ↓
//	    [terrain] package (heightmap + layered grid meshes)
//	         ↓
//	    [backdrop] package (throttled render loop, rotation, sway)
//	         ↓
//	    [scene] package (perspective camera, clipping, draw)
//	         ↓
//	    [surface] implementation (SVG, PNG, braille cells)
//
// # Quick Start
//
// Render one frame offline:
//
//	runner := pipeline.NewRunner(cache.NewMemoryCache(), nil, nil)
//	result, err := runner.Render(ctx, pipeline.Options{
//	    Seed:    7,
//	    Formats: []string{pipeline.FormatSVG},
//	})
//	svg := result.Artifacts[pipeline.FormatSVG]
//
// Host the live loop yourself:
//
//	bd, _ := backdrop.New(backdrop.DefaultConfig(), backdrop.WithSeed(7))
//	sched := backdrop.NewRefreshScheduler(0, nil)
//	_ = bd.Mount(surf, sched)
//	go sched.Run(ctx)
//	defer bd.Unmount()
//
// [noise]: https://pkg.go.dev/github.com/matzehuels/ridgeline/pkg/noise
// [terrain]: https://pkg.go.dev/github.com/matzehuels/ridgeline/pkg/terrain
// [scene]: https://pkg.go.dev/github.com/matzehuels/ridgeline/pkg/scene
// [backdrop]: https://pkg.go.dev/github.com/matzehuels/ridgeline/pkg/backdrop
// [surface]: https://pkg.go.dev/github.com/matzehuels/ridgeline/pkg/surface
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/ridgeline/pkg/pipeline
// [content]: https://pkg.go.dev/github.com/matzehuels/ridgeline/pkg/content
// [nav]: https://pkg.go.dev/github.com/matzehuels/ridgeline/pkg/nav
// [contact]: https://pkg.go.dev/github.com/matzehuels/ridgeline/pkg/contact
// [server]: https://pkg.go.dev/github.com/matzehuels/ridgeline/pkg/server
// [cache]: https://pkg.go.dev/github.com/matzehuels/ridgeline/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/ridgeline/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/ridgeline/pkg/errors
// [httputil]: https://pkg.go.dev/github.com/matzehuels/ridgeline/pkg/httputil
// [observability]: https://pkg.go.dev/github.com/matzehuels/ridgeline/pkg/observability
package pkg
