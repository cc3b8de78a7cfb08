package web

// Options collects the route registrars and extra middlewares applied to the
// engine during module initialization.
type Options struct {
	Routes      []func(r Router)
	Middlewares []Handler
}

type Option func(*Options)

// WithRoutes registers a callback that mounts routes on the engine.
func WithRoutes(f func(r Router)) Option {
	return func(o *Options) { o.Routes = append(o.Routes, f) }
}

// WithMiddlewares appends middlewares after the built-in chain.
func WithMiddlewares(m ...Handler) Option {
	return func(o *Options) { o.Middlewares = append(o.Middlewares, m...) }
}
